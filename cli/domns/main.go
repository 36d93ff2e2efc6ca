package main

import "github.com/everFinance/domns/cli/domns/cmd"

func main() {
	cmd.Execute()
}
