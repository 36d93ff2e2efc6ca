package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stop domns",
	Long:  `stop a domns started with start -d`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := os.ReadFile(pidFile)
		if err != nil {
			fmt.Printf("Stop server failed, err: %v\n", err)
			return nil
		}
		if err := exec.Command("kill", strings.TrimSpace(string(pid))).Run(); err != nil {
			return err
		}
		if err := os.Remove(pidFile); err != nil {
			return err
		}
		fmt.Println("domns stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
