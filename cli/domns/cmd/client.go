package cmd

import (
	"github.com/everFinance/domns/schema"
	"github.com/spf13/cobra"
)

func viewCommand(use, short string, call func(args []string) (*schema.ViewModel, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := call(args)
			if err != nil {
				return err
			}
			return printJSON(v)
		},
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list registered domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := client().Domains()
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

func init() {
	viewCmd := viewCommand("view", "show the current view", func([]string) (*schema.ViewModel, error) {
		return client().View()
	})
	connectCmd := viewCommand("connect", "connect the wallet", func([]string) (*schema.ViewModel, error) {
		return client().Connect()
	})
	switchCmd := viewCommand("switch", "switch the wallet to the required network", func([]string) (*schema.ViewModel, error) {
		return client().SwitchNetwork()
	})
	refreshCmd := viewCommand("refresh", "reload the listing", func([]string) (*schema.ViewModel, error) {
		return client().Refresh()
	})
	mintCmd := viewCommand("mint <name> [record]", "register a name and set its record", func(args []string) (*schema.ViewModel, error) {
		record := ""
		if len(args) > 1 {
			record = args[1]
		}
		return client().MintDomain(args[0], record)
	})
	mintCmd.Args = cobra.RangeArgs(1, 2)
	recordCmd := viewCommand("record <name> <record>", "update the record of a name", func(args []string) (*schema.ViewModel, error) {
		return client().UpdateRecord(args[0], args[1])
	})
	recordCmd.Args = cobra.ExactArgs(2)

	rootCmd.AddCommand(viewCmd, listCmd, connectCmd, switchCmd, refreshCmd, mintCmd, recordCmd)
}
