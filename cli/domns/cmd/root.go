package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/everFinance/domns/sdk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "domns",
	Short:   "domns",
	Long:    `domns mints .dom names and manages their records through a wallet`,
	Version: "v0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "cfg", "", "cfg file used by start (default is ./domns.yaml)")
	rootCmd.PersistentFlags().String("api", "http://127.0.0.1:8080", "domns api url")
	if err := viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api")); err != nil {
		panic(err)
	}
}

// initConfig lets DOMNS_API override the api flag default.
func initConfig() {
	viper.SetEnvPrefix("domns")
	viper.AutomaticEnv()
}

func client() *sdk.DomnsCli {
	return sdk.New(viper.GetString("api"))
}

func printJSON(v interface{}) error {
	by, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(by))
	return nil
}
