package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/everFinance/domns"
	"github.com/everFinance/domns/config"
	"github.com/spf13/cobra"
)

const pidFile string = ".domns_pid.lock"

var daemon bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start domns",
	Long:  `start the domns api with the wallet and registry from the cfg file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !daemon {
			return runServer()
		}
		if _, err := os.Stat(pidFile); err == nil {
			fmt.Println("Failed start, PID file exist.running...")
			return nil
		}

		path, err := os.Executable()
		if err != nil {
			return err
		}
		startArgs := []string{"start"}
		if cfgFile != "" {
			startArgs = append(startArgs, "--cfg", cfgFile)
		}
		command := exec.Command(path, startArgs...)

		logFileName := fmt.Sprintf("domns_%d.log", time.Now().Unix())
		logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return err
		}
		command.Stdout = logFile
		command.Stderr = logFile

		if err := command.Start(); err != nil {
			return err
		}
		return os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", command.Process.Pid)), 0666)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVarP(&daemon, "daemon", "d", false, "run in background")
}

func runServer() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	s, err := domns.NewServer(cfg)
	if err != nil {
		return err
	}
	s.Run(context.Background(), cfg.Port)

	<-signals
	s.Close()
	return nil
}
