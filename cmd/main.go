package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everFinance/domns"
	"github.com/everFinance/domns/config"
	"github.com/getsentry/sentry-go"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "domns",
		Usage: "wallet and name registry client core",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "", Usage: "yaml config path, default ./domns.yaml", EnvVars: []string{"CONFIG"}},
			&cli.StringFlag{Name: "port", Usage: "api listen address", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "metric_port", Usage: "prometheus listen address", EnvVars: []string{"METRIC_PORT"}},
			&cli.StringFlag{Name: "key", Usage: "wallet private key hex", EnvVars: []string{"PRIVATE_KEY"}},
			&cli.StringFlag{Name: "wallet_dir", Usage: "bolt db dir of the wallet", EnvVars: []string{"WALLET_DIR"}},
			&cli.StringFlag{Name: "contract", Usage: "registry contract address", EnvVars: []string{"CONTRACT"}},
			&cli.StringFlag{Name: "sentry_dsn", EnvVars: []string{"SENTRY_DSN"}},
			&cli.BoolFlag{Name: "kafka", Value: false, Usage: "publish domain events", EnvVars: []string{"KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", EnvVars: []string{"KAFKA_URI"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("metric_port") {
		cfg.MetricPort = c.String("metric_port")
	}
	if c.IsSet("key") {
		cfg.PrivateKey = c.String("key")
	}
	if c.IsSet("wallet_dir") {
		cfg.WalletDir = c.String("wallet_dir")
	}
	if c.IsSet("contract") {
		cfg.Contract = c.String("contract")
	}
	if c.IsSet("sentry_dsn") {
		cfg.SentryDsn = c.String("sentry_dsn")
	}
	if c.IsSet("kafka") {
		cfg.Kafka.Start = c.Bool("kafka")
	}
	if c.IsSet("kafka_uri") {
		cfg.Kafka.Uri = c.String("kafka_uri")
	}

	if cfg.SentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDsn}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
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
