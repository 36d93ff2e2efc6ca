package config

import (
	"errors"
	"strings"
	"time"

	"github.com/everFinance/domns/schema"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "domns"
	ConfigName = "domns"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", ":8080")
	v.SetDefault("metricPort", ":9000")
	v.SetDefault("privateKey", "")
	v.SetDefault("walletDir", "./data/wallet")
	v.SetDefault("origin", "http://localhost:3000")
	v.SetDefault("contract", schema.DefaultContract)
	v.SetDefault("requiredChain", schema.MumbaiChainId)
	v.SetDefault("refreshDelay", 2*time.Second)
	v.SetDefault("cacheTTL", 10*time.Minute)
	v.SetDefault("rateLimit", 60)
	v.SetDefault("sentryDsn", "")
	v.SetDefault("kafka.start", false)
	v.SetDefault("kafka.uri", "127.0.0.1:9092")
}

// Load reads path, or ./domns.yaml when path is empty, with DOMNS_* env vars on top.
// A missing default file is not an error.
func Load(path string) (*schema.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Info("no config file found, using defaults and env")
	} else {
		log.Info("using config file", "path", v.ConfigFileUsed())
	}

	cfg := &schema.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if len(cfg.Chains) == 0 {
		cfg.Chains = []schema.Chain{schema.MumbaiChain}
	}
	if _, ok := cfg.Required(); !ok {
		return nil, schema.ErrUnknownChain
	}
	return cfg, nil
}
