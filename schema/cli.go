package schema

import "time"

type Config struct {
	Port          string        `yaml:"port"`
	MetricPort    string        `yaml:"metricPort"`
	PrivateKey    string        `yaml:"privateKey"`
	WalletDir     string        `yaml:"walletDir"`
	Origin        string        `yaml:"origin"`
	Contract      string        `yaml:"contract"`
	RequiredChain string        `yaml:"requiredChain"` // chainId hex
	Chains        []Chain       `yaml:"chains"`
	RefreshDelay  time.Duration `yaml:"refreshDelay"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	RateLimit     int           `yaml:"rateLimit"` // tx intents per minute per client
	SentryDsn     string        `yaml:"sentryDsn"`

	Kafka Kafka `yaml:"kafka"`
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}

func (c *Config) Required() (Chain, bool) {
	id := NormalizeChainId(c.RequiredChain)
	for _, ch := range c.Chains {
		if NormalizeChainId(ch.ChainId) == id {
			return ch, true
		}
	}
	return Chain{}, false
}
