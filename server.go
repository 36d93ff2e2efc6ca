package domns

import (
	"github.com/everFinance/domns/rawdb"
	"github.com/everFinance/domns/registry"
	"github.com/everFinance/domns/schema"
	"github.com/everFinance/domns/wallet"
)

// NewServer wires the local wallet and the registry contract described by cfg.
// Without a private key the server runs as if no wallet were installed.
func NewServer(cfg *schema.Config) (*Domns, error) {
	var (
		authority Authority
		provider  registry.Provider
		closers   []func()
	)
	if cfg.PrivateKey != "" {
		db, err := rawdb.NewBoltDB(cfg.WalletDir)
		if err != nil {
			return nil, err
		}
		w, err := wallet.New(cfg.PrivateKey, db, cfg.Origin, cfg.Chains, cfg.RequiredChain)
		if err != nil {
			db.Close()
			return nil, err
		}
		authority, provider = w, w
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				log.Warn("db.Close", "err", err)
			}
		}, w.Close)
		log.Info("wallet loaded", "address", w.Address().Hex(), "origin", cfg.Origin)
	} else {
		log.Warn("no private key configured, running without a wallet")
	}

	reg, err := registry.New(contractAddress(cfg), provider)
	if err != nil {
		return nil, err
	}
	d, err := New(authority, reg, cfg)
	if err != nil {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}
	d.closers = closers
	return d, nil
}
