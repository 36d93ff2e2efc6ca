package domns

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/everFinance/domns/schema"
	"github.com/everFinance/domns/wallet"
)

// Gate keeps the wallet on the single chain the registry lives on.
type Gate struct {
	authority Authority
	required  schema.Chain
	name      string
}

func NewGate(authority Authority, required schema.Chain) *Gate {
	name := schema.NetworkName(required.ChainId)
	if name == "" {
		name = required.ChainName
	}
	return &Gate{
		authority: authority,
		required:  required,
		name:      name,
	}
}

func (g *Gate) RequiredNetwork() string {
	return g.name
}

func (g *Gate) Required() schema.Chain {
	return g.required
}

func (g *Gate) IsOnRequiredNetwork(s schema.WalletSession) bool {
	return s.Network != "" && s.Network == g.name
}

// SwitchNetwork fires a switch request and falls back to adding the chain when the wallet
// does not know it. The outcome arrives later as a chain change, wallet errors are only logged.
func (g *Gate) SwitchNetwork(ctx context.Context) error {
	if g.authority == nil {
		return schema.ErrWalletMissing
	}
	err := g.authority.SwitchChain(ctx, g.required.ChainId)
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == wallet.CodeUnrecognizedChain {
		log.Info("required chain unknown to wallet, adding it", "chainId", g.required.ChainId)
		if err := g.authority.AddChain(ctx, g.required); err != nil {
			log.Error("g.authority.AddChain", "err", err, "chainId", g.required.ChainId)
		}
		return nil
	}
	log.Error("g.authority.SwitchChain", "err", err, "chainId", g.required.ChainId)
	return nil
}
