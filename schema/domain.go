package schema

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	Tld           = ".dom"
	MinNameLength = 3

	DefaultContract = "0x6185B6a97E09A80eF83D05982DB271f300e96Fe5"
	MarketplaceUrl  = "https://testnets.opensea.io/assets/mumbai"
)

// register workflow states
const (
	StateNone       RegisterState = ""
	StateRegistered RegisterState = "registered"
	StateRecordSet  RegisterState = "record_set"
)

type RegisterState string

type DomainRecord struct {
	Id     int            `json:"id"` // position in getAllNames order, not stable across refreshes
	Name   string         `json:"name"`
	Record string         `json:"record"`
	Owner  common.Address `json:"owner"`
}

type WalletSession struct {
	Account string `json:"account"`
	Network string `json:"network"` // network name, empty if unknown
	ChainId string `json:"chainId"` // hex, as reported by the wallet
}

func (s WalletSession) Connected() bool {
	return len(s.Account) > 0
}

type Confirmation struct {
	Status      uint64      `json:"status"`
	Hash        common.Hash `json:"hash"`
	BlockNumber uint64      `json:"blockNumber"`
}

func (c *Confirmation) Succeeded() bool {
	return c != nil && c.Status == types.ReceiptStatusSuccessful
}

type RegisterResult struct {
	Name       string        `json:"name"`
	State      RegisterState `json:"state"`
	RegisterTx *Confirmation `json:"registerTx,omitempty"`
	RecordTx   *Confirmation `json:"recordTx,omitempty"`
}
