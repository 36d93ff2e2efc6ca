package schema

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	MumbaiChainId   = "0x13881"
	MumbaiChainName = "Polygon Mumbai Testnet"
)

// Networks key: chainId hex, val: network name
var Networks = map[string]string{
	"0x1":     "Mainnet",
	"0x3":     "Ropsten",
	"0x2a":    "Kovan",
	"0x4":     "Rinkeby",
	"0x5":     "Goerli",
	"0x61":    "BSC Testnet",
	"0x38":    "BSC Mainnet",
	"0x89":    "Polygon Mainnet",
	"0x13881": MumbaiChainName,
	"0xa86a":  "AVAX Mainnet",
}

// MumbaiChain is the chain the registry contract is deployed on.
var MumbaiChain = Chain{
	ChainId:   MumbaiChainId,
	ChainName: MumbaiChainName,
	RpcUrls:   []string{"https://rpc-mumbai.maticvigil.com/"},
	NativeCurrency: NativeCurrency{
		Name:     "Mumbai Matic",
		Symbol:   "MATIC",
		Decimals: 18,
	},
	BlockExplorerUrls: []string{"https://mumbai.polygonscan.com/"},
}

// Chain is an EIP-3085 wallet_addEthereumChain descriptor.
type Chain struct {
	ChainId           string         `json:"chainId" yaml:"chainId"`
	ChainName         string         `json:"chainName" yaml:"chainName"`
	RpcUrls           []string       `json:"rpcUrls" yaml:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	BlockExplorerUrls []string       `json:"blockExplorerUrls,omitempty" yaml:"blockExplorerUrls"`
}

type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int32  `json:"decimals" yaml:"decimals"`
}

func (c Chain) Explorer() string {
	if len(c.BlockExplorerUrls) == 0 {
		return ""
	}
	return strings.TrimSuffix(c.BlockExplorerUrls[0], "/")
}

func (c Chain) TxUrl(hash string) string {
	if c.Explorer() == "" {
		return ""
	}
	return c.Explorer() + "/tx/" + hash
}

// NetworkName returns empty string for chains missing from the lookup table
func NetworkName(chainId string) string {
	return Networks[NormalizeChainId(chainId)]
}

// NormalizeChainId converts "0X13881", "0x013881" into "0x13881".
// Unparseable ids are returned lowercased.
func NormalizeChainId(chainId string) string {
	id, err := hexutil.DecodeBig(strings.ToLower(strings.TrimSpace(chainId)))
	if err != nil {
		// hexutil rejects leading zeros
		n, ok := new(big.Int).SetString(strings.TrimPrefix(strings.ToLower(chainId), "0x"), 16)
		if !ok {
			return strings.ToLower(chainId)
		}
		id = n
	}
	return hexutil.EncodeBig(id)
}

func ChainIdBig(chainId string) (*big.Int, error) {
	return hexutil.DecodeBig(NormalizeChainId(chainId))
}
