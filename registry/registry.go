package registry

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/everFinance/domns/schema"
	"github.com/everFinance/domns/wallet"
)

// Provider hands out the chain connection and signing options of the wallet in use.
type Provider interface {
	Backend(ctx context.Context) (wallet.Backend, error)
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Transaction is a submitted, not yet confirmed, contract call.
type Transaction interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*schema.Confirmation, error)
}

type Contract struct {
	address  common.Address
	abi      abi.ABI
	provider Provider
}

func New(address string, provider Provider) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, errors.New("invalid contract address")
	}
	parsed, err := abi.JSON(strings.NewReader(DomainsABI))
	if err != nil {
		return nil, err
	}
	return &Contract{
		address:  common.HexToAddress(address),
		abi:      parsed,
		provider: provider,
	}, nil
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) bound(ctx context.Context) (*bind.BoundContract, wallet.Backend, error) {
	backend, err := c.provider.Backend(ctx)
	if err != nil {
		return nil, nil, err
	}
	return bind.NewBoundContract(c.address, c.abi, backend, backend, backend), backend, nil
}

func (c *Contract) transact(ctx context.Context, value *big.Int, method string, params ...interface{}) (Transaction, error) {
	bc, backend, err := c.bound(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := c.provider.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = value
	tx, err := bc.Transact(opts, method, params...)
	if err != nil {
		return nil, err
	}
	log.Debug("transaction submitted", "method", method, "hash", tx.Hash().Hex())
	return &pendingTx{tx: tx, backend: backend}, nil
}

func (c *Contract) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	bc, _, err := c.bound(ctx)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	if err := bc.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("empty result: " + method)
	}
	return out, nil
}

// Register pays value in base units of the native currency.
func (c *Contract) Register(ctx context.Context, name string, value *big.Int) (Transaction, error) {
	return c.transact(ctx, value, "register", name)
}

func (c *Contract) SetRecord(ctx context.Context, name, record string) (Transaction, error) {
	return c.transact(ctx, nil, "setRecord", name, record)
}

func (c *Contract) GetAllNames(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, "getAllNames")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]string)).(*[]string), nil
}

func (c *Contract) Records(ctx context.Context, name string) (string, error) {
	out, err := c.call(ctx, "records", name)
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *Contract) Domains(ctx context.Context, name string) (common.Address, error) {
	out, err := c.call(ctx, "domains", name)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

type pendingTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func (p *pendingTx) Hash() common.Hash {
	return p.tx.Hash()
}

// Wait blocks until the transaction is mined, bounded only by ctx.
func (p *pendingTx) Wait(ctx context.Context) (*schema.Confirmation, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, err
	}
	return confirmation(receipt), nil
}

func confirmation(receipt *types.Receipt) *schema.Confirmation {
	conf := &schema.Confirmation{
		Status: receipt.Status,
		Hash:   receipt.TxHash,
	}
	if receipt.BlockNumber != nil {
		conf.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return conf
}
