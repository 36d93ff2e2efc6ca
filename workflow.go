package domns

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/domns/registry"
	"github.com/everFinance/domns/schema"
	"github.com/shopspring/decimal"
)

// Registry is the name registry contract as seen through the connected signer.
type Registry interface {
	Register(ctx context.Context, name string, value *big.Int) (registry.Transaction, error)
	SetRecord(ctx context.Context, name, record string) (registry.Transaction, error)
	GetAllNames(ctx context.Context) ([]string, error)
	Records(ctx context.Context, name string) (string, error)
	Domains(ctx context.Context, name string) (common.Address, error)
}

var (
	priceShort  = decimal.RequireFromString("0.5")
	priceMedium = decimal.RequireFromString("0.3")
	priceLong   = decimal.RequireFromString("0.1")
)

// PriceOf returns the registration price in native currency units.
// Names shorter than MinNameLength are not priced.
func PriceOf(name string) decimal.Decimal {
	switch n := utf8.RuneCountInString(name); {
	case n < schema.MinNameLength:
		return decimal.Zero
	case n == 3:
		return priceShort
	case n == 4:
		return priceMedium
	default:
		return priceLong
	}
}

// flight marks one workflow holding the loading flag.
type flight struct{}

// Workflow drives the register and record transactions against the registry.
type Workflow struct {
	registry Registry
	decimals int32

	loading atomic.Pointer[flight]
}

func NewWorkflow(reg Registry, decimals int32) *Workflow {
	return &Workflow{
		registry: reg,
		decimals: decimals,
	}
}

func (w *Workflow) Loading() bool {
	return w.loading.Load() != nil
}

// Value converts the price of name into base units.
func (w *Workflow) Value(name string) *big.Int {
	return PriceOf(name).Shift(w.decimals).BigInt()
}

func (w *Workflow) acquire() (*flight, error) {
	f := &flight{}
	if !w.loading.CompareAndSwap(nil, f) {
		return nil, schema.ErrLoading
	}
	return f, nil
}

// release is a no-op when the flag was reset in between.
func (w *Workflow) release(f *flight) {
	w.loading.CompareAndSwap(f, nil)
}

// Reset drops the loading flag of whatever is in flight.
func (w *Workflow) Reset() {
	w.loading.Store(nil)
}

// Register pays for name, then attaches record to it in a second transaction.
// A failed record transaction leaves the name registered and returns ErrSetRecordFailed
// together with the Registered result.
func (w *Workflow) Register(ctx context.Context, name, record string) (*schema.RegisterResult, error) {
	if utf8.RuneCountInString(name) < schema.MinNameLength {
		return nil, schema.ErrNameTooShort
	}
	f, err := w.acquire()
	if err != nil {
		return nil, err
	}
	defer w.release(f)

	price := PriceOf(name)
	log.Info("minting domain", "name", name, "price", price.String())
	tx, err := w.registry.Register(ctx, name, price.Shift(w.decimals).BigInt())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrTxFailed, err)
	}
	conf, err := tx.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrTxFailed, err)
	}
	if !conf.Succeeded() {
		log.Error("register transaction failed", "name", name, "hash", conf.Hash.Hex())
		return nil, schema.ErrTxFailed
	}
	res := &schema.RegisterResult{
		Name:       name,
		State:      schema.StateRegistered,
		RegisterTx: conf,
	}
	log.Info("domain minted", "name", name, "hash", conf.Hash.Hex())

	tx, err = w.registry.SetRecord(ctx, name, record)
	if err != nil {
		return res, fmt.Errorf("%w: %w", schema.ErrSetRecordFailed, err)
	}
	conf, err = tx.Wait(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: %w", schema.ErrSetRecordFailed, err)
	}
	res.State = schema.StateRecordSet
	res.RecordTx = conf
	log.Info("record set", "name", name, "hash", conf.Hash.Hex())
	return res, nil
}

// UpdateRecord sets record on an existing name. Empty input is ignored and returns a nil confirmation.
// Any mined transaction counts as success.
func (w *Workflow) UpdateRecord(ctx context.Context, name, record string) (*schema.Confirmation, error) {
	if name == "" || record == "" {
		return nil, nil
	}
	f, err := w.acquire()
	if err != nil {
		return nil, err
	}
	defer w.release(f)

	tx, err := w.registry.SetRecord(ctx, name, record)
	if err != nil {
		return nil, err
	}
	conf, err := tx.Wait(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("record updated", "name", name, "hash", conf.Hash.Hex())
	return conf, nil
}
