package domns

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/everFinance/domns/registry"
	"github.com/everFinance/domns/schema"
	"github.com/everFinance/domns/wallet"
	"github.com/stretchr/testify/require"
)

var (
	aliceAddr = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bobAddr   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	alice     = strings.ToLower(aliceAddr.Hex())
)

type fakeAuthority struct {
	lock       sync.Mutex
	account    string
	authorized bool
	reject     bool
	chainId    string
	known      map[string]bool
	added      []schema.Chain
	switchErr  error
	subs       int
	feed       event.Feed
}

func newFakeAuthority(account, chainId string) *fakeAuthority {
	return &fakeAuthority{
		account: account,
		chainId: chainId,
		known:   map[string]bool{chainId: true},
	}
}

func (a *fakeAuthority) RequestAccounts(ctx context.Context) ([]string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.reject {
		return nil, &wallet.RPCError{Code: wallet.CodeUserRejected, Message: "User rejected the request."}
	}
	a.authorized = true
	return []string{a.account}, nil
}

func (a *fakeAuthority) Accounts(ctx context.Context) ([]string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if !a.authorized {
		return []string{}, nil
	}
	return []string{a.account}, nil
}

func (a *fakeAuthority) ChainId(ctx context.Context) (string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.chainId, nil
}

func (a *fakeAuthority) SwitchChain(ctx context.Context, chainId string) error {
	a.lock.Lock()
	if a.switchErr != nil {
		a.lock.Unlock()
		return a.switchErr
	}
	if !a.known[chainId] {
		a.lock.Unlock()
		return &wallet.RPCError{Code: wallet.CodeUnrecognizedChain, Message: "Unrecognized chain ID"}
	}
	a.chainId = chainId
	a.lock.Unlock()
	a.feed.Send(chainId)
	return nil
}

func (a *fakeAuthority) AddChain(ctx context.Context, chain schema.Chain) error {
	a.lock.Lock()
	a.added = append(a.added, chain)
	a.known[chain.ChainId] = true
	a.lock.Unlock()
	return a.SwitchChain(ctx, chain.ChainId)
}

func (a *fakeAuthority) SubscribeChainChanged(ch chan<- string) event.Subscription {
	a.lock.Lock()
	a.subs++
	a.lock.Unlock()
	return a.feed.Subscribe(ch)
}

type fakeTx struct {
	hash   common.Hash
	status uint64
	block  chan struct{}
}

func (t *fakeTx) Hash() common.Hash {
	return t.hash
}

func (t *fakeTx) Wait(ctx context.Context) (*schema.Confirmation, error) {
	if t.block != nil {
		select {
		case <-t.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &schema.Confirmation{Status: t.status, Hash: t.hash, BlockNumber: 1}, nil
}

type fakeRegistry struct {
	lock    sync.Mutex
	names   []string
	records map[string]string
	owners  map[string]common.Address
	sender  common.Address

	failStatus   bool
	setRecordErr error
	readErrName  string
	block        chan struct{}

	calls  []string
	values []*big.Int
	nonce  int64
}

func newFakeRegistry(sender common.Address) *fakeRegistry {
	return &fakeRegistry{
		records: make(map[string]string),
		owners:  make(map[string]common.Address),
		sender:  sender,
	}
}

func (r *fakeRegistry) seed(name, record string, owner common.Address) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.names = append(r.names, name)
	r.records[name] = record
	r.owners[name] = owner
}

func (r *fakeRegistry) newTx(status uint64) *fakeTx {
	r.nonce++
	return &fakeTx{hash: common.BigToHash(big.NewInt(r.nonce)), status: status, block: r.block}
}

func (r *fakeRegistry) Register(ctx context.Context, name string, value *big.Int) (registry.Transaction, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls = append(r.calls, "register:"+name)
	r.values = append(r.values, value)
	if r.failStatus {
		return r.newTx(types.ReceiptStatusFailed), nil
	}
	if _, ok := r.owners[name]; !ok {
		r.names = append(r.names, name)
		r.owners[name] = r.sender
	}
	return r.newTx(types.ReceiptStatusSuccessful), nil
}

func (r *fakeRegistry) SetRecord(ctx context.Context, name, record string) (registry.Transaction, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls = append(r.calls, "setRecord:"+name)
	if r.setRecordErr != nil {
		return nil, r.setRecordErr
	}
	r.records[name] = record
	return r.newTx(types.ReceiptStatusSuccessful), nil
}

func (r *fakeRegistry) GetAllNames(ctx context.Context) ([]string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out, nil
}

func (r *fakeRegistry) Records(ctx context.Context, name string) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if name == r.readErrName {
		return "", errors.New("execution reverted")
	}
	return r.records[name], nil
}

func (r *fakeRegistry) Domains(ctx context.Context, name string) (common.Address, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.owners[name], nil
}

func (r *fakeRegistry) Calls() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func newTestDomns(t *testing.T, auth Authority, reg Registry) *Domns {
	d, err := New(auth, reg, &schema.Config{RefreshDelay: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}
