package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
	domnsCommon "github.com/everFinance/domns/common"
	"github.com/everFinance/domns/rawdb"
	"github.com/everFinance/domns/schema"
	"github.com/everFinance/goether"
)

var log = domnsCommon.NewLog("wallet")

const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
)

// Backend is the chain connection contract calls and receipts go through.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

// Approver stands in for the wallet's confirmation prompt, returning false rejects the request.
type Approver func(method string, params interface{}) bool

func AutoApprove(string, interface{}) bool { return true }

type Wallet struct {
	signer  *goether.Signer
	db      rawdb.KeyValueDB
	origin  string // the site asking for accounts
	approve Approver
	dial    func(ctx context.Context, rawUrl string) (Backend, error)

	chains  map[string]schema.Chain // key: chainId hex
	clients map[string]Backend
	current string
	feed    event.Feed
	lock    sync.RWMutex
}

func New(prvHex string, db rawdb.KeyValueDB, origin string, chains []schema.Chain, defaultChain string) (*Wallet, error) {
	signer, err := goether.NewSigner(strings.TrimPrefix(prvHex, "0x"))
	if err != nil {
		return nil, err
	}
	if len(chains) == 0 {
		return nil, errors.New("wallet needs at least one chain")
	}

	w := &Wallet{
		signer:  signer,
		db:      db,
		origin:  origin,
		approve: AutoApprove,
		dial:    dialEthClient,
		chains:  make(map[string]schema.Chain),
		clients: make(map[string]Backend),
	}
	for _, ch := range chains {
		ch.ChainId = schema.NormalizeChainId(ch.ChainId)
		w.chains[ch.ChainId] = ch
	}
	if err := w.loadAddedChains(); err != nil {
		return nil, err
	}

	w.current = schema.NormalizeChainId(defaultChain)
	if _, ok := w.chains[w.current]; !ok {
		w.current = schema.NormalizeChainId(chains[0].ChainId)
	}
	return w, nil
}

func dialEthClient(ctx context.Context, rawUrl string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rawUrl)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (w *Wallet) loadAddedChains() error {
	ids, err := w.db.GetAllKey(schema.WalletChainBucket)
	if err != nil {
		return err
	}
	for _, id := range ids {
		by, err := w.db.Get(schema.WalletChainBucket, id)
		if err != nil {
			return err
		}
		ch := schema.Chain{}
		if err := json.Unmarshal(by, &ch); err != nil {
			log.Warn("skip broken chain descriptor", "chainId", id, "err", err)
			continue
		}
		w.chains[schema.NormalizeChainId(ch.ChainId)] = ch
	}
	return nil
}

func (w *Wallet) SetApprover(a Approver) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.approve = a
}

func (w *Wallet) approved(method string, params interface{}) bool {
	w.lock.RLock()
	a := w.approve
	w.lock.RUnlock()
	return a(method, params)
}

func (w *Wallet) Address() common.Address {
	return w.signer.Address
}

// RequestAccounts prompts for access and remembers the authorization for the origin.
func (w *Wallet) RequestAccounts(ctx context.Context) ([]string, error) {
	if !w.approved(MethodRequestAccounts, w.origin) {
		return nil, errUserRejected()
	}
	addr := strings.ToLower(w.signer.Address.Hex())
	if err := w.db.Put(schema.WalletAuthBucket, w.origin, []byte(addr)); err != nil {
		return nil, err
	}
	log.Info("account authorized", "origin", w.origin, "account", addr)
	return []string{addr}, nil
}

// Accounts never prompts, it returns nothing until the origin was authorized.
func (w *Wallet) Accounts(ctx context.Context) ([]string, error) {
	data, err := w.db.Get(schema.WalletAuthBucket, w.origin)
	if err == schema.ErrNotExist {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	// authorization stored for another key
	if !strings.EqualFold(string(data), w.signer.Address.Hex()) {
		return []string{}, nil
	}
	return []string{strings.ToLower(string(data))}, nil
}

func (w *Wallet) ChainId(ctx context.Context) (string, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.current, nil
}

func (w *Wallet) SwitchChain(ctx context.Context, chainId string) error {
	id := schema.NormalizeChainId(chainId)
	w.lock.RLock()
	_, ok := w.chains[id]
	cur := w.current
	w.lock.RUnlock()
	if !ok {
		return errUnrecognizedChain(chainId)
	}
	if id == cur {
		return nil
	}
	if !w.approved(MethodSwitchChain, id) {
		return errUserRejected()
	}

	w.lock.Lock()
	w.current = id
	w.lock.Unlock()

	log.Info("chain switched", "from", cur, "to", id)
	w.feed.Send(id)
	return nil
}

func (w *Wallet) AddChain(ctx context.Context, chain schema.Chain) error {
	if _, err := schema.ChainIdBig(chain.ChainId); err != nil {
		return errInvalidParams(fmt.Sprintf("invalid chainId %q", chain.ChainId))
	}
	if chain.ChainName == "" || len(chain.RpcUrls) == 0 {
		return errInvalidParams("chainName and rpcUrls are required")
	}
	if !w.approved(MethodAddChain, chain) {
		return errUserRejected()
	}

	chain.ChainId = schema.NormalizeChainId(chain.ChainId)
	by, err := json.Marshal(chain)
	if err != nil {
		return err
	}
	if err := w.db.Put(schema.WalletChainBucket, chain.ChainId, by); err != nil {
		return err
	}

	w.lock.Lock()
	w.chains[chain.ChainId] = chain
	if c, ok := w.clients[chain.ChainId]; ok {
		c.Close()
		delete(w.clients, chain.ChainId)
	}
	w.lock.Unlock()
	log.Info("chain added", "chainId", chain.ChainId, "name", chain.ChainName)

	return w.SwitchChain(ctx, chain.ChainId)
}

// SubscribeChainChanged delivers the new chainId after every switch.
func (w *Wallet) SubscribeChainChanged(ch chan<- string) event.Subscription {
	return w.feed.Subscribe(ch)
}

// Backend returns a client for the current chain, dialled on first use.
func (w *Wallet) Backend(ctx context.Context) (Backend, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if c, ok := w.clients[w.current]; ok {
		return c, nil
	}
	chain := w.chains[w.current]
	if len(chain.RpcUrls) == 0 {
		return nil, fmt.Errorf("chain %s has no rpc url", w.current)
	}
	c, err := w.dial(ctx, chain.RpcUrls[0])
	if err != nil {
		return nil, err
	}
	w.clients[w.current] = c
	return c, nil
}

func (w *Wallet) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	accounts, err := w.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errUnauthorized()
	}
	cur, _ := w.ChainId(ctx)
	chainId, err := schema.ChainIdBig(cur)
	if err != nil {
		return nil, err
	}
	from := w.signer.Address
	return &bind.TransactOpts{
		From:    from,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != from {
				return nil, bind.ErrNotAuthorized
			}
			return w.signer.SignTx(tx, chainId)
		},
	}, nil
}

func (w *Wallet) Balance(ctx context.Context, account string) (*big.Int, error) {
	b, err := w.Backend(ctx)
	if err != nil {
		return nil, err
	}
	return b.BalanceAt(ctx, common.HexToAddress(account), nil)
}

func (w *Wallet) Close() {
	w.lock.Lock()
	defer w.lock.Unlock()
	for id, c := range w.clients {
		c.Close()
		delete(w.clients, id)
	}
}
