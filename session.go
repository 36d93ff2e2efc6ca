package domns

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/everFinance/domns/schema"
)

// Authority is the wallet the user signs with. A nil Authority means no wallet is installed.
type Authority interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
	ChainId(ctx context.Context) (string, error)
	SwitchChain(ctx context.Context, chainId string) error
	AddChain(ctx context.Context, chain schema.Chain) error
	SubscribeChainChanged(ch chan<- string) event.Subscription
}

// Session tracks the connected account and the active network of the wallet.
type Session struct {
	authority Authority
	networks  map[string]string // key: chainId hex, val: network name

	state schema.WalletSession
	sub   event.Subscription
	ch    chan<- string
	lock  sync.RWMutex
}

func NewSession(authority Authority, networks map[string]string, chainChanged chan<- string) *Session {
	return &Session{
		authority: authority,
		networks:  networks,
		ch:        chainChanged,
	}
}

func (s *Session) Installed() bool {
	return s.authority != nil
}

// Connect asks the wallet for account access. Failures leave the session unconnected and are only logged.
func (s *Session) Connect(ctx context.Context) {
	if !s.Installed() {
		log.Warn("connect: wallet not installed")
		return
	}
	accounts, err := s.authority.RequestAccounts(ctx)
	if err != nil {
		log.Error("s.authority.RequestAccounts", "err", err)
		return
	}
	if len(accounts) == 0 {
		return
	}
	log.Info("wallet connected", "account", accounts[0])
	s.lock.Lock()
	s.state.Account = accounts[0]
	s.lock.Unlock()
}

// CheckExistingConnection picks up an account authorized earlier, reads the active chain
// and subscribes to chain changes once.
func (s *Session) CheckExistingConnection(ctx context.Context) {
	if !s.Installed() {
		log.Warn("make sure you have metamask")
		return
	}

	account := ""
	accounts, err := s.authority.Accounts(ctx)
	if err != nil {
		log.Error("s.authority.Accounts", "err", err)
	} else if len(accounts) > 0 {
		account = accounts[0]
		log.Info("found an authorized account", "account", account)
	} else {
		log.Info("no authorized account found")
	}

	chainId, err := s.authority.ChainId(ctx)
	if err != nil {
		log.Error("s.authority.ChainId", "err", err)
	}
	chainId = schema.NormalizeChainId(chainId)

	s.lock.Lock()
	s.state = schema.WalletSession{
		Account: account,
		Network: s.networks[chainId],
		ChainId: chainId,
	}
	if s.sub == nil && s.ch != nil {
		s.sub = s.authority.SubscribeChainChanged(s.ch)
	}
	s.lock.Unlock()
}

func (s *Session) State() schema.WalletSession {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// Reset forgets account and network, the chain subscription survives.
func (s *Session) Reset() {
	s.lock.Lock()
	s.state = schema.WalletSession{}
	s.lock.Unlock()
}

func (s *Session) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
}
