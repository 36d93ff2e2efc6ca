package domns

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/domns/cache"
	domnsCommon "github.com/everFinance/domns/common"
	"github.com/everFinance/domns/schema"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
)

var log = domnsCommon.NewLog("domns")

const (
	DefaultRefreshDelay = 2 * time.Second
	DefaultCacheTTL     = 10 * time.Minute
	DefaultRateLimit    = 60
)

// Domns ties wallet session, network gate, transaction workflow and listing together
// and keeps the inputs the user is editing.
type Domns struct {
	authority Authority
	session   *Session
	gate      *Gate
	workflow  *Workflow
	listing   *Listing

	contract     common.Address
	refreshDelay time.Duration
	rateLimit    int
	metricPort   string

	cache     *cache.Cache
	kWriter   *KWriter
	engine    *gin.Engine
	scheduler *gocron.Scheduler

	state      viewState
	generation uint64
	lock       sync.Mutex

	chainCh   chan string
	closeCh   chan struct{}
	closeOnce sync.Once
	closers   []func()
	wg        sync.WaitGroup
}

// New builds the client core. authority may be nil when no wallet is available.
func New(authority Authority, reg Registry, cfg *schema.Config) (*Domns, error) {
	required, ok := cfg.Required()
	if !ok {
		if cfg.RequiredChain != "" && schema.NormalizeChainId(cfg.RequiredChain) != schema.MumbaiChainId {
			return nil, schema.ErrUnknownChain
		}
		required = schema.MumbaiChain
	}
	contract := contractAddress(cfg)
	if !common.IsHexAddress(contract) {
		return nil, errors.New("invalid contract address")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	localCache, err := cache.NewLocalCache(ttl)
	if err != nil {
		return nil, err
	}

	var kWriter *KWriter
	if cfg.Kafka.Start {
		kWriter, err = NewKWriter(DomainTopic, cfg.Kafka.Uri)
		if err != nil {
			return nil, err
		}
	}

	d := &Domns{
		authority:    authority,
		gate:         NewGate(authority, required),
		workflow:     NewWorkflow(reg, required.NativeCurrency.Decimals),
		listing:      NewListing(reg),
		contract:     common.HexToAddress(contract),
		refreshDelay: cfg.RefreshDelay,
		rateLimit:    cfg.RateLimit,
		metricPort:   cfg.MetricPort,
		cache:        localCache,
		kWriter:      kWriter,
		engine:       gin.Default(),
		scheduler:    gocron.NewScheduler(time.UTC),
		chainCh:      make(chan string, 16),
		closeCh:      make(chan struct{}),
	}
	if d.refreshDelay <= 0 {
		d.refreshDelay = DefaultRefreshDelay
	}
	if d.rateLimit <= 0 {
		d.rateLimit = DefaultRateLimit
	}
	d.session = NewSession(authority, networkNames(cfg.Chains), d.chainCh)
	return d, nil
}

func contractAddress(cfg *schema.Config) string {
	if cfg.Contract == "" {
		return schema.DefaultContract
	}
	return cfg.Contract
}

// networkNames extends the builtin table with configured chains it lacks.
func networkNames(chains []schema.Chain) map[string]string {
	names := make(map[string]string, len(schema.Networks)+len(chains))
	for id, name := range schema.Networks {
		names[id] = name
	}
	for _, ch := range chains {
		id := schema.NormalizeChainId(ch.ChainId)
		if _, ok := names[id]; !ok && ch.ChainName != "" {
			names[id] = ch.ChainName
		}
	}
	return names
}

// Start loads the session and begins reacting to chain changes.
func (d *Domns) Start(ctx context.Context) {
	d.load(ctx)
	d.wg.Add(1)
	go d.watchChain(ctx)
}

func (d *Domns) Run(ctx context.Context, port string) {
	d.Start(ctx)
	domnsCommon.NewMetricServer(d.metricPort)
	go d.runAPI(port)
	go d.runJobs()
}

func (d *Domns) Close() {
	d.closeOnce.Do(func() {
		close(d.closeCh)
		d.wg.Wait()
		d.scheduler.Stop()
		d.session.Close()
		if d.kWriter != nil {
			d.kWriter.Close()
		}
		if err := d.cache.Cache.Close(); err != nil {
			log.Warn("d.cache.Cache.Close", "err", err)
		}
		for i := len(d.closers) - 1; i >= 0; i-- {
			d.closers[i]()
		}
	})
}

func (d *Domns) watchChain(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case chainId := <-d.chainCh:
			log.Info("chain changed, reloading", "chainId", chainId)
			d.Reload(ctx)
		case <-d.closeCh:
			return
		}
	}
}

// Reload throws away all client state and rebuilds it from the wallet and the registry.
// Work started before the reload never writes its results afterwards.
func (d *Domns) Reload(ctx context.Context) {
	d.lock.Lock()
	d.generation++
	d.state = viewState{}
	d.session.Reset()
	d.listing.Reset()
	d.workflow.Reset()
	d.lock.Unlock()
	if err := d.cache.Cache.Delete(schema.ListingCacheKey); err != nil {
		log.Warn("d.cache.Cache.Delete", "err", err)
	}

	d.load(ctx)
}

func (d *Domns) load(ctx context.Context) {
	d.session.CheckExistingConnection(ctx)
	d.refreshIfReady(ctx, d.currentGeneration())
}

func (d *Domns) currentGeneration() uint64 {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.generation
}

func (d *Domns) ready() error {
	if !d.session.Installed() {
		return schema.ErrWalletMissing
	}
	sess := d.session.State()
	if !sess.Connected() {
		return schema.ErrNotConnected
	}
	if !d.gate.IsOnRequiredNetwork(sess) {
		return schema.ErrWrongNetwork
	}
	return nil
}

func (d *Domns) refreshIfReady(ctx context.Context, gen uint64) {
	if d.ready() != nil {
		return
	}
	_ = d.refresh(ctx, gen)
}

// refresh replaces the listing unless a reload happened since gen.
func (d *Domns) refresh(ctx context.Context, gen uint64) error {
	records, err := d.listing.Fetch(ctx)
	metricListing(len(records), err)
	if err != nil {
		log.Error("d.listing.Fetch", "err", err)
		return err
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	if gen != d.generation {
		log.Debug("discard listing fetched before reload")
		return nil
	}
	d.listing.Replace(records)
	d.cacheListing(records)
	return nil
}

// Refresh re-reads the listing now.
func (d *Domns) Refresh(ctx context.Context) error {
	if !d.gate.IsOnRequiredNetwork(d.session.State()) {
		return schema.ErrWrongNetwork
	}
	return d.refresh(ctx, d.currentGeneration())
}

func (d *Domns) scheduleRefresh(gen uint64) {
	time.AfterFunc(d.refreshDelay, func() {
		select {
		case <-d.closeCh:
			return
		default:
		}
		if d.currentGeneration() != gen {
			return
		}
		_ = d.refresh(context.Background(), gen)
	})
}

func (d *Domns) Connect(ctx context.Context) {
	gen := d.currentGeneration()
	d.session.Connect(ctx)
	d.refreshIfReady(ctx, gen)
}

// SwitchNetwork returns ErrWalletMissing and raises the install notice when there is no wallet.
func (d *Domns) SwitchNetwork(ctx context.Context) error {
	err := d.gate.SwitchNetwork(ctx)
	if errors.Is(err, schema.ErrWalletMissing) {
		d.lock.Lock()
		d.state.notice = schema.NoticeInstallWallet
		d.lock.Unlock()
	}
	return err
}

// MintDomain registers the domain input and sets the record input on it.
func (d *Domns) MintDomain(ctx context.Context) (*schema.RegisterResult, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.lock.Lock()
	name, record, gen := d.state.domain, d.state.record, d.generation
	d.lock.Unlock()

	res, err := d.workflow.Register(ctx, name, record)
	switch {
	case errors.Is(err, schema.ErrNameTooShort), errors.Is(err, schema.ErrLoading):
	case res == nil:
		metricTx("register", err)
	default:
		metricTx("register", nil)
		metricTx("set_record", err)
	}

	d.lock.Lock()
	if gen != d.generation {
		d.lock.Unlock()
		log.Warn("discard mint result after reload", "name", name)
		return res, err
	}
	switch {
	case errors.Is(err, schema.ErrNameTooShort):
		d.state.notice = schema.NoticeNameTooShort
	case errors.Is(err, schema.ErrLoading):
	case errors.Is(err, schema.ErrSetRecordFailed):
		log.Error("domain minted without record", "name", name, "err", err)
		d.state.lastTxUrl = d.txUrl(res.RegisterTx)
	case err != nil:
		log.Error("d.workflow.Register", "name", name, "err", err)
		d.state.notice = schema.NoticeTxFailed
	default:
		d.state.domain = ""
		d.state.record = ""
		d.state.lastTxUrl = d.txUrl(res.RecordTx)
	}
	d.lock.Unlock()

	if res != nil {
		owner := d.session.State().Account
		d.publish(newDomainEvent(schema.EventRegistered, name, "", owner, res.RegisterTx.Hash.Hex()))
		if res.State == schema.StateRecordSet {
			d.publish(newDomainEvent(schema.EventRecordSet, name, record, owner, res.RecordTx.Hash.Hex()))
		}
	}
	if err == nil {
		d.scheduleRefresh(gen)
	}
	return res, err
}

// UpdateDomain writes the record input onto the domain input. Transaction errors are only logged.
func (d *Domns) UpdateDomain(ctx context.Context) error {
	d.lock.Lock()
	name, record, gen := d.state.domain, d.state.record, d.generation
	d.lock.Unlock()
	if name == "" || record == "" {
		return nil
	}
	if err := d.ready(); err != nil {
		return err
	}

	conf, err := d.workflow.UpdateRecord(ctx, name, record)
	if errors.Is(err, schema.ErrLoading) {
		return err
	}
	metricTx("set_record", err)
	if err != nil {
		log.Error("d.workflow.UpdateRecord", "name", name, "err", err)
		return nil
	}

	d.lock.Lock()
	if gen != d.generation {
		d.lock.Unlock()
		return nil
	}
	d.state.domain = ""
	d.state.record = ""
	d.state.lastTxUrl = d.txUrl(conf)
	d.lock.Unlock()

	d.publish(newDomainEvent(schema.EventRecordSet, name, record, d.session.State().Account, conf.Hash.Hex()))
	_ = d.refresh(ctx, gen)
	return nil
}

func (d *Domns) txUrl(conf *schema.Confirmation) string {
	if conf == nil {
		return ""
	}
	return d.gate.Required().TxUrl(conf.Hash.Hex())
}

// StartEdit loads a name the connected account owns into the form.
func (d *Domns) StartEdit(name string) error {
	account := d.session.State().Account
	for _, r := range d.listing.Records() {
		if r.Name != name {
			continue
		}
		if account == "" || !strings.EqualFold(r.Owner.Hex(), account) {
			return schema.ErrNotOwner
		}
		d.lock.Lock()
		d.state.editing = true
		d.state.domain = name
		d.lock.Unlock()
		return nil
	}
	return schema.ErrNotExist
}

func (d *Domns) CancelEdit() {
	d.lock.Lock()
	d.state.editing = false
	d.lock.Unlock()
}

func (d *Domns) SetDomainInput(v string) {
	d.lock.Lock()
	d.state.domain = v
	d.lock.Unlock()
}

func (d *Domns) SetRecordInput(v string) {
	d.lock.Lock()
	d.state.record = v
	d.lock.Unlock()
}

func (d *Domns) DismissNotice() {
	d.lock.Lock()
	d.state.notice = ""
	d.lock.Unlock()
}

func (d *Domns) Records() []schema.DomainRecord {
	return d.listing.Records()
}

func (d *Domns) View() schema.ViewModel {
	sess := d.session.State()
	d.lock.Lock()
	state := d.state
	d.lock.Unlock()
	return buildView(viewInput{
		installed:  d.session.Installed(),
		session:    sess,
		onRequired: d.gate.IsOnRequiredNetwork(sess),
		required:   d.gate.RequiredNetwork(),
		listing:    d.listing.Records(),
		loading:    d.workflow.Loading(),
		contract:   d.contract,
		state:      state,
	})
}
