package domns

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/everFinance/domns/schema"
)

type balancer interface {
	Balance(ctx context.Context, account string) (*big.Int, error)
}

func (d *Domns) runJobs() {
	d.scheduler.Every(1).Minute().SingletonMode().Do(d.updateWalletBalance)
	d.scheduler.Every(30).Seconds().SingletonMode().Do(d.snapshotListing)

	d.scheduler.StartAsync()
}

func (d *Domns) updateWalletBalance() {
	b, ok := d.authority.(balancer)
	if !ok {
		return
	}
	sess := d.session.State()
	if !sess.Connected() || !d.gate.IsOnRequiredNetwork(sess) {
		return
	}
	bal, err := b.Balance(context.Background(), sess.Account)
	if err != nil {
		log.Error("b.Balance", "err", err, "account", sess.Account)
		return
	}
	cur := d.gate.Required().NativeCurrency
	metricWalletBalance(bal, cur.Decimals, sess.Account, cur.Symbol)
}

// snapshotListing keeps the cached listing warm between refreshes.
func (d *Domns) snapshotListing() {
	d.cacheListing(d.listing.Records())
}

func (d *Domns) cacheListing(records []schema.DomainRecord) {
	if d.cache == nil {
		return
	}
	by, err := json.Marshal(records)
	if err != nil {
		log.Error("json.Marshal(listing)", "err", err)
		return
	}
	if err := d.cache.Cache.Set(schema.ListingCacheKey, by); err != nil {
		log.Error("d.cache.Cache.Set", "err", err)
	}
}
