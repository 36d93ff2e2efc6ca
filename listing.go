package domns

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/domns/schema"
	"github.com/panjf2000/ants/v2"
)

// Listing holds every registered name with its record and owner.
type Listing struct {
	registry Registry

	records []schema.DomainRecord
	lock    sync.RWMutex
}

func NewListing(reg Registry) *Listing {
	return &Listing{
		registry: reg,
		records:  make([]schema.DomainRecord, 0),
	}
}

type readTask struct {
	idx   int
	owner bool
}

// Fetch enumerates all names and resolves record and owner of each concurrently.
// It fails as a whole when any single read fails.
func (l *Listing) Fetch(ctx context.Context) ([]schema.DomainRecord, error) {
	names, err := l.registry.GetAllNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: getAllNames: %w", schema.ErrReadFailed, err)
	}
	if len(names) == 0 {
		return make([]schema.DomainRecord, 0), nil
	}

	records := make([]string, len(names))
	owners := make([]common.Address, len(names))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	p, err := ants.NewPoolWithFunc(2*len(names), func(i interface{}) {
		defer wg.Done()
		t := i.(readTask)
		name := names[t.idx]
		if t.owner {
			owner, err := l.registry.Domains(ctx, name)
			if err != nil {
				fail(fmt.Errorf("%w: domains(%s): %w", schema.ErrReadFailed, name, err))
				return
			}
			owners[t.idx] = owner
			return
		}
		record, err := l.registry.Records(ctx, name)
		if err != nil {
			fail(fmt.Errorf("%w: records(%s): %w", schema.ErrReadFailed, name, err))
			return
		}
		records[t.idx] = record
	})
	if err != nil {
		return nil, err
	}
	defer p.Release()

	for idx := range names {
		for _, owner := range []bool{false, true} {
			wg.Add(1)
			if err := p.Invoke(readTask{idx: idx, owner: owner}); err != nil {
				wg.Done()
				fail(err)
			}
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	list := make([]schema.DomainRecord, 0, len(names))
	for idx, name := range names {
		list = append(list, schema.DomainRecord{
			Id:     idx,
			Name:   name,
			Record: records[idx],
			Owner:  owners[idx],
		})
	}
	return list, nil
}

// Replace swaps the whole listing.
func (l *Listing) Replace(records []schema.DomainRecord) {
	l.lock.Lock()
	l.records = records
	l.lock.Unlock()
}

// Refresh keeps the previous listing when the fetch fails.
func (l *Listing) Refresh(ctx context.Context) error {
	records, err := l.Fetch(ctx)
	if err != nil {
		log.Error("l.Fetch", "err", err)
		return err
	}
	l.Replace(records)
	log.Debug("listing refreshed", "size", len(records))
	return nil
}

func (l *Listing) Records() []schema.DomainRecord {
	l.lock.RLock()
	defer l.lock.RUnlock()
	out := make([]schema.DomainRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Listing) Reset() {
	l.Replace(make([]schema.DomainRecord, 0))
}
