package cache

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

type BigCache struct {
	Cache *bigcache.BigCache
}

func NewBigCache(allKeysExpTime time.Duration) (*BigCache, error) {
	conf := bigcache.DefaultConfig(allKeysExpTime)
	// a single listing snapshot lives here, the defaults are sized for millions of entries
	conf.Shards = 16
	conf.MaxEntriesInWindow = 1024
	conf.Verbose = false
	cache, err := bigcache.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &BigCache{Cache: cache}, nil
}

func (s *BigCache) Set(key string, entry []byte) (err error) {
	return s.Cache.Set(key, entry)
}

func (s *BigCache) Get(key string) ([]byte, error) {
	return s.Cache.Get(key)
}

func (s *BigCache) Delete(key string) error {
	err := s.Cache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *BigCache) Close() error {
	return s.Cache.Close()
}
