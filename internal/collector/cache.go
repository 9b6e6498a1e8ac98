package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CatalystScanner/internal/metrics"
	"CatalystScanner/internal/model"
)

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// ttlCache is a mutex-guarded map whose entries expire after ttl. Expired
// entries are dropped on lookup and swept at most once per ttl on insert, so
// keys that are never read again do not accumulate.
type ttlCache[V any] struct {
	mu        sync.Mutex
	name      string
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	entries   map[string]cacheEntry[V]
}

func newTTLCache[V any](name string, ttl time.Duration) *ttlCache[V] {
	return &ttlCache[V]{
		name:    name,
		ttl:     ttl,
		now:     timeNow,
		entries: make(map[string]cacheEntry[V]),
	}
}

func (c *ttlCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if ok && c.now().Before(e.expires) {
		metrics.CacheLookupsTotal.WithLabelValues(c.name, "hit").Inc()
		return e.value, true
	}
	if ok {
		delete(c.entries, key)
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.name, "miss").Inc()
	var zero V
	return zero, false
}

func (c *ttlCache[V]) put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if !now.Before(c.nextSweep) {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
		c.nextSweep = now.Add(c.ttl)
	}
	c.entries[key] = cacheEntry[V]{value: v, expires: now.Add(c.ttl)}
}

// CachedFetcher memoizes successful bar fetches per (symbol, bars) for TTL.
// Failures are never cached.
type CachedFetcher struct {
	Inner Fetcher
	cache *ttlCache[*model.PriceSeries]
}

// NewCachedFetcher wraps inner with a TTL cache.
func NewCachedFetcher(inner Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Inner: inner, cache: newTTLCache[*model.PriceSeries]("bars", ttl)}
}

func (c *CachedFetcher) Name() string { return c.Inner.Name() }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, n int) (*model.PriceSeries, error) {
	key := fmt.Sprintf("%s|%d", symbol, n)
	if s, ok := c.cache.get(key); ok {
		return s, nil
	}
	s, err := c.Inner.FetchDailyBars(ctx, symbol, n)
	if err != nil {
		return nil, err
	}
	if !s.Empty() {
		c.cache.put(key, s)
	}
	return s, nil
}

// CachedNewsFetcher memoizes headlines per (symbol, limit) for TTL.
type CachedNewsFetcher struct {
	Inner NewsFetcher
	cache *ttlCache[[]model.NewsItem]
}

// NewCachedNewsFetcher wraps inner with a TTL cache.
func NewCachedNewsFetcher(inner NewsFetcher, ttl time.Duration) *CachedNewsFetcher {
	return &CachedNewsFetcher{Inner: inner, cache: newTTLCache[[]model.NewsItem]("news", ttl)}
}

func (c *CachedNewsFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	key := fmt.Sprintf("%s|%d", symbol, limit)
	if items, ok := c.cache.get(key); ok {
		return items, nil
	}
	items, err := c.Inner.FetchNews(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, items)
	return items, nil
}
