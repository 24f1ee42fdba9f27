package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stockwatch/internal/model"
)

// CacheKey identifies a cached series fetch.
type CacheKey struct {
	Symbol   string
	Period   string
	Interval string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("series:%s:%s:%s", k.Symbol, k.Period, k.Interval)
}

// SeriesCache caches fetched price series with an expiry. Implementations
// must treat any internal failure as a miss; the cache is never allowed to
// fail a fetch.
type SeriesCache interface {
	Get(ctx context.Context, key CacheKey) (model.PriceSeries, bool)
	Set(ctx context.Context, key CacheKey, series model.PriceSeries)
}

// MemoryCache is an in-process SeriesCache with lazy expiry.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	series  model.PriceSeries
	expires time.Time
}

// NewMemoryCache creates a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) (model.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key.String())
		return nil, false
	}
	return e.series, true
}

func (c *MemoryCache) Set(_ context.Context, key CacheKey, series model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = memoryEntry{series: series, expires: c.now().Add(c.ttl)}
}

// CachedProvider wraps a Provider with a read-through SeriesCache.
type CachedProvider struct {
	inner Provider
	cache SeriesCache
}

// NewCachedProvider wraps inner with cache.
func NewCachedProvider(inner Provider, cache SeriesCache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

// Fetch returns the cached series when fresh, otherwise fetches and caches.
// Fetch errors are never cached.
func (p *CachedProvider) Fetch(ctx context.Context, symbol, period, interval string) (model.PriceSeries, error) {
	key := CacheKey{Symbol: symbol, Period: period, Interval: interval}
	if series, ok := p.cache.Get(ctx, key); ok {
		return series, nil
	}

	series, err := p.inner.Fetch(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, key, series)
	return series, nil
}

// nopCache disables caching when no backend is configured.
type nopCache struct{}

func (nopCache) Get(context.Context, CacheKey) (model.PriceSeries, bool) { return nil, false }
func (nopCache) Set(context.Context, CacheKey, model.PriceSeries)       {}

// NopCache returns a SeriesCache that never hits.
func NopCache() SeriesCache { return nopCache{} }
