package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/model"
)

type fakeProvider struct {
	calls  int
	series model.PriceSeries
	err    error
}

func (f *fakeProvider) Fetch(context.Context, string, string, string) (model.PriceSeries, error) {
	f.calls++
	return f.series, f.err
}

func oneBar() model.PriceSeries {
	return model.PriceSeries{{
		TS: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100,
	}}
}

func TestMemoryCache_HitAndExpiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	key := CacheKey{Symbol: "AAPL", Period: "1y", Interval: "1d"}
	ctx := context.Background()

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok, "empty cache must miss")

	cache.Set(ctx, key, oneBar())
	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Len(t, got, 1)

	// Same symbol, different period: separate entry.
	_, ok = cache.Get(ctx, CacheKey{Symbol: "AAPL", Period: "5y", Interval: "1d"})
	assert.False(t, ok)

	// Past the TTL the entry is gone.
	now = now.Add(61 * time.Second)
	_, ok = cache.Get(ctx, key)
	assert.False(t, ok, "entry must expire after TTL")
}

func TestCachedProvider_ReadThrough(t *testing.T) {
	inner := &fakeProvider{series: oneBar()}
	p := NewCachedProvider(inner, NewMemoryCache(time.Minute))
	ctx := context.Background()

	first, err := p.Fetch(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	second, err := p.Fetch(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "second fetch must come from cache")
	assert.Equal(t, first, second)
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &fakeProvider{err: errors.New("boom")}
	p := NewCachedProvider(inner, NewMemoryCache(time.Minute))
	ctx := context.Background()

	_, err := p.Fetch(ctx, "AAPL", "1y", "1d")
	require.Error(t, err)
	_, err = p.Fetch(ctx, "AAPL", "1y", "1d")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls, "failures must retry the provider")
}

func TestNopCache_NeverHits(t *testing.T) {
	cache := NopCache()
	key := CacheKey{Symbol: "X", Period: "1y", Interval: "1d"}
	cache.Set(context.Background(), key, oneBar())
	_, ok := cache.Get(context.Background(), key)
	assert.False(t, ok)
}
