// Package redis provides a Redis-backed series cache for sharing fetched
// market data across processes (watch daemon, CLIs).
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"stockwatch/internal/marketdata"
	"stockwatch/internal/model"
)

// Config configures the Redis cache.
type Config struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration
}

// Cache implements marketdata.SeriesCache on Redis. Any Redis failure is
// treated as a miss; the provider fetch path must never fail because the
// cache is down.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

// New creates a Cache and pings the server.
func New(cfg Config) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Close releases the client.
func (c *Cache) Close() error { return c.client.Close() }

// Get implements marketdata.SeriesCache.
func (c *Cache) Get(ctx context.Context, key marketdata.CacheKey) (model.PriceSeries, bool) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("[redis] get %s: %v", key, err)
		}
		return nil, false
	}

	var series model.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		log.Printf("[redis] corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	return series, true
}

// Set implements marketdata.SeriesCache. Failures are logged, not returned.
func (c *Cache) Set(ctx context.Context, key marketdata.CacheKey, series model.PriceSeries) {
	data, err := json.Marshal(series)
	if err != nil {
		log.Printf("[redis] marshal %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key.String(), data, c.ttl).Err(); err != nil {
		log.Printf("[redis] set %s: %v", key, err)
	}
}
