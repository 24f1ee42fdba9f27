// cmd/watch polls the watchlist on a cron schedule, evaluates alert
// conditions on fresh price history and fans triggered alerts out to the
// configured notification channels.
//
// Usage:
//
//	go run ./cmd/watch --config=config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"stockwatch/config"
	"stockwatch/internal/logger"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/metrics"
	"stockwatch/internal/notification"
	redisstore "stockwatch/internal/store/redis"
	sqlitestore "stockwatch/internal/store/sqlite"
	"stockwatch/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	runOnce := flag.Bool("once", false, "Run one poll cycle and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init("watch", logger.ParseLevel(cfg.LogLevel))

	list, err := watchlist.Open(cfg.WatchlistPath)
	if err != nil {
		log.Error("watchlist open failed", "path", cfg.WatchlistPath, "err", err)
		os.Exit(1)
	}
	log.Info("watchlist loaded", "path", cfg.WatchlistPath, "tickers", list.Len())

	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	provider, closeCache := buildProvider(cfg, log)
	defer closeCache()

	var archive *sqlitestore.Archive
	if cfg.SQLitePath != "" {
		archive, err = sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			log.Warn("sqlite archive unavailable", "path", cfg.SQLitePath, "err", err)
		} else {
			defer archive.Close()
		}
	}

	dispatcher := buildDispatcher(cfg, log)

	w := &watcher{
		cfg:        cfg,
		log:        log,
		list:       list,
		provider:   provider,
		archive:    archive,
		dispatcher: dispatcher,
		prom:       prom,
		health:     health,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *runOnce {
		w.poll(ctx)
		return
	}

	// One poll at startup; the schedule takes over from there.
	go w.poll(ctx)

	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSchedule, func() { w.poll(ctx) }); err != nil {
		log.Error("invalid cron schedule", "schedule", cfg.CronSchedule, "err", err)
		os.Exit(1)
	}
	c.Start()
	log.Info("watch daemon started", "schedule", cfg.CronSchedule, "metrics", cfg.MetricsAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()
	stopCtx := c.Stop()
	<-stopCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Stop(shutdownCtx)
}

// buildProvider wires the Yahoo client behind a series cache. Redis is
// preferred when configured; otherwise an in-process cache is used.
func buildProvider(cfg *config.Config, log *slog.Logger) (marketdata.Provider, func()) {
	yahoo := marketdata.NewYahooClient(cfg.ProxyURL)

	if cfg.RedisAddr != "" {
		cache, err := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Warn("redis unavailable, falling back to memory cache", "err", err)
		} else {
			return marketdata.NewCachedProvider(yahoo, cache), func() { cache.Close() }
		}
	}
	return marketdata.NewCachedProvider(yahoo, marketdata.NewMemoryCache(cfg.CacheTTL)), func() {}
}

func buildDispatcher(cfg *config.Config, log *slog.Logger) *notification.Dispatcher {
	var channels []notification.Notifier
	if cfg.LineToken != "" {
		channels = append(channels, notification.NewLineNotifier(cfg.LineToken))
	}
	if cfg.GoogleChatWebhook != "" {
		channels = append(channels, notification.NewGoogleChatNotifier(cfg.GoogleChatWebhook))
	}
	if len(channels) == 0 {
		log.Warn("no notification channels configured, alerts go to the log only")
		channels = append(channels, notification.NewLogNotifier())
	}
	d := notification.NewDispatcher(channels...)
	log.Info("notification channels ready", "count", d.Channels())
	return d
}
