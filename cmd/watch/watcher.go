package main

import (
	"context"
	"log/slog"
	"time"

	"stockwatch/config"
	"stockwatch/internal/alert"
	"stockwatch/internal/indicator"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/metrics"
	"stockwatch/internal/model"
	"stockwatch/internal/notification"
	"stockwatch/internal/order"
	sqlitestore "stockwatch/internal/store/sqlite"
	"stockwatch/internal/watchlist"
)

// watcher runs one poll cycle over the whole watchlist.
type watcher struct {
	cfg        *config.Config
	log        *slog.Logger
	list       *watchlist.Store
	provider   marketdata.Provider
	archive    *sqlitestore.Archive
	dispatcher *notification.Dispatcher
	prom       *metrics.Metrics
	health     *metrics.HealthStatus
}

func (w *watcher) poll(ctx context.Context) {
	start := time.Now()
	entries := w.list.List()
	w.prom.PollRuns.Inc()
	w.prom.WatchlistSize.Set(float64(len(entries)))

	var fired, errCount int
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		n, err := w.pollOne(ctx, e)
		if err != nil {
			w.prom.FetchErrors.Inc()
			errCount++
			w.log.Warn("poll failed", "ticker", e.Ticker, "err", err)
			continue
		}
		fired += n
	}

	w.prom.PollDuration.Observe(time.Since(start).Seconds())
	w.health.RecordPoll(start, errCount, len(entries))
	w.log.Info("poll cycle done",
		"tickers", len(entries), "alerts", fired, "errors", errCount,
		"took", time.Since(start).Round(time.Millisecond))
}

func (w *watcher) pollOne(ctx context.Context, e watchlist.Entry) (int, error) {
	series, err := w.provider.Fetch(ctx, e.Ticker, w.cfg.FetchPeriod, w.cfg.FetchInterval)
	if err != nil {
		return 0, err
	}
	if w.archive != nil {
		if err := w.archive.SaveSeries(ctx, e.Ticker, series); err != nil {
			w.log.Warn("archive write failed", "ticker", e.Ticker, "err", err)
		}
	}

	frame := indicator.NewFrame(series)
	cfg := alert.Config{
		RSIOversold:   float64(e.RSIOversold),
		RSIOverbought: float64(e.RSIOverbought),
		CrossEnabled:  e.CrossEnabled,
	}
	alerts := alert.Evaluate(e.Ticker, frame, cfg, time.Now())

	for _, a := range alerts {
		w.prom.AlertsFired.WithLabelValues(string(a.Kind)).Inc()
		message := a.Message
		if a.Kind == alert.KindGoldenCross {
			message += w.orderSuffix(e, series)
		}
		results := w.dispatcher.Dispatch(ctx, message)
		_, failed := notification.Tally(results)
		if failed > 0 {
			w.prom.NotifyFailures.Add(float64(failed))
		}
	}
	return len(alerts), nil
}

// orderSuffix appends a position-sizing ticket to a buy-side alert. Sizing
// failures degrade to a plain alert rather than suppressing it.
func (w *watcher) orderSuffix(e watchlist.Entry, series model.PriceSeries) string {
	last, ok := series.Last()
	if !ok {
		return ""
	}
	p := order.Params{
		TotalAssets:    w.cfg.Capital,
		RiskPercent:    w.cfg.RiskPct,
		StopLossBuffer: w.cfg.StopBufferPct,
		RiskReward:     w.cfg.RewardRiskRatio,
		Lookback:       order.DefaultLookback,
	}
	info, err := order.Calculate(e.Ticker, e.Name, last.Close, series, p)
	if err != nil {
		w.log.Debug("order sizing skipped", "ticker", e.Ticker, "err", err)
		return ""
	}
	return "\n" + order.FormatCompact(info)
}
