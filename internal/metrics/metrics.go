package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the watch daemon.
type Metrics struct {
	PollRuns       prometheus.Counter
	FetchErrors    prometheus.Counter
	AlertsFired    *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	PollDuration   prometheus.Histogram
	WatchlistSize  prometheus.Gauge
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		PollRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_poll_runs_total",
			Help: "Total watchlist poll cycles executed",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_fetch_errors_total",
			Help: "Failed price history fetches",
		}),
		AlertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwatch_alerts_fired_total",
			Help: "Alerts fired (by kind)",
		}, []string{"kind"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_notify_failures_total",
			Help: "Notification deliveries that failed",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockwatch_poll_duration_seconds",
			Help:    "Wall time of one full watchlist poll cycle",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		WatchlistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockwatch_watchlist_size",
			Help: "Number of tickers on the watchlist",
		}),
	}

	prometheus.MustRegister(
		m.PollRuns,
		m.FetchErrors,
		m.AlertsFired,
		m.NotifyFailures,
		m.PollDuration,
		m.WatchlistSize,
	)

	return m
}

// HealthStatus tracks daemon liveness for the /healthz endpoint.
type HealthStatus struct {
	mu sync.RWMutex

	lastPollAt     time.Time
	lastPollErrors int
	watchlistSize  int
	startedAt      time.Time
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{startedAt: time.Now()}
}

func (h *HealthStatus) RecordPoll(at time.Time, errorCount, watchlistSize int) {
	h.mu.Lock()
	h.lastPollAt = at
	h.lastPollErrors = errorCount
	h.watchlistSize = watchlistSize
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint. The daemon is degraded when the
// last poll failed for every ticker.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if h.watchlistSize > 0 && h.lastPollErrors >= h.watchlistSize {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	lastPoll := ""
	if !h.lastPollAt.IsZero() {
		lastPoll = h.lastPollAt.Format(time.RFC3339)
	}

	status := struct {
		Status         string `json:"status"`
		Uptime         string `json:"uptime"`
		LastPollAt     string `json:"last_poll_at"`
		LastPollErrors int    `json:"last_poll_errors"`
		WatchlistSize  int    `json:"watchlist_size"`
	}{
		Status:         overallStatus,
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
		LastPollAt:     lastPoll,
		LastPollErrors: h.lastPollErrors,
		WatchlistSize:  h.watchlistSize,
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
