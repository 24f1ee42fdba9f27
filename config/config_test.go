package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WatchlistPath != "data/watchlist.json" {
		t.Errorf("WatchlistPath = %q", cfg.WatchlistPath)
	}
	if cfg.FetchPeriod != "1y" || cfg.FetchInterval != "1d" {
		t.Errorf("fetch defaults = %q/%q", cfg.FetchPeriod, cfg.FetchInterval)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %s", cfg.CacheTTL)
	}
	if cfg.RiskPct != 2.0 || cfg.RewardRiskRatio != 2.0 {
		t.Errorf("sizing defaults = %g/%g", cfg.RiskPct, cfg.RewardRiskRatio)
	}
	if cfg.CronSchedule == "" {
		t.Error("CronSchedule empty")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
watchlist_path: /var/lib/stockwatch/list.json
fetch_period: 2y
cache_ttl: 30m
redis_addr: redis:6379
line_token: tok
capital: 500000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WatchlistPath != "/var/lib/stockwatch/list.json" {
		t.Errorf("WatchlistPath = %q", cfg.WatchlistPath)
	}
	if cfg.FetchPeriod != "2y" {
		t.Errorf("FetchPeriod = %q", cfg.FetchPeriod)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %s", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.Capital != 500000 {
		t.Errorf("Capital = %g", cfg.Capital)
	}
	// Untouched fields still default.
	if cfg.FetchInterval != "1d" {
		t.Errorf("FetchInterval = %q", cfg.FetchInterval)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fetch_period: 2y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FETCH_PERIOD", "5y")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FetchPeriod != "5y" {
		t.Errorf("FetchPeriod = %q, want env override", cfg.FetchPeriod)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s", cfg.CacheTTL)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
