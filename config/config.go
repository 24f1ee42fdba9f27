// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Watchlist
	WatchlistPath string `yaml:"watchlist_path"`

	// Market data
	ProxyURL      string        `yaml:"proxy_url"`
	FetchPeriod   string        `yaml:"fetch_period"`
	FetchInterval string        `yaml:"fetch_interval"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	// Infrastructure
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path"`
	MetricsAddr   string `yaml:"metrics_addr"`

	// Notification channels. A channel is enabled when its credential is
	// non-empty.
	LineToken         string `yaml:"line_token"`
	GoogleChatWebhook string `yaml:"google_chat_webhook"`

	// Watch daemon
	CronSchedule string `yaml:"cron_schedule"`

	// Order sizing
	Capital         float64 `yaml:"capital"`
	RiskPct         float64 `yaml:"risk_pct"`
	StopBufferPct   float64 `yaml:"stop_buffer_pct"`
	RewardRiskRatio float64 `yaml:"reward_risk_ratio"`

	LogLevel string `yaml:"log_level"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// is missing), then applies environment variable overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.WatchlistPath = getEnv("WATCHLIST_PATH", cfg.WatchlistPath)
	cfg.ProxyURL = getEnv("PROXY_URL", cfg.ProxyURL)
	cfg.FetchPeriod = getEnv("FETCH_PERIOD", cfg.FetchPeriod)
	cfg.FetchInterval = getEnv("FETCH_INTERVAL", cfg.FetchInterval)
	cfg.CacheTTL = getDurationEnv("CACHE_TTL", cfg.CacheTTL)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("REDIS_DB", cfg.RedisDB)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MetricsAddr = getEnv("METRICS_ADDR", cfg.MetricsAddr)

	cfg.LineToken = getEnv("LINE_TOKEN", cfg.LineToken)
	cfg.GoogleChatWebhook = getEnv("GOOGLE_CHAT_WEBHOOK", cfg.GoogleChatWebhook)

	cfg.CronSchedule = getEnv("CRON_SCHEDULE", cfg.CronSchedule)

	cfg.Capital = getFloatEnv("CAPITAL", cfg.Capital)
	cfg.RiskPct = getFloatEnv("RISK_PCT", cfg.RiskPct)
	cfg.StopBufferPct = getFloatEnv("STOP_BUFFER_PCT", cfg.StopBufferPct)
	cfg.RewardRiskRatio = getFloatEnv("REWARD_RISK_RATIO", cfg.RewardRiskRatio)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WatchlistPath == "" {
		c.WatchlistPath = "data/watchlist.json"
	}
	if c.FetchPeriod == "" {
		c.FetchPeriod = "1y"
	}
	if c.FetchInterval == "" {
		c.FetchInterval = "1d"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
	if c.CronSchedule == "" {
		// Weekdays at 07:00.
		c.CronSchedule = "0 7 * * 1-5"
	}
	if c.Capital <= 0 {
		c.Capital = 1_000_000
	}
	if c.RiskPct <= 0 {
		c.RiskPct = 2.0
	}
	if c.StopBufferPct < 0 {
		c.StopBufferPct = 0
	}
	if c.RewardRiskRatio <= 0 {
		c.RewardRiskRatio = 2.0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloatEnv(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
