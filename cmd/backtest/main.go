// cmd/backtest runs the golden-cross strategy over historical data for a
// set of tickers and prints a portfolio report. Tickers come from the
// watchlist by default or from the -tickers flag; history comes from the
// provider or, with -db, from the local SQLite archive.
//
// Usage:
//
//	go run ./cmd/backtest --config=config.yaml --tickers=AAPL,MSFT --workers=8
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"stockwatch/config"
	"stockwatch/internal/backtest"
	"stockwatch/internal/logger"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/model"
	sqlitestore "stockwatch/internal/store/sqlite"
	"stockwatch/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	tickersFlag := flag.String("tickers", "", "Comma-separated tickers (default: watchlist)")
	workers := flag.Int("workers", 4, "Concurrent backtest workers")
	useArchive := flag.Bool("db", false, "Read history from the SQLite archive instead of the provider")
	jsonOut := flag.Bool("json", false, "Emit the report as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init("backtest", logger.ParseLevel(cfg.LogLevel))

	ctx := context.Background()

	tickers, err := resolveTickers(ctx, cfg, *tickersFlag, *useArchive)
	if err != nil {
		log.Error("resolving tickers failed", "err", err)
		os.Exit(1)
	}
	if len(tickers) == 0 {
		log.Error("no tickers to test")
		os.Exit(1)
	}

	load, closeLoader, err := buildLoader(cfg, *useArchive)
	if err != nil {
		log.Error("history source init failed", "err", err)
		os.Exit(1)
	}
	defer closeLoader()

	if *workers < 1 {
		*workers = 1
	}
	log.Info("running backtest", "tickers", len(tickers), "workers", *workers)

	results, skipped := runAll(ctx, tickers, *workers, load, func(ticker string, err error) {
		log.Warn("ticker skipped", "ticker", ticker, "err", err)
	})

	report := backtest.Aggregate(results, skipped)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		return
	}
	printReport(report)
}

type loadFunc func(ctx context.Context, ticker string) (model.PriceSeries, error)

// buildLoader returns the history source: the SQLite archive with -db,
// otherwise the cached provider.
func buildLoader(cfg *config.Config, useArchive bool) (loadFunc, func(), error) {
	if useArchive {
		if cfg.SQLitePath == "" {
			return nil, nil, fmt.Errorf("-db requires sqlite_path in config or SQLITE_PATH")
		}
		archive, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		load := func(ctx context.Context, ticker string) (model.PriceSeries, error) {
			series, err := archive.LoadSeries(ctx, ticker)
			if err != nil {
				return nil, err
			}
			if len(series) == 0 {
				return nil, fmt.Errorf("%s: %w", ticker, marketdata.ErrNoData)
			}
			return series, nil
		}
		return load, func() { archive.Close() }, nil
	}

	provider := marketdata.NewCachedProvider(
		marketdata.NewYahooClient(cfg.ProxyURL),
		marketdata.NewMemoryCache(cfg.CacheTTL),
	)
	load := func(ctx context.Context, ticker string) (model.PriceSeries, error) {
		return provider.Fetch(ctx, ticker, cfg.FetchPeriod, cfg.FetchInterval)
	}
	return load, func() {}, nil
}

func resolveTickers(ctx context.Context, cfg *config.Config, flagValue string, useArchive bool) ([]string, error) {
	if flagValue != "" {
		var tickers []string
		for _, t := range strings.Split(flagValue, ",") {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" {
				tickers = append(tickers, t)
			}
		}
		return tickers, nil
	}
	if useArchive {
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("-db requires sqlite_path in config or SQLITE_PATH")
		}
		archive, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		return archive.Symbols(ctx)
	}
	list, err := watchlist.Open(cfg.WatchlistPath)
	if err != nil {
		return nil, err
	}
	return list.Tickers(), nil
}

// runAll fans the tickers out over a worker pool. A failed ticker is
// counted as skipped, never fatal.
func runAll(ctx context.Context, tickers []string, workers int, load loadFunc, onSkip func(string, error)) ([]*backtest.Result, int) {
	jobs := make(chan string)
	var mu sync.Mutex
	var results []*backtest.Result
	skipped := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				res, err := runOne(ctx, ticker, load)
				mu.Lock()
				if err != nil {
					skipped++
					mu.Unlock()
					onSkip(ticker, err)
					continue
				}
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}
	for _, t := range tickers {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Ticker < results[j].Ticker })
	return results, skipped
}

func runOne(ctx context.Context, ticker string, load loadFunc) (*backtest.Result, error) {
	series, err := load(ctx, ticker)
	if err != nil {
		return nil, err
	}
	res, err := backtest.Run(ticker, series)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	return res, nil
}

func printReport(report *backtest.PortfolioReport) {
	s := report.Summary

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║           PORTFOLIO BACKTEST                 ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf("║  Stocks analyzed:    %-23d ║\n", s.StocksAnalyzed)
	fmt.Printf("║  Stocks skipped:     %-23d ║\n", s.StocksSkipped)
	fmt.Printf("║  Total trades:       %-23d ║\n", s.TotalTrades)
	fmt.Printf("║  Overall win rate:   %-22.2f%% ║\n", s.OverallWinRate)
	fmt.Printf("║  Avg return/trade:   %-22.2f%% ║\n", s.AvgReturnPerTrade)
	fmt.Printf("║  Median return:      %-22.2f%% ║\n", s.MedianReturn)
	fmt.Printf("║  Return std dev:     %-22.2f%% ║\n", s.StdReturn)
	fmt.Printf("║  Avg win rate/stock: %-22.2f%% ║\n", s.AvgWinRatePerStock)
	fmt.Printf("║  Avg max drawdown:   %-22.2f%% ║\n", s.AvgMaxDrawdown)
	fmt.Println("╚══════════════════════════════════════════════╝")

	printRanking("BEST PERFORMERS", report.Best)
	printRanking("WORST PERFORMERS", report.Worst)
}

func printRanking(title string, rows []backtest.Performer) {
	if len(rows) == 0 {
		return
	}
	fmt.Printf("\n%s\n", title)
	fmt.Printf("  %-10s %12s %10s %8s\n", "TICKER", "TOTAL RET", "WIN RATE", "TRADES")
	for _, p := range rows {
		fmt.Printf("  %-10s %11.2f%% %9.2f%% %8d\n", p.Ticker, p.TotalReturn, p.WinRate, p.Trades)
	}
}
