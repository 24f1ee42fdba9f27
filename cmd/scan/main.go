// cmd/scan produces a one-shot analysis report for a single ticker:
// latest indicator values, recent signals and a position-sizing ticket.
//
// Usage:
//
//	go run ./cmd/scan --config=config.yaml AAPL
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"stockwatch/config"
	"stockwatch/internal/indicator"
	"stockwatch/internal/logger"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/order"
	"stockwatch/internal/signal"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	lookback := flag.Int("lookback", signal.DefaultLookback, "Days scanned for signals")
	jsonOut := flag.Bool("json", false, "Emit the report as JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scan [flags] TICKER")
		os.Exit(2)
	}
	ticker := strings.ToUpper(strings.TrimSpace(flag.Arg(0)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init("scan", logger.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := marketdata.NewYahooClient(cfg.ProxyURL)
	series, err := client.Fetch(ctx, ticker, cfg.FetchPeriod, cfg.FetchInterval)
	if err != nil {
		log.Error("fetch failed", "ticker", ticker, "err", err)
		os.Exit(1)
	}

	name := ticker
	if quote, err := client.Latest(ctx, ticker); err == nil {
		name = quote.Name
	}

	frame := indicator.NewFrame(series)
	signals := signal.DetectAll(frame, *lookback)

	var ticket *order.OrderInfo
	last, _ := series.Last()
	p := order.Params{
		TotalAssets:    cfg.Capital,
		RiskPercent:    cfg.RiskPct,
		StopLossBuffer: cfg.StopBufferPct,
		RiskReward:     cfg.RewardRiskRatio,
		Lookback:       order.DefaultLookback,
	}
	if info, err := order.Calculate(ticker, name, last.Close, series, p); err == nil {
		ticket = info
	}

	if *jsonOut {
		printJSON(ticker, name, frame, signals, ticket)
		return
	}
	printReport(ticker, name, frame, signals, ticket, *lookback)
}

func printJSON(ticker, name string, frame *indicator.Frame, signals []signal.Signal, ticket *order.OrderInfo) {
	i := frame.Len() - 1
	report := struct {
		Ticker     string           `json:"ticker"`
		Name       string           `json:"name"`
		AsOf       time.Time        `json:"as_of"`
		Close      float64          `json:"close"`
		Indicators map[string]any   `json:"indicators"`
		Signals    []signal.Signal  `json:"signals"`
		Order      *order.OrderInfo `json:"order,omitempty"`
	}{
		Ticker:     ticker,
		Name:       name,
		AsOf:       frame.TS(i),
		Close:      frame.Close(i),
		Indicators: latestIndicators(frame),
		Signals:    signals,
		Order:      ticket,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(report)
}

// latestIndicators collects the last-row indicator values, mapping NaN to
// null for JSON.
func latestIndicators(frame *indicator.Frame) map[string]any {
	i := frame.Len() - 1
	out := make(map[string]any)
	for _, col := range []string{
		indicator.ColSMA5, indicator.ColSMA25, indicator.ColSMA75, indicator.ColSMA200,
		indicator.ColRSI,
		indicator.ColMACD, indicator.ColMACDSignal, indicator.ColMACDHistogram,
		indicator.ColBBUpper, indicator.ColBBMiddle, indicator.ColBBLower,
	} {
		v := frame.Value(col, i)
		if math.IsNaN(v) {
			out[col] = nil
		} else {
			out[col] = v
		}
	}
	return out
}

func printReport(ticker, name string, frame *indicator.Frame, signals []signal.Signal, ticket *order.OrderInfo, lookback int) {
	i := frame.Len() - 1
	fmt.Printf("%s (%s)  close %.2f  as of %s\n\n",
		ticker, name, frame.Close(i), frame.TS(i).Format("2006-01-02"))

	fmt.Println("INDICATORS")
	printValue := func(label, col string) {
		v := frame.Value(col, i)
		if math.IsNaN(v) {
			fmt.Printf("  %-12s %10s\n", label, "n/a")
			return
		}
		fmt.Printf("  %-12s %10.2f\n", label, v)
	}
	printValue("SMA 5", indicator.ColSMA5)
	printValue("SMA 25", indicator.ColSMA25)
	printValue("SMA 75", indicator.ColSMA75)
	printValue("SMA 200", indicator.ColSMA200)
	printValue("RSI 14", indicator.ColRSI)
	printValue("MACD", indicator.ColMACD)
	printValue("MACD signal", indicator.ColMACDSignal)
	printValue("BB upper", indicator.ColBBUpper)
	printValue("BB lower", indicator.ColBBLower)

	fmt.Printf("\nSIGNALS (last %d sessions)\n", lookback)
	if len(signals) == 0 {
		fmt.Println("  none")
	}
	for _, s := range signals {
		direction := "bearish"
		if s.Bullish {
			direction = "bullish"
		}
		fmt.Printf("  %s  %-14s %-7s %8.2f  %s\n",
			s.Date.Format("2006-01-02"), s.Kind, direction, s.Price, s.Description)
	}

	if ticket != nil {
		fmt.Println()
		fmt.Println(order.Format(ticket))
	}
}
