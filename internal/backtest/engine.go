package backtest

import (
	"errors"
	"math"

	"stockwatch/internal/indicator"
	"stockwatch/internal/model"
)

// Strategy parameters.
const (
	ShortWindow = 25
	LongWindow  = 75

	// MinBars is the minimum series length worth simulating. Shorter
	// series produce ErrInsufficientHistory, which portfolio runs count
	// as a skip rather than a failure.
	MinBars = 100

	startEquity = 100.0
)

var (
	// ErrInsufficientHistory marks a series too short to backtest.
	ErrInsufficientHistory = errors.New("backtest: insufficient history")

	// ErrNoTrades marks a series that never produced a golden cross.
	ErrNoTrades = errors.New("backtest: no trades generated")
)

// Result holds the trade ledger for one symbol and the metrics computed
// from it. Metrics are always derived from Trades, never stored apart from
// the ledger that produced them.
type Result struct {
	Ticker        string  `json:"ticker"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`     // percent
	AvgReturn     float64 `json:"avg_return"`   // mean per-trade return percent
	TotalReturn   float64 `json:"total_return"` // compounded, percent
	MaxDrawdown   float64 `json:"max_drawdown"` // percent, <= 0
	Trades        []Trade `json:"trades"`
}

// Run simulates the golden-cross strategy for one symbol:
// enter long on SMA25 crossing above SMA75, exit on the cross back down,
// at most one open position, forced liquidation at the final close.
//
// The SMAs come from the shared indicator primitives; rows where either is
// undefined are skipped entirely and can neither open nor close a position.
func Run(ticker string, series model.PriceSeries) (*Result, error) {
	if len(series) < MinBars {
		return nil, ErrInsufficientHistory
	}

	closes := series.Closes()
	short := indicator.SMA(closes, ShortWindow)
	long := indicator.SMA(closes, LongWindow)

	var (
		trades  []Trade
		open    *Trade
		equity  = []float64{startEquity}
		hasPrev bool
		prevUp  bool
	)

	closeTrade := func(i int) {
		open.ExitDate = series[i].TS
		open.ExitPrice = closes[i]
		trades = append(trades, *open)
		equity = append(equity, equity[len(equity)-1]*(1+open.ReturnPct()/100))
		open = nil
	}

	for i := range series {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}
		up := short[i] > long[i]
		golden := hasPrev && up && !prevUp
		dead := hasPrev && !up && prevUp
		hasPrev, prevUp = true, up

		switch {
		case golden && open == nil:
			open = &Trade{Ticker: ticker, EntryDate: series[i].TS, EntryPrice: closes[i]}
		case dead && open != nil:
			closeTrade(i)
		}
	}

	// Forced liquidation: an open position at series end is closed at the
	// last available close rather than dropped from the statistics.
	if open != nil {
		closeTrade(len(series) - 1)
	}

	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	return summarize(ticker, trades, equity), nil
}

func summarize(ticker string, trades []Trade, equity []float64) *Result {
	res := &Result{
		Ticker:      ticker,
		TotalTrades: len(trades),
		Trades:      trades,
	}

	var sum float64
	for _, t := range trades {
		r := t.ReturnPct()
		sum += r
		if r > 0 {
			res.WinningTrades++
		} else {
			res.LosingTrades++
		}
	}
	res.WinRate = float64(res.WinningTrades) / float64(len(trades)) * 100
	res.AvgReturn = sum / float64(len(trades))
	res.TotalReturn = (equity[len(equity)-1]/equity[0] - 1) * 100
	res.MaxDrawdown = maxDrawdown(equity)
	return res
}

// maxDrawdown is the worst peak-to-trough decline of the equity curve in
// percent. Zero or negative by construction.
func maxDrawdown(equity []float64) float64 {
	peak := equity[0]
	worst := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		dd := (e - peak) / peak * 100
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
