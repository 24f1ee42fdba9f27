package backtest

import (
	"math"
	"sort"
)

// rankDepth bounds the best/worst performer lists.
const rankDepth = 10

// PortfolioSummary aggregates a multi-symbol backtest two ways at once:
// the pooled stats treat every trade from every symbol as one population,
// while the per-stock averages summarize each symbol first and then
// average the summaries. The two are NOT equivalent and both are reported.
type PortfolioSummary struct {
	StocksAnalyzed int `json:"stocks_analyzed"`
	StocksSkipped  int `json:"stocks_skipped"`
	TotalTrades    int `json:"total_trades"`
	WinningTrades  int `json:"winning_trades"`
	LosingTrades   int `json:"losing_trades"`

	// Pooled across all trades.
	OverallWinRate    float64 `json:"overall_win_rate"`
	AvgReturnPerTrade float64 `json:"avg_return_per_trade"`
	MedianReturn      float64 `json:"median_return"`
	StdReturn         float64 `json:"std_return"`

	// Averaged per-symbol summaries.
	AvgWinRatePerStock float64 `json:"avg_win_rate_per_stock"`
	AvgMaxDrawdown     float64 `json:"avg_max_drawdown"`
}

// Performer is one row of the best/worst ranking.
type Performer struct {
	Ticker      string  `json:"ticker"`
	TotalReturn float64 `json:"total_return"`
	WinRate     float64 `json:"win_rate"`
	Trades      int     `json:"trades"`
}

// PortfolioReport is the full output of a portfolio run.
type PortfolioReport struct {
	Summary PortfolioSummary `json:"summary"`
	Best    []Performer      `json:"best_performers"`
	Worst   []Performer      `json:"worst_performers"`
	Results []*Result        `json:"-"`
}

// Aggregate combines per-symbol results into a portfolio report. skipped
// counts symbols that produced no result (insufficient history, fetch
// failure); they are reported but never abort the batch.
func Aggregate(results []*Result, skipped int) *PortfolioReport {
	report := &PortfolioReport{
		Summary: PortfolioSummary{
			StocksAnalyzed: len(results),
			StocksSkipped:  skipped,
		},
		Results: results,
	}
	if len(results) == 0 {
		return report
	}

	var (
		returns     []float64
		winRateSum  float64
		drawdownSum float64
	)
	for _, r := range results {
		report.Summary.TotalTrades += r.TotalTrades
		report.Summary.WinningTrades += r.WinningTrades
		report.Summary.LosingTrades += r.LosingTrades
		winRateSum += r.WinRate
		drawdownSum += r.MaxDrawdown
		for _, t := range r.Trades {
			returns = append(returns, t.ReturnPct())
		}
	}

	s := &report.Summary
	if s.TotalTrades > 0 {
		s.OverallWinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
		s.AvgReturnPerTrade = mean(returns)
		s.MedianReturn = median(returns)
		s.StdReturn = stddev(returns)
	}
	s.AvgWinRatePerStock = winRateSum / float64(len(results))
	s.AvgMaxDrawdown = drawdownSum / float64(len(results))

	ranked := make([]*Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalReturn > ranked[j].TotalReturn
	})

	top := rankDepth
	if top > len(ranked) {
		top = len(ranked)
	}
	for _, r := range ranked[:top] {
		report.Best = append(report.Best, performer(r))
	}
	for _, r := range ranked[len(ranked)-top:] {
		report.Worst = append(report.Worst, performer(r))
	}
	return report
}

func performer(r *Result) Performer {
	return Performer{
		Ticker:      r.Ticker,
		TotalReturn: r.TotalReturn,
		WinRate:     r.WinRate,
		Trades:      r.TotalTrades,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the population standard deviation, matching the reference
// aggregation behavior.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
