// Package alert evaluates the latest two rows of an indicator frame against
// per-symbol thresholds to decide whether an alert should fire right now.
//
// It deliberately differs from internal/signal: the RSI checks here are
// level-based (alert while RSI sits beyond the threshold), while the signal
// detector only fires on recovery transitions. Do not unify the two.
package alert

import (
	"fmt"
	"math"
	"time"

	"stockwatch/internal/indicator"
)

// Kind tags the condition that fired.
type Kind string

const (
	KindGoldenCross   Kind = "golden_cross"
	KindDeadCross     Kind = "dead_cross"
	KindRSIOversold   Kind = "rsi_oversold"
	KindRSIOverbought Kind = "rsi_overbought"
)

// Default RSI thresholds when a symbol carries no custom settings.
const (
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0
)

// Config holds the per-symbol evaluation settings.
type Config struct {
	RSIOversold   float64
	RSIOverbought float64
	CrossEnabled  bool
}

// DefaultConfig returns the defaults-only configuration.
func DefaultConfig() Config {
	return Config{
		RSIOversold:   DefaultRSIOversold,
		RSIOverbought: DefaultRSIOverbought,
		CrossEnabled:  true,
	}
}

// Alert is a triggered alert. Time is the evaluation time, not the time of
// the underlying market event.
type Alert struct {
	Ticker  string    `json:"ticker"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// CheckGoldenCross fires when SMA_25 crossed above SMA_75 between the
// second-latest and latest row. All four involved values must be defined.
func CheckGoldenCross(ticker string, f *indicator.Frame, now time.Time) *Alert {
	cur, prev, ok := lastTwo(f, indicator.ColSMA25, indicator.ColSMA75)
	if !ok {
		return nil
	}
	if cur.short > cur.long && prev.short <= prev.long {
		n := f.Len() - 1
		return &Alert{
			Ticker: ticker,
			Kind:   KindGoldenCross,
			Message: fmt.Sprintf("🌟 Golden cross: %s closed at %.2f on %s (SMA25 crossed above SMA75)",
				ticker, f.Close(n), f.TS(n).Format("2006-01-02")),
			Time: now,
		}
	}
	return nil
}

// CheckDeadCross fires when SMA_25 crossed below SMA_75 between the
// second-latest and latest row.
func CheckDeadCross(ticker string, f *indicator.Frame, now time.Time) *Alert {
	cur, prev, ok := lastTwo(f, indicator.ColSMA25, indicator.ColSMA75)
	if !ok {
		return nil
	}
	if cur.short < cur.long && prev.short >= prev.long {
		n := f.Len() - 1
		return &Alert{
			Ticker: ticker,
			Kind:   KindDeadCross,
			Message: fmt.Sprintf("💀 Dead cross: %s closed at %.2f on %s (SMA25 crossed below SMA75)",
				ticker, f.Close(n), f.TS(n).Format("2006-01-02")),
			Time: now,
		}
	}
	return nil
}

// CheckRSIOversold fires whenever the latest RSI is strictly below the
// threshold. Level-based: it will keep firing on every poll while the
// condition holds.
func CheckRSIOversold(ticker string, f *indicator.Frame, threshold float64, now time.Time) *Alert {
	n := f.Len() - 1
	if n < 0 {
		return nil
	}
	rsi := f.Value(indicator.ColRSI, n)
	if math.IsNaN(rsi) || rsi >= threshold {
		return nil
	}
	return &Alert{
		Ticker: ticker,
		Kind:   KindRSIOversold,
		Message: fmt.Sprintf("📉 RSI oversold: %s at %.2f, RSI %.1f < %.0f",
			ticker, f.Close(n), rsi, threshold),
		Time: now,
	}
}

// CheckRSIOverbought fires whenever the latest RSI is strictly above the
// threshold.
func CheckRSIOverbought(ticker string, f *indicator.Frame, threshold float64, now time.Time) *Alert {
	n := f.Len() - 1
	if n < 0 {
		return nil
	}
	rsi := f.Value(indicator.ColRSI, n)
	if math.IsNaN(rsi) || rsi <= threshold {
		return nil
	}
	return &Alert{
		Ticker: ticker,
		Kind:   KindRSIOverbought,
		Message: fmt.Sprintf("📈 RSI overbought: %s at %.2f, RSI %.1f > %.0f",
			ticker, f.Close(n), rsi, threshold),
		Time: now,
	}
}

// Evaluate runs all enabled checks for one symbol and returns every alert
// that fired. Stateless: the caller decides how often to poll.
func Evaluate(ticker string, f *indicator.Frame, cfg Config, now time.Time) []Alert {
	var alerts []Alert

	if cfg.CrossEnabled {
		if a := CheckGoldenCross(ticker, f, now); a != nil {
			alerts = append(alerts, *a)
		}
		if a := CheckDeadCross(ticker, f, now); a != nil {
			alerts = append(alerts, *a)
		}
	}
	if a := CheckRSIOversold(ticker, f, cfg.RSIOversold, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := CheckRSIOverbought(ticker, f, cfg.RSIOverbought, now); a != nil {
		alerts = append(alerts, *a)
	}
	return alerts
}

type maPair struct {
	short, long float64
}

// lastTwo extracts the short/long values of the latest and second-latest
// rows. ok is false if the frame has fewer than two rows or any of the four
// values is undefined.
func lastTwo(f *indicator.Frame, shortCol, longCol string) (cur, prev maPair, ok bool) {
	n := f.Len() - 1
	if n < 1 {
		return maPair{}, maPair{}, false
	}
	cur = maPair{short: f.Value(shortCol, n), long: f.Value(longCol, n)}
	prev = maPair{short: f.Value(shortCol, n-1), long: f.Value(longCol, n-1)}
	if math.IsNaN(cur.short) || math.IsNaN(cur.long) || math.IsNaN(prev.short) || math.IsNaN(prev.long) {
		return maPair{}, maPair{}, false
	}
	return cur, prev, true
}
