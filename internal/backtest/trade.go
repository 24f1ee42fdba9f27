// Package backtest simulates a long-only golden-cross strategy over
// historical price series and aggregates the results.
package backtest

import (
	"math"
	"time"
)

// Trade is a single entry/exit pair. ExitDate.IsZero() means the position
// is still open.
type Trade struct {
	Ticker     string    `json:"ticker"`
	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitDate   time.Time `json:"exit_date,omitempty"`
	ExitPrice  float64   `json:"exit_price,omitempty"`
}

// Open reports whether the position has not been closed.
func (t Trade) Open() bool { return t.ExitDate.IsZero() }

// ReturnPct is the percentage return of the trade, NaN while open.
func (t Trade) ReturnPct() float64 {
	if t.Open() {
		return math.NaN()
	}
	return (t.ExitPrice - t.EntryPrice) / t.EntryPrice * 100
}

// IsWinner reports whether the closed trade returned more than zero.
// Always false while the trade is open.
func (t Trade) IsWinner() bool {
	r := t.ReturnPct()
	return !math.IsNaN(r) && r > 0
}
