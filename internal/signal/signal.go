// Package signal scans indicator-annotated series for discrete
// crossover and threshold events.
package signal

import "time"

// Kind identifies the type of a detected signal.
type Kind string

const (
	GoldenCross   Kind = "golden_cross"
	DeadCross     Kind = "dead_cross"
	RSIOversold   Kind = "rsi_oversold"
	RSIOverbought Kind = "rsi_overbought"
	MACDBullish   Kind = "macd_bullish"
	MACDBearish   Kind = "macd_bearish"
	BBLowerTouch  Kind = "bb_lower_touch"
	BBUpperTouch  Kind = "bb_upper_touch"
)

// Signal is an immutable detected event. Signals are derived, never stored:
// a fresh detection run over the same frame reproduces the identical set.
type Signal struct {
	Kind        Kind      `json:"kind"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"` // close at the event bar
	Description string    `json:"description"`
	Bullish     bool      `json:"bullish"`
}
