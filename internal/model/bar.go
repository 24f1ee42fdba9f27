// Package model defines the core market data types shared across the engine.
package model

import (
	"fmt"
	"time"
)

// PriceBar represents one trading-period OHLCV record.
// TS is the bar's period start and the primary ordering key.
type PriceBar struct {
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a time-ascending sequence of PriceBar, unique per timestamp.
// Missing bars are simply absent; gaps are never interpolated.
type PriceSeries []PriceBar

// Validate checks ordering, timestamp uniqueness, and price sanity.
// A series that fails validation must be treated as an input error,
// never silently repaired.
func (s PriceSeries) Validate() error {
	for i, b := range s {
		if b.Close <= 0 || b.Open <= 0 || b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive price", i, b.TS.Format("2006-01-02"))
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative volume", i, b.TS.Format("2006-01-02"))
		}
		if i > 0 && !s[i-1].TS.Before(b.TS) {
			return fmt.Errorf("bar %d (%s): timestamp not strictly ascending", i, b.TS.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Lows extracts the low column.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Timestamps extracts the timestamp column.
func (s PriceSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i, b := range s {
		out[i] = b.TS
	}
	return out
}

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}
