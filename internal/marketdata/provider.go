// Package marketdata fetches historical OHLCV series for symbols. The
// engine only ever sees in-memory series; everything network-shaped lives
// behind the Provider interface.
package marketdata

import (
	"context"
	"errors"

	"stockwatch/internal/model"
)

// ErrNoData is returned when a symbol is unknown or has no bars for the
// requested range. Callers must treat it as a hard input error, never as a
// valid empty series.
var ErrNoData = errors.New("marketdata: no data for symbol")

// Provider supplies a historical price series for a symbol.
// period is a provider range token (e.g. "3mo", "1y", "5y"); interval is a
// bar size token (e.g. "1d", "1wk").
type Provider interface {
	Fetch(ctx context.Context, symbol, period, interval string) (model.PriceSeries, error)
}

// Quote is a current-price snapshot used for order sizing.
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// QuoteProvider supplies the latest quote for a symbol.
type QuoteProvider interface {
	Latest(ctx context.Context, symbol string) (Quote, error)
}
