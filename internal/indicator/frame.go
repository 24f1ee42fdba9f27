package indicator

import (
	"math"
	"time"

	"stockwatch/internal/model"
)

// Standard column names for indicator-annotated series.
const (
	ColClose         = "Close"
	ColSMA5          = "SMA_5"
	ColSMA25         = "SMA_25"
	ColSMA75         = "SMA_75"
	ColSMA200        = "SMA_200"
	ColRSI           = "RSI"
	ColMACD          = "MACD"
	ColMACDSignal    = "MACD_Signal"
	ColMACDHistogram = "MACD_Histogram"
	ColBBMiddle      = "BB_Middle"
	ColBBUpper       = "BB_Upper"
	ColBBLower       = "BB_Lower"
	ColBBBandwidth   = "BB_Bandwidth"
)

// Default parameters for the standard indicator set.
const (
	RSIWindow       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignalSpan  = 9
	BollingerWindow = 20
	BollingerK      = 2.0
)

// Frame is a price series annotated column-wise with derived indicator
// series aligned 1:1 by row. Values at row i depend only on rows <= i.
type Frame struct {
	Bars    model.PriceSeries
	columns map[string][]float64
}

// NewFrame computes the full standard indicator set over the series:
// SMA 5/25/75/200, RSI(14), MACD(12/26/9), and Bollinger Bands(20, 2.0).
func NewFrame(series model.PriceSeries) *Frame {
	closes := series.Closes()

	f := &Frame{
		Bars:    series,
		columns: make(map[string][]float64, 13),
	}
	f.columns[ColClose] = closes
	f.columns[ColSMA5] = SMA(closes, 5)
	f.columns[ColSMA25] = SMA(closes, 25)
	f.columns[ColSMA75] = SMA(closes, 75)
	f.columns[ColSMA200] = SMA(closes, 200)
	f.columns[ColRSI] = RSI(closes, RSIWindow)

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignalSpan)
	f.columns[ColMACD] = macd.Line
	f.columns[ColMACDSignal] = macd.Signal
	f.columns[ColMACDHistogram] = macd.Histogram

	bb := Bollinger(closes, BollingerWindow, BollingerK)
	f.columns[ColBBMiddle] = bb.Middle
	f.columns[ColBBUpper] = bb.Upper
	f.columns[ColBBLower] = bb.Lower
	f.columns[ColBBBandwidth] = bb.Bandwidth

	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Bars) }

// Column returns the named series and whether it exists.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.columns[name]
	return col, ok
}

// Value returns the value of the named column at row i, or NaN if the
// column does not exist.
func (f *Frame) Value(name string, i int) float64 {
	col, ok := f.columns[name]
	if !ok {
		return math.NaN()
	}
	return col[i]
}

// TS returns the timestamp of row i.
func (f *Frame) TS(i int) time.Time { return f.Bars[i].TS }

// Close returns the close price of row i.
func (f *Frame) Close(i int) float64 { return f.Bars[i].Close }

// Tail returns a view of the frame restricted to the trailing n rows.
// The underlying slices are shared, not copied.
func (f *Frame) Tail(n int) *Frame {
	if n >= f.Len() {
		return f
	}
	start := f.Len() - n
	cols := make(map[string][]float64, len(f.columns))
	for name, col := range f.columns {
		cols[name] = col[start:]
	}
	return &Frame{Bars: f.Bars[start:], columns: cols}
}
