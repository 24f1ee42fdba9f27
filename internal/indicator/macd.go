package indicator

// MACDResult holds the three MACD series: the MACD line, its signal line,
// and the histogram (line minus signal).
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes Moving Average Convergence Divergence:
// line = EMA(fast) - EMA(slow), signal = EMA(signal) of the line,
// histogram = line - signal. With the seeded EMA convention all rows are
// defined as soon as the input has any data.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	line := make([]float64, len(values))
	for i := range values {
		line[i] = emaFast[i] - emaSlow[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - sig[i]
	}

	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}
