package indicator

import "math"

// BollingerResult holds the Bollinger Band series.
type BollingerResult struct {
	Middle    []float64
	Upper     []float64
	Lower     []float64
	Bandwidth []float64 // (upper-lower)/middle * 100
}

// Bollinger computes Bollinger Bands: middle = SMA(window), bands at
// middle +/- k standard deviations. The deviation is the sample standard
// deviation (ddof=1) over the same trailing window; that convention is
// load-bearing for reproducibility against reference output.
func Bollinger(values []float64, window int, k float64) BollingerResult {
	n := len(values)
	res := BollingerResult{
		Middle:    SMA(values, window),
		Upper:     nanSlice(n),
		Lower:     nanSlice(n),
		Bandwidth: nanSlice(n),
	}
	if window <= 1 || n < window {
		return res
	}

	for i := window - 1; i < n; i++ {
		mean := res.Middle[i]
		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(window-1))

		band := k * std
		res.Upper[i] = mean + band
		res.Lower[i] = mean - band
		res.Bandwidth[i] = (res.Upper[i] - res.Lower[i]) / mean * 100
	}
	return res
}
