package indicator

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(window+1). The series is seeded with the first input value
// directly (no bias correction), so every output row is defined:
//
//	EMA[0] = x[0]
//	EMA[i] = alpha*x[i] + (1-alpha)*EMA[i-1]
func EMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(window+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
