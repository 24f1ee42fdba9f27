package indicator

// RSI computes the Relative Strength Index using a trailing simple mean of
// gains and losses over the window (not Wilder smoothing). The first
// `window` values are NaN: one row is consumed by the delta, window-1 more
// by the rolling mean.
//
// When the average loss over the window is exactly zero, RS is infinite and
// RSI saturates to 100. The division is guarded explicitly.
func RSI(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	// Rolling sums over the trailing window of deltas. Deltas start at
	// index 1, so the first full window completes at index `window`.
	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > window {
			gainSum -= gains[i-window]
			lossSum -= losses[i-window]
		}
		if i < window {
			continue
		}

		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)
		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
