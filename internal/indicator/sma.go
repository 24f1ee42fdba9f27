// Package indicator provides technical indicator calculations over price series.
//
// All functions are pure: they never mutate their input, always return
// slices of the same length as their input, and mark rows where a rolling
// window has not yet filled with math.NaN(). A series shorter than the
// window yields an all-NaN result rather than an error.
package indicator

import "math"

// SMA computes the simple moving average over a trailing window.
// The first window-1 values are NaN.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// nanSlice returns a slice of n NaN values.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
