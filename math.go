package episim

import "math"

// RateToProportion converts an instantaneous per-capita rate into the
// probability that the corresponding exponential-waiting-time event happens
// within a time step of length dt: p = 1 - exp(-rate*dt).
// The function is total: a zero, negative or NaN rate yields 0, an infinite
// rate yields 1, and the result is always clamped into [0, 1].
func RateToProportion(rate, dt float64) float64 {
	if rate == 0 || rate < 0 || math.IsNaN(rate) || dt <= 0 || math.IsNaN(dt) {
		return 0
	}
	if math.IsInf(rate, +1) || math.IsInf(dt, +1) {
		return 1
	}
	return clamp01(1 - math.Exp(-rate*dt))
}

// clamp01 guards against floating point rounding pushing a probability
// outside of [0, 1].
func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
