package episim

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRateToProportion(t *testing.T) {
	if got := RateToProportion(0.25, 0.1); !scalar.EqualWithinAbs(got, 1-math.Exp(-0.025), 1e-14) {
		t.Fatalf("RateToProportion(0.25, 0.1) = %v", got)
	}
	for _, dt := range []float64{0, 0.1, 1, 1e6} {
		if got := RateToProportion(0, dt); got != 0 {
			t.Fatalf("zero rate must yield 0, got %v (dt=%v)", got, dt)
		}
	}
	if got := RateToProportion(math.Inf(1), 0.1); got != 1 {
		t.Fatalf("infinite rate must yield 1, got %v", got)
	}
	if got := RateToProportion(math.NaN(), 0.1); got != 0 {
		t.Fatalf("NaN rate must yield 0, got %v", got)
	}
	if got := RateToProportion(-3, 0.1); got != 0 {
		t.Fatalf("negative rate must yield 0, got %v", got)
	}
	if got := RateToProportion(0.5, math.Inf(1)); got != 1 {
		t.Fatalf("infinite dt must yield 1, got %v", got)
	}
}

func TestRateToProportionBounds(t *testing.T) {
	for rate := 0.0; rate < 100; rate += 0.5 {
		for dt := 0.0; dt < 10; dt += 0.25 {
			if p := RateToProportion(rate, dt); p < 0 || p > 1 {
				t.Fatalf("RateToProportion(%v, %v) = %v out of [0,1]", rate, dt, p)
			}
		}
	}
	// Monotonically non-decreasing in the rate, approaching 1.
	prev := 0.0
	for rate := 0.0; rate < 1e3; rate += 1 {
		p := RateToProportion(rate, 0.1)
		if p < prev {
			t.Fatalf("not monotonic at rate %v: %v < %v", rate, p, prev)
		}
		prev = p
	}
	if !scalar.EqualWithinAbs(RateToProportion(1e9, 0.1), 1, 1e-12) {
		t.Fatal("large rates must approach 1")
	}
}
