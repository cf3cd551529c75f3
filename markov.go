package episim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

/* The discrete-time stochastic SIR kernels. */

// Parameters holds the epidemiological rates of the S->I->R flows. It is
// constructed once before a run and read-only afterwards.
type Parameters struct {
	Beta    float64 // transmission coefficient per contact
	Contact float64 // contact rate
	Gamma   float64 // per-capita recovery rate
	Dt      float64 // discrete time step
}

// Model advances a compartment state by exactly one discrete time step.
// The stochastic kernels below implement it; each owns its random source so
// independent runs never share random state.
type Model interface {
	Advance(s State) State
}

// BinomialKernel is the Markov-chain SIR step: per-step probabilities come
// from the exponential waiting times, and transition counts are binomial
// draws bounded by the compartment they drain. Conservation of S+I+R and
// non-negativity therefore hold by construction, with no post-hoc clamping.
type BinomialKernel struct {
	p   Parameters
	src rand.Source
}

// NewBinomialKernel returns a kernel owning its own deterministically seeded
// random source.
func NewBinomialKernel(p Parameters, seed uint64) *BinomialKernel {
	return &BinomialKernel{p, rand.NewSource(seed)}
}

// Advance implements the Model interface.
func (k *BinomialKernel) Advance(s State) State {
	next := State{Time: s.Time + k.p.Dt, S: s.S, I: s.I, R: s.R}
	n := s.N()
	if n == 0 {
		// Degenerate population: freeze the compartments, only advance time.
		return next
	}
	pInf := RateToProportion(k.p.Beta*k.p.Contact*s.I/n, k.p.Dt)
	pRec := RateToProportion(k.p.Gamma, k.p.Dt)
	nInf := binomial(s.S, pInf, k.src)
	nRec := binomial(s.I, pRec, k.src)
	next.S -= nInf
	next.I += nInf - nRec
	next.R += nRec
	return next
}

// PoissonKernel is the jump-process flavor of the discrete step: event
// counts are Poisson in the total event rate over the step, clamped to the
// compartment they drain. Population is still conserved exactly, but here
// the clamp is what enforces the bounds.
type PoissonKernel struct {
	p   Parameters
	src rand.Source
}

// NewPoissonKernel returns a kernel owning its own deterministically seeded
// random source.
func NewPoissonKernel(p Parameters, seed uint64) *PoissonKernel {
	return &PoissonKernel{p, rand.NewSource(seed)}
}

// Advance implements the Model interface.
func (k *PoissonKernel) Advance(s State) State {
	next := State{Time: s.Time + k.p.Dt, S: s.S, I: s.I, R: s.R}
	n := s.N()
	if n == 0 {
		return next
	}
	nInf := math.Min(poisson(k.p.Beta*k.p.Contact*s.S*s.I/n*k.p.Dt, k.src), s.S)
	nRec := math.Min(poisson(k.p.Gamma*s.I*k.p.Dt, k.src), s.I)
	next.S -= nInf
	next.I += nInf - nRec
	next.R += nRec
	return next
}

// binomial draws a binomially distributed count of events among n trials.
// The trivial cases short-circuit so distuv only ever sees n >= 1 and a
// probability strictly inside (0, 1).
func binomial(n, p float64, src rand.Source) float64 {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	return distuv.Binomial{N: n, P: p, Src: src}.Rand()
}

// poisson draws a Poisson deviate with mean λ.
func poisson(λ float64, src rand.Source) float64 {
	if λ <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: λ, Src: src}.Rand()
}
