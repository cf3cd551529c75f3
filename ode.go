package episim

import (
	"math"

	"github.com/ChristopherRabotin/ode"
)

// ContinuousRun is an ode.Integrable which propagates the deterministic SIR
// vector field with the external RK4 integrator, on the same fixed time grid
// as the stochastic kernels and producing the same Trajectory type.
// The continuous approximation can overshoot into negative counts, so the
// state is clamped when set; the discrete kernels never need this.
type ContinuousRun struct {
	cfg   Config
	state State
	steps int
	traj  Trajectory
}

// NewContinuousRun validates the configuration and readies a deterministic
// run. The Seed field is ignored, there is no randomness here.
func NewContinuousRun(cfg Config) (*ContinuousRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &ContinuousRun{cfg: cfg, state: cfg.InitialState()}
	r.traj = append(make(Trajectory, 0, cfg.NSteps+1), r.state)
	return r, nil
}

// Propagate integrates the full trajectory and returns it.
func (r *ContinuousRun) Propagate() Trajectory {
	ode.NewRK4(0, r.cfg.Dt, r).Solve() // Blocking.
	return r.traj
}

// GetState implements the ode.Integrable interface.
func (r *ContinuousRun) GetState() []float64 {
	return []float64{r.state.S, r.state.I, r.state.R}
}

// SetState implements the ode.Integrable interface.
func (r *ContinuousRun) SetState(t float64, s []float64) {
	r.steps++
	r.state = State{
		Time: float64(r.steps) * r.cfg.Dt,
		S:    math.Max(s[0], 0),
		I:    math.Max(s[1], 0),
		R:    math.Max(s[2], 0),
	}
	r.traj = append(r.traj, r.state)
}

// Stop implements the ode.Integrable interface.
func (r *ContinuousRun) Stop(t float64) bool {
	return r.steps >= r.cfg.NSteps
}

// Func implements the ode.Integrable interface with the SIR vector field:
// dS = -βcSI/N, dI = βcSI/N - γI, dR = γI.
func (r *ContinuousRun) Func(t float64, f []float64) []float64 {
	n := f[0] + f[1] + f[2]
	if n == 0 {
		// Degenerate population, nothing flows.
		return []float64{0, 0, 0}
	}
	inf := r.cfg.Beta * r.cfg.Contact * f[0] * f[1] / n
	rec := r.cfg.Gamma * f[1]
	return []float64{-inf, inf - rec, rec}
}
