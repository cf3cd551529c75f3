package episim

import "gonum.org/v1/gonum/floats"

// State stores the compartment counts at a given simulation time.
// The discrete kernels only ever produce whole-valued counts; the counts are
// stored as float64 so the continuous flavor shares the same trajectory type.
type State struct {
	Time    float64
	S, I, R float64
}

// N returns the total population of this state.
func (s State) N() float64 {
	return s.S + s.I + s.R
}

// Trajectory is the time-ordered sequence of states produced by one run,
// starting at t=0 with the initial state. It is append-only during the run
// and owned by the caller afterwards.
type Trajectory []State

// Final returns the last state of the trajectory.
func (t Trajectory) Final() State {
	if len(t) == 0 {
		return State{}
	}
	return t[len(t)-1]
}

// Infected returns the infected counts of each state, e.g. for stats.
func (t Trajectory) Infected() []float64 {
	inf := make([]float64, len(t))
	for k, s := range t {
		inf[k] = s.I
	}
	return inf
}

// PeakInfected returns the largest infected count along the trajectory.
func (t Trajectory) PeakInfected() float64 {
	if len(t) == 0 {
		return 0
	}
	return floats.Max(t.Infected())
}

// FinalSize returns the cumulative number of individuals ever infected,
// which in a closed population is the recovered count at the end of the run.
func (t Trajectory) FinalSize() float64 {
	return t.Final().R
}
