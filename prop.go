package episim

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

var wg sync.WaitGroup

/* Handles the discrete-time epidemic propagations. */

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid simulation configuration")

// Config fully describes one simulation run.
type Config struct {
	Beta    float64 // transmission coefficient per contact
	Contact float64 // contact rate
	Gamma   float64 // per-capita recovery rate
	Dt      float64 // discrete time step, strictly positive
	NSteps  int     // number of steps, strictly positive
	S0      float64 // initially susceptible
	I0      float64 // initially infected
	R0      float64 // initially recovered
	Seed    uint64  // seed of the kernel's random source
	// HaltOnExtinction stops the run as soon as I reaches zero instead of
	// completing all NSteps. Off by default so output shapes stay
	// predictable.
	HaltOnExtinction bool
}

// Validate rejects a configuration before any simulation work happens.
func (c Config) Validate() error {
	rates := []struct {
		name string
		val  float64
	}{{"beta", c.Beta}, {"contact", c.Contact}, {"gamma", c.Gamma}}
	for _, rate := range rates {
		if rate.val < 0 || math.IsNaN(rate.val) {
			return fmt.Errorf("%w: %s = %v, must be non-negative", ErrInvalidConfig, rate.name, rate.val)
		}
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt = %v, must be strictly positive and finite", ErrInvalidConfig, c.Dt)
	}
	if c.NSteps <= 0 {
		return fmt.Errorf("%w: nsteps = %d, must be strictly positive", ErrInvalidConfig, c.NSteps)
	}
	if c.S0 < 0 || c.I0 < 0 || c.R0 < 0 {
		return fmt.Errorf("%w: initial counts (%v, %v, %v) must be non-negative", ErrInvalidConfig, c.S0, c.I0, c.R0)
	}
	return nil
}

// Parameters returns the rate parameters of this configuration.
func (c Config) Parameters() Parameters {
	return Parameters{Beta: c.Beta, Contact: c.Contact, Gamma: c.Gamma, Dt: c.Dt}
}

// InitialState returns the t=0 state of this configuration.
func (c Config) InitialState() State {
	return State{S: c.S0, I: c.I0, R: c.R0}
}

// Simulation drives one kernel over a full trajectory and does the exporting.
type Simulation struct {
	Kernel   Model
	State    State // current state, updated during propagation
	cfg      Config
	stopChan chan (bool)
	histChan chan<- (State)
	logger   kitlog.Logger
	done     bool
}

// NewSimulation validates the configuration and readies a run of the
// binomial Markov kernel. If the export configuration is not useless, every
// state is streamed to the exporter as it is produced.
func NewSimulation(cfg Config, conf ExportConfig) (*Simulation, error) {
	return newSimulation(cfg, nil, conf)
}

// NewSimulationWithModel is NewSimulation with a caller-provided kernel,
// e.g. the Poisson jump flavor.
func NewSimulationWithModel(cfg Config, kernel Model, conf ExportConfig) (*Simulation, error) {
	return newSimulation(cfg, kernel, conf)
}

func newSimulation(cfg Config, kernel Model, conf ExportConfig) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if kernel == nil {
		kernel = NewBinomialKernel(cfg.Parameters(), cfg.Seed)
	}
	// If no export is requested, then no output will be written.
	var histChan chan (State)
	if !conf.IsUseless() {
		histChan = make(chan (State), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, histChan)
		}()
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	klog = kitlog.With(klog, "subsys", "episim")
	a := &Simulation{kernel, cfg.InitialState(), cfg, make(chan (bool), 1), histChan, klog, false}
	// Write the first data point.
	if histChan != nil {
		histChan <- a.State
	}
	return a, nil
}

// LogStatus logs the status of the propagation.
func (a *Simulation) LogStatus() {
	a.logger.Log("level", "info", "t", a.State.Time, "S", a.State.S, "I", a.State.I, "R", a.State.R)
}

// Propagate runs all the steps and returns the trajectory. The trajectory
// has exactly NSteps+1 states unless HaltOnExtinction is set or
// StopPropagation is called, both of which end it early.
func (a *Simulation) Propagate() Trajectory {
	// Add a ticker status report for long runs.
	a.LogStatus()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			if a.done {
				break
			}
			a.LogStatus()
		}
	}()
	traj := make(Trajectory, 0, a.cfg.NSteps+1)
	traj = append(traj, a.State)
	for k := 0; k < a.cfg.NSteps; k++ {
		select {
		case <-a.stopChan:
			a.logger.Log("level", "warning", "status", "stopped", "step", k)
			return a.finish(traj)
		default:
		}
		a.State = a.Kernel.Advance(a.State)
		traj = append(traj, a.State)
		if a.histChan != nil {
			a.histChan <- a.State
		}
		if a.cfg.HaltOnExtinction && a.State.I == 0 {
			a.logger.Log("level", "notice", "status", "extinct", "t", a.State.Time)
			return a.finish(traj)
		}
	}
	return a.finish(traj)
}

func (a *Simulation) finish(traj Trajectory) Trajectory {
	a.done = true
	if a.histChan != nil {
		close(a.histChan)
	}
	a.logger.Log("level", "notice", "status", "finished", "steps", len(traj)-1, "peakI", traj.PeakInfected(), "finalSize", traj.FinalSize())
	wg.Wait() // Don't return until we're done writing all the files.
	return traj
}

// StopPropagation is used to stop the propagation before it is completed.
func (a *Simulation) StopPropagation() {
	a.stopChan <- true
}
