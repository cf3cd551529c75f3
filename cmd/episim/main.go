package main

import (
	"flag"
	"log"
	"strings"

	"github.com/epistack/episim"
	"github.com/spf13/viper"
)

// This code effectively only reads the scenario file and propagates the epidemic.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "simulation scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	// Read simulation parameters
	cfg := episim.Config{
		Beta:             viper.GetFloat64("rates.beta"),
		Contact:          viper.GetFloat64("rates.contact"),
		Gamma:            viper.GetFloat64("rates.gamma"),
		Dt:               viper.GetFloat64("sim.dt"),
		NSteps:           viper.GetInt("sim.steps"),
		S0:               viper.GetFloat64("population.susceptible"),
		I0:               viper.GetFloat64("population.infected"),
		R0:               viper.GetFloat64("population.recovered"),
		Seed:             uint64(viper.GetInt64("sim.seed")),
		HaltOnExtinction: viper.GetBool("sim.haltOnExtinction"),
	}
	if verbose {
		log.Printf("[conf] %+v\n", cfg)
	}

	export := episim.ExportConfig{
		Filename:  viper.GetString("export.filename"),
		AsCSV:     viper.GetBool("export.csv"),
		Timestamp: viper.GetBool("export.timestamp"),
	}

	// An ensemble scenario runs many trajectories and only reports stats.
	if runs := viper.GetInt("ensemble.runs"); runs > 0 {
		eCfg := episim.EnsembleConfig{Config: cfg, Runs: runs, Workers: viper.GetInt("ensemble.workers")}
		summary, err := episim.RunEnsemble(eCfg)
		if err != nil {
			log.Fatalf("ensemble: %s", err)
		}
		log.Printf("%d runs: final size %.1f±%.1f, median peak %.1f", summary.Runs, summary.MeanFinalSize, summary.StdFinalSize, summary.MedianPeak)
		return
	}

	flavor := viper.GetString("sim.flavor")
	switch flavor {
	case "ode":
		run, err := episim.NewContinuousRun(cfg)
		if err != nil {
			log.Fatalf("scenario: %s", err)
		}
		traj := run.Propagate()
		log.Printf("deterministic run: %d states, peak I %.1f, final size %.1f", len(traj), traj.PeakInfected(), traj.FinalSize())
	case "jump":
		kernel := episim.NewPoissonKernel(cfg.Parameters(), cfg.Seed)
		sim, err := episim.NewSimulationWithModel(cfg, kernel, export)
		if err != nil {
			log.Fatalf("scenario: %s", err)
		}
		traj := sim.Propagate()
		log.Printf("jump run: %d states, peak I %.1f, final size %.1f", len(traj), traj.PeakInfected(), traj.FinalSize())
	case "", "markov":
		sim, err := episim.NewSimulation(cfg, export)
		if err != nil {
			log.Fatalf("scenario: %s", err)
		}
		traj := sim.Propagate()
		log.Printf("markov run: %d states, peak I %.1f, final size %.1f", len(traj), traj.PeakInfected(), traj.FinalSize())
	default:
		log.Fatalf("unknown flavor `%s`", flavor)
	}
}
