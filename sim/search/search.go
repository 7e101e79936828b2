// Package search runs a grid of polling-sleep configurations against one
// trace and picks the cheapest configuration that does not oversleep.
package search

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/pollsim/sim"
)

// DefaultOversleptThreshold bounds NormalizedOverslept (percent) for a feasible result.
const DefaultOversleptThreshold = 0.05

// Options configures a grid search.
type Options struct {
	Space              Space
	OversleptThreshold float64              // max NormalizedOverslept (%) of a feasible result
	Baseline           sim.SimulationConfig // reference config reported alongside the best
	Parallel           bool                 // dispatch on a worker pool instead of sequentially
	Workers            int                  // pool size; <= 0 means GOMAXPROCS
}

// DefaultOptions sweeps DefaultSpace in parallel.
func DefaultOptions() Options {
	return Options{
		Space:              DefaultSpace(),
		OversleptThreshold: DefaultOversleptThreshold,
		Baseline:           sim.DefaultBaselineConfig,
		Parallel:           true,
	}
}

// Validate checks the options before any simulation is started.
func (o Options) Validate() error {
	if err := o.Space.Validate(); err != nil {
		return fmt.Errorf("search space: %w", err)
	}
	if math.IsNaN(o.OversleptThreshold) || math.IsInf(o.OversleptThreshold, 0) || o.OversleptThreshold < 0 {
		return fmt.Errorf("overslept threshold must be a finite non-negative percentage, got %f", o.OversleptThreshold)
	}
	if err := o.Baseline.Validate(); err != nil {
		return fmt.Errorf("baseline config: %w", err)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Outcome is the result of a grid search.
type Outcome struct {
	Results   []sim.SimulationResult // one per config, in enumeration order
	Best      *sim.SimulationResult  // nil when no config is feasible
	Baseline  *sim.SimulationResult  // nil when the baseline config was not swept
	Threshold float64
	Elapsed   time.Duration
}

// Feasible reports whether some configuration met the overslept threshold.
func (o *Outcome) Feasible() bool { return o.Best != nil }

// HasBaseline reports whether the baseline configuration was part of the sweep.
func (o *Outcome) HasBaseline() bool { return o.Baseline != nil }

// Run validates opts and trace, simulates every configuration of the space
// and selects the best and baseline results. Validation errors abort the
// search before any simulation runs. Cancelling ctx stops configurations
// that have not started yet; Run then returns ctx's error.
func Run(ctx context.Context, trace sim.Trace, opts Options) (*Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := trace.Validate(); err != nil {
		return nil, err
	}

	configs := opts.Space.Configs()
	logrus.Infof("Searching %d configurations over %d events (parallel=%v)", len(configs), len(trace), opts.Parallel)
	start := time.Now()

	var (
		results []sim.SimulationResult
		err     error
	)
	if opts.Parallel {
		results, err = runParallel(ctx, trace, configs, opts.workers())
	} else {
		results, err = runSequential(ctx, trace, configs)
	}
	if err != nil {
		return nil, err
	}

	best, base := Select(results, opts.OversleptThreshold, opts.Baseline)
	out := &Outcome{
		Results:   results,
		Best:      best,
		Baseline:  base,
		Threshold: opts.OversleptThreshold,
		Elapsed:   time.Since(start),
	}
	if !out.Feasible() {
		logrus.Warnf("No configuration kept normalized overslept within %.2f%%", opts.OversleptThreshold)
	}
	if !out.HasBaseline() {
		logrus.Warnf("Baseline config %s was not part of the sweep", opts.Baseline)
	}
	logrus.Infof("Search finished in %s", out.Elapsed)
	return out, nil
}

func simulateOne(trace sim.Trace, cfg sim.SimulationConfig) (sim.SimulationResult, error) {
	res, err := sim.Simulate(trace, cfg)
	if err != nil {
		return res, err
	}
	logrus.Debugf("config %s: cpu=%.2f%% miss=%.2f%% overslept=%.2f%%", cfg, res.CPUUsage, res.MissRate, res.NormalizedOverslept)
	return res, nil
}

func runSequential(ctx context.Context, trace sim.Trace, configs []sim.SimulationConfig) ([]sim.SimulationResult, error) {
	results := make([]sim.SimulationResult, len(configs))
	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := simulateOne(trace, cfg)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}

// runParallel fans configs out to a bounded pool. Each task writes only its
// own slot, so results keep enumeration order regardless of completion order.
func runParallel(ctx context.Context, trace sim.Trace, configs []sim.SimulationConfig, workers int) ([]sim.SimulationResult, error) {
	results := make([]sim.SimulationResult, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range configs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := simulateOne(trace, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
