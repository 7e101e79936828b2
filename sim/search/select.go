package search

import "github.com/inference-sim/pollsim/sim"

// Select reduces results, given in enumeration order, to the best feasible
// result and the baseline result.
//
// A result is feasible when its NormalizedOverslept is at most threshold.
// The best is the feasible result with the lowest CPUUsage; a later result
// must be strictly better to replace an earlier one. The baseline is the
// first result whose config equals baseline. Either return may be nil.
func Select(results []sim.SimulationResult, threshold float64, baseline sim.SimulationConfig) (best, base *sim.SimulationResult) {
	for i := range results {
		r := &results[i]
		if r.NormalizedOverslept <= threshold && (best == nil || r.CPUUsage < best.CPUUsage) {
			best = r
		}
		if base == nil && r.Config == baseline {
			base = r
		}
	}
	return best, base
}
