package search

import (
	"fmt"

	"github.com/inference-sim/pollsim/sim"
)

// Space is the grid of configurations a search sweeps.
type Space struct {
	Algorithms      []sim.Algorithm `yaml:"algorithms"`
	SleepRatios     []float64       `yaml:"sleep_ratios"`
	UpdatePeriodsMs []int64         `yaml:"update_periods_ms"`
}

// DefaultSleepRatios returns 5, 10, ..., 100.
func DefaultSleepRatios() []float64 {
	ratios := make([]float64, 0, 20)
	for r := 5; r <= 100; r += 5 {
		ratios = append(ratios, float64(r))
	}
	return ratios
}

// DefaultUpdatePeriods returns the periods swept by default, in milliseconds.
// The order is kept as-is because it decides ties.
func DefaultUpdatePeriods() []int64 {
	periods := []int64{1, 5, 10, 100, 1000}
	for p := int64(20); p < 100; p += 10 {
		periods = append(periods, p)
	}
	for p := int64(200); p < 1000; p += 100 {
		periods = append(periods, p)
	}
	return periods
}

// DefaultSpace sweeps both algorithms over the default ratios and periods.
func DefaultSpace() Space {
	return Space{
		Algorithms:      []sim.Algorithm{sim.AlgorithmMean, sim.AlgorithmMin},
		SleepRatios:     DefaultSleepRatios(),
		UpdatePeriodsMs: DefaultUpdatePeriods(),
	}
}

// Size returns the number of configurations in the space.
func (s Space) Size() int {
	return len(s.Algorithms) * len(s.SleepRatios) * len(s.UpdatePeriodsMs)
}

// Configs enumerates the Cartesian product: algorithm outer, sleep ratio
// middle, update period inner. This order is the tie-break order.
func (s Space) Configs() []sim.SimulationConfig {
	configs := make([]sim.SimulationConfig, 0, s.Size())
	for _, algo := range s.Algorithms {
		for _, ratio := range s.SleepRatios {
			for _, period := range s.UpdatePeriodsMs {
				configs = append(configs, sim.SimulationConfig{
					Algorithm:      algo,
					SleepRatio:     ratio,
					UpdatePeriodMs: period,
				})
			}
		}
	}
	return configs
}

// Validate checks that every list is non-empty and every point is simulable.
func (s Space) Validate() error {
	if len(s.Algorithms) == 0 {
		return fmt.Errorf("at least one algorithm required")
	}
	if len(s.SleepRatios) == 0 {
		return fmt.Errorf("at least one sleep ratio required")
	}
	if len(s.UpdatePeriodsMs) == 0 {
		return fmt.Errorf("at least one update period required")
	}
	for _, a := range s.Algorithms {
		if !a.IsValid() {
			return fmt.Errorf("unknown algorithm %d", int(a))
		}
	}
	for i, r := range s.SleepRatios {
		probe := sim.SimulationConfig{Algorithm: sim.AlgorithmMean, SleepRatio: r, UpdatePeriodMs: 1}
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("sleep_ratios[%d]: %w", i, err)
		}
	}
	for i, p := range s.UpdatePeriodsMs {
		if p <= 0 {
			return fmt.Errorf("update_periods_ms[%d]: update period must be positive, got %dms", i, p)
		}
	}
	return nil
}
