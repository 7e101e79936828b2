package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/pollsim/sim/search"
)

// NewRegistry returns a registry holding gauges for out. Gauges of an
// absent best or baseline result are left unregistered.
func NewRegistry(out *search.Outcome) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pollsim", Name: name, Help: help})
		g.Set(v)
		reg.MustRegister(g)
	}

	gauge("configurations_total", "Number of configurations simulated", float64(len(out.Results)))
	gauge("overslept_threshold_percent", "Normalized overslept bound of a feasible configuration", out.Threshold)
	feasible := 0.0
	if out.Feasible() {
		feasible = 1
	}
	gauge("feasible", "Whether a configuration met the overslept threshold (0/1)", feasible)

	if b := out.Best; b != nil {
		labels := prometheus.Labels{
			"algorithm":        b.Config.Algorithm.String(),
			"sleep_ratio":      num(b.Config.SleepRatio),
			"update_period_ms": fmt.Sprintf("%d", b.Config.UpdatePeriodMs),
		}
		info := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pollsim", Name: "best_config_info", Help: "Best configuration", ConstLabels: labels,
		})
		info.Set(1)
		reg.MustRegister(info)
		gauge("best_cpu_usage_percent", "Estimated CPU usage of the best configuration", b.CPUUsage)
		gauge("best_miss_rate_percent", "Miss rate of the best configuration", b.MissRate)
		gauge("best_normalized_overslept_percent", "Normalized overslept of the best configuration", b.NormalizedOverslept)
	}
	if b := out.Baseline; b != nil {
		gauge("baseline_cpu_usage_percent", "Estimated CPU usage of the baseline configuration", b.CPUUsage)
		gauge("baseline_miss_rate_percent", "Miss rate of the baseline configuration", b.MissRate)
	}
	return reg
}

// WriteTextfile writes the gauges of out in the Prometheus text format, for
// node_exporter's textfile collector.
func WriteTextfile(path string, out *search.Outcome) error {
	if err := prometheus.WriteToTextfile(path, NewRegistry(out)); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
