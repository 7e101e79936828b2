// Package report renders search outcomes for people and for tooling.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/search"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteText prints the best configuration, its estimated metrics and the
// baseline's metrics for comparison.
func WriteText(w io.Writer, out *search.Outcome) error {
	if !out.Feasible() {
		_, err := fmt.Fprintln(w, "Optimal Config Not Found")
		return err
	}
	best := out.Best
	ew := &errWriter{w: w}
	ew.printf("Best Config\n")
	ew.printf("Algorithm: %s\n", best.Config.Algorithm)
	ew.printf("Sleep Percentage: %s%%\n", num(best.Config.SleepRatio))
	ew.printf("Update Interval: %dms\n", best.Config.UpdatePeriodMs)
	ew.printf("\nExtra Information\n")
	writeMetrics(ew, "Estimated", best)
	if out.HasBaseline() {
		writeMetrics(ew, "Default Estimated", out.Baseline)
	} else {
		ew.printf("Default configuration was not part of the sweep\n")
	}
	return ew.err
}

// WriteResult prints the metrics of a single simulation.
func WriteResult(w io.Writer, res sim.SimulationResult) error {
	ew := &errWriter{w: w}
	ew.printf("Config: %s\n", res.Config)
	writeMetrics(ew, "Estimated", &res)
	ew.printf("Normalized Underslept: %s%%\n", num(res.NormalizedUnderslept))
	ew.printf("Normalized Overslept: %s%%\n", num(res.NormalizedOverslept))
	return ew.err
}

func writeMetrics(ew *errWriter, prefix string, r *sim.SimulationResult) {
	ew.printf("%s I/O Time: %sms\n", prefix, num(r.IOTimeMs))
	ew.printf("%s Polling Time: %sms\n", prefix, num(r.PollingTimeMs))
	ew.printf("%s Miss Rate: %s%%\n", prefix, num(r.MissRate))
	ew.printf("%s CPU Usage: %s%%\n", prefix, num(r.CPUUsage))
}

// errWriter keeps the first write error so a report is a straight sequence of prints.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
