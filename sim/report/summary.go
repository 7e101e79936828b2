package report

import (
	"io"

	"github.com/inference-sim/pollsim/sim/trace"
)

// WriteTraceSummary prints trace statistics. A non-nil problem (typically
// the trace's validation error) is printed as a warning line.
func WriteTraceSummary(w io.Writer, s trace.Summary, problem error) error {
	ew := &errWriter{w: w}
	ew.printf("=== Trace Summary ===\n")
	ew.printf("Events              : %d\n", s.Events)
	ew.printf("Zero I/O Events     : %d\n", s.ZeroIOEvents)
	ew.printf("Total I/O Time      : %.3fms\n", float64(s.TotalIOTimeNs)/1e6)
	ew.printf("Min / Mean / Max I/O: %dns / %.2fns / %dns\n", s.MinIOTimeNs, s.MeanIOTimeNs, s.MaxIOTimeNs)
	ew.printf("Timestamps          : %d .. %d\n", s.FirstTimestamp, s.LastTimestamp)
	if problem != nil {
		ew.printf("Warning             : %v\n", problem)
	}
	return ew.err
}
