package trace

import "github.com/inference-sim/pollsim/sim"

// Summary aggregates statistics of a trace.
type Summary struct {
	Events         int
	ZeroIOEvents   int   // events with ioTime == 0
	TotalIOTimeNs  int64 // sum of ioTime
	MinIOTimeNs    int64
	MaxIOTimeNs    int64
	MeanIOTimeNs   float64
	FirstTimestamp int64
	LastTimestamp  int64
}

// Summarize computes aggregate statistics of t.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t sim.Trace) Summary {
	var s Summary
	if len(t) == 0 {
		return s
	}
	s.Events = len(t)
	s.MinIOTimeNs = t[0].IOTime
	s.FirstTimestamp = t[0].Timestamp
	s.LastTimestamp = t[len(t)-1].Timestamp
	for _, e := range t {
		s.TotalIOTimeNs += e.IOTime
		s.MinIOTimeNs = min(s.MinIOTimeNs, e.IOTime)
		s.MaxIOTimeNs = max(s.MaxIOTimeNs, e.IOTime)
		if e.IOTime == 0 {
			s.ZeroIOEvents++
		}
	}
	s.MeanIOTimeNs = float64(s.TotalIOTimeNs) / float64(s.Events)
	return s
}
