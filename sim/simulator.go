// sim/simulator.go
package sim

import (
	"fmt"
	"math"
)

// replayState is the running state of one replay. It is created per
// Simulate call and never escapes it.
type replayState struct {
	sleepTime  int64 // committed sleep before the next completion check (ns)
	lastUpdate int64 // effective time at the last re-estimation

	// estimation window
	windowSum   int64
	windowCount int64
	windowMin   int64
	windowEmpty bool

	events       int64
	misses       int64
	overslept    int64
	underslept   int64
	effective    int64 // sum of max(ioTime, sleepTime)
	polling      int64
	rawTraceTime int64 // sum of ioTime
}

func newReplayState() *replayState {
	return &replayState{windowEmpty: true}
}

// observe folds one event into the running totals and the estimation window.
func (s *replayState) observe(cfg SimulationConfig, ioTime int64) {
	effective := max(ioTime, s.sleepTime)
	if ioTime < s.sleepTime {
		s.misses++
	}
	s.events++
	s.overslept += max(0, s.sleepTime-ioTime)
	// Undersleep and polling are the same quantity: time spent checking after waking.
	waited := max(0, ioTime-s.sleepTime)
	s.underslept += waited
	s.polling += waited
	s.effective += effective
	s.rawTraceTime += ioTime

	switch cfg.Algorithm {
	case AlgorithmMean:
		s.windowSum += effective
		s.windowCount++
	case AlgorithmMin:
		if s.windowEmpty || effective < s.windowMin {
			s.windowMin = effective
		}
	}
	s.windowEmpty = false
}

// maybeReestimate recomputes the sleep time once more than one update period
// of effective I/O time has elapsed since the last re-estimation.
func (s *replayState) maybeReestimate(cfg SimulationConfig) {
	if s.effective-s.lastUpdate <= updatePeriodNs(cfg.UpdatePeriodMs) {
		return
	}
	if !s.windowEmpty {
		var reference float64
		switch cfg.Algorithm {
		case AlgorithmMean:
			reference = float64(s.windowSum) / float64(s.windowCount)
		case AlgorithmMin:
			reference = float64(s.windowMin)
		}
		s.sleepTime = int64(math.Ceil(reference * cfg.SleepRatio / 100))
	}
	s.lastUpdate = s.effective
	s.windowSum, s.windowCount, s.windowMin = 0, 0, 0
	s.windowEmpty = true
}

// updatePeriodNs converts a period to nanoseconds, saturating at MaxInt64.
// A saturated period never elapses.
func updatePeriodNs(periodMs int64) int64 {
	if periodMs > math.MaxInt64/nsPerMs {
		return math.MaxInt64
	}
	return periodMs * nsPerMs
}

func (s *replayState) result(cfg SimulationConfig) SimulationResult {
	return SimulationResult{
		Config:               cfg,
		IOTimeMs:             nsToMs(s.effective),
		PollingTimeMs:        nsToMs(s.polling),
		MissRate:             percent(s.misses, s.events),
		CPUUsage:             percent(s.polling, s.effective),
		NormalizedUnderslept: percent(s.underslept, s.rawTraceTime),
		NormalizedOverslept:  percent(s.overslept, s.rawTraceTime),
	}
}

// Simulate replays trace under cfg and returns the efficiency metrics a
// polling thread using that configuration would have produced.
//
// Simulate has no side effects and may be called concurrently on the same
// Trace. Ratios whose denominator is zero are reported as 0; callers that
// need to reject such traces should call Trace.Validate first.
func Simulate(trace Trace, cfg SimulationConfig) (SimulationResult, error) {
	if len(trace) == 0 {
		return SimulationResult{}, ErrEmptyTrace
	}
	if err := cfg.Validate(); err != nil {
		return SimulationResult{}, fmt.Errorf("invalid config %s: %w", cfg, err)
	}

	s := newReplayState()
	for _, e := range trace {
		s.observe(cfg, e.IOTime)
		s.maybeReestimate(cfg)
	}
	return s.result(cfg), nil
}
