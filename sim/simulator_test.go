package sim

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = nsPerMs

// adaptiveTrace forces two re-estimations with a 1ms update period.
func adaptiveTrace() Trace {
	return NewTrace(
		IOEvent{IOTime: 2 * ms, Timestamp: 1},
		IOEvent{IOTime: 1 * ms, Timestamp: 2},
		IOEvent{IOTime: 3 * ms, Timestamp: 3},
		IOEvent{IOTime: ms / 2, Timestamp: 4},
	)
}

func TestSimulate_PeriodNeverElapses_SleepStaysZero(t *testing.T) {
	// GIVEN a tiny trace and an update period far longer than the trace
	trace := NewTrace(
		IOEvent{IOTime: 100, Timestamp: 1},
		IOEvent{IOTime: 200, Timestamp: 2},
		IOEvent{IOTime: 50, Timestamp: 3},
	)
	cfg := SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 50, UpdatePeriodMs: 1_000_000}

	// WHEN simulated
	res, err := Simulate(trace, cfg)
	require.NoError(t, err)

	// THEN the thread polls from the start: no misses, no oversleep, all time is polling
	assert.Equal(t, 0.0, res.MissRate)
	assert.Equal(t, 100.0, res.CPUUsage)
	assert.Equal(t, 0.0, res.NormalizedOverslept)
	assert.Equal(t, 100.0, res.NormalizedUnderslept)
	assert.Equal(t, 350.0/1e6, res.IOTimeMs)
	assert.Equal(t, res.IOTimeMs, res.PollingTimeMs)
	assert.Equal(t, cfg, res.Config)
}

func TestSimulate_Mean_ReestimatesFromWindowMean(t *testing.T) {
	// GIVEN a trace whose effective time crosses the 1ms period twice
	cfg := SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 50, UpdatePeriodMs: 1}

	// WHEN simulated
	res, err := Simulate(adaptiveTrace(), cfg)
	require.NoError(t, err)

	// THEN sleep goes 0 -> 1ms (mean 2ms) -> 1ms (mean of 1ms,3ms), the last I/O is a miss
	assert.Equal(t, 7.0, res.IOTimeMs)
	assert.Equal(t, 4.0, res.PollingTimeMs)
	assert.Equal(t, 25.0, res.MissRate)
	assert.Equal(t, 57.14, res.CPUUsage)
	assert.Equal(t, 61.54, res.NormalizedUnderslept)
	assert.Equal(t, 7.69, res.NormalizedOverslept)
}

func TestSimulate_Min_ReestimatesFromWindowMinimum(t *testing.T) {
	// GIVEN the same trace under the Min algorithm
	cfg := SimulationConfig{Algorithm: AlgorithmMin, SleepRatio: 50, UpdatePeriodMs: 1}

	// WHEN simulated
	res, err := Simulate(adaptiveTrace(), cfg)
	require.NoError(t, err)

	// THEN sleep goes 0 -> 1ms (min 2ms) -> 0.5ms (min 1ms) and the last I/O lands exactly on it
	assert.Equal(t, 6.5, res.IOTimeMs)
	assert.Equal(t, 4.0, res.PollingTimeMs)
	assert.Equal(t, 0.0, res.MissRate)
	assert.Equal(t, 61.54, res.CPUUsage)
	assert.Equal(t, 61.54, res.NormalizedUnderslept)
	assert.Equal(t, 0.0, res.NormalizedOverslept)
}

func TestSimulate_SleepTimeRoundsUp(t *testing.T) {
	// GIVEN an odd mean so that ratio 50 yields a half nanosecond
	trace := NewTrace(
		IOEvent{IOTime: 3*ms + 1, Timestamp: 1},
		IOEvent{IOTime: 0, Timestamp: 2},
	)
	cfg := SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 50, UpdatePeriodMs: 1}

	// WHEN simulated
	res, err := Simulate(trace, cfg)
	require.NoError(t, err)

	// THEN the second event sees a sleep of ceil(1500000.5) = 1500001ns
	assert.Equal(t, float64(3*ms+1+1_500_001)/1e6, res.IOTimeMs)
	assert.Equal(t, 50.0, res.MissRate)
}

func TestSimulate_EmptyTrace_ReturnsError(t *testing.T) {
	_, err := Simulate(nil, DefaultBaselineConfig)
	assert.ErrorIs(t, err, ErrEmptyTrace)
	assert.ErrorIs(t, err, ErrDegenerateTrace)
}

func TestSimulate_InvalidConfig_ReturnsError(t *testing.T) {
	_, err := Simulate(adaptiveTrace(), SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 0, UpdatePeriodMs: 100})
	assert.Error(t, err)
}

func TestSimulate_ZeroIOTime_RatiosAreZero(t *testing.T) {
	// GIVEN a single zero-duration event (rejected by Validate, accepted by Simulate)
	trace := NewTrace(IOEvent{IOTime: 0, Timestamp: 1})
	require.ErrorIs(t, trace.Validate(), ErrNoUsableEvents)

	// WHEN simulated directly
	res, err := Simulate(trace, DefaultBaselineConfig)
	require.NoError(t, err)

	// THEN every ratio with a zero denominator is 0, not NaN
	assert.Equal(t, 0.0, res.CPUUsage)
	assert.Equal(t, 0.0, res.MissRate)
	assert.Equal(t, 0.0, res.NormalizedUnderslept)
	assert.Equal(t, 0.0, res.NormalizedOverslept)
}

func TestSimulate_SameInputs_IdenticalResults(t *testing.T) {
	trace := syntheticTrace(5000, 7)
	for _, algo := range []Algorithm{AlgorithmMean, AlgorithmMin} {
		cfg := SimulationConfig{Algorithm: algo, SleepRatio: 65, UpdatePeriodMs: 5}
		first, err := Simulate(trace, cfg)
		require.NoError(t, err)
		second, err := Simulate(trace, cfg)
		require.NoError(t, err)
		assert.Equal(t, first, second, "algorithm %s", algo)
	}
}

func TestSimulate_Concurrent_MatchesSequential(t *testing.T) {
	// GIVEN one shared trace and many configs
	trace := syntheticTrace(2000, 3)
	var configs []SimulationConfig
	for _, algo := range []Algorithm{AlgorithmMean, AlgorithmMin} {
		for ratio := 10.0; ratio <= 100; ratio += 10 {
			configs = append(configs, SimulationConfig{Algorithm: algo, SleepRatio: ratio, UpdatePeriodMs: 2})
		}
	}
	want := make([]SimulationResult, len(configs))
	for i, cfg := range configs {
		res, err := Simulate(trace, cfg)
		require.NoError(t, err)
		want[i] = res
	}

	// WHEN the same configs run concurrently
	got := make([]SimulationResult, len(configs))
	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = Simulate(trace, cfg)
		}()
	}
	wg.Wait()

	// THEN results are identical and the trace is untouched
	assert.Equal(t, want, got)
	assert.Equal(t, syntheticTrace(2000, 3), trace)
}

func TestSimulate_RatiosWithinBounds(t *testing.T) {
	trace := syntheticTrace(3000, 11)
	for _, algo := range []Algorithm{AlgorithmMean, AlgorithmMin} {
		for ratio := 5.0; ratio <= 100; ratio += 5 {
			for _, period := range []int64{1, 10, 100} {
				cfg := SimulationConfig{Algorithm: algo, SleepRatio: ratio, UpdatePeriodMs: period}
				res, err := Simulate(trace, cfg)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.MissRate, 0.0)
				assert.LessOrEqual(t, res.MissRate, 100.0)
				assert.GreaterOrEqual(t, res.CPUUsage, 0.0)
				assert.LessOrEqual(t, res.CPUUsage, 100.0, "polling time is part of effective time (%s)", cfg)
				assert.GreaterOrEqual(t, res.NormalizedUnderslept, 0.0)
				assert.LessOrEqual(t, res.NormalizedUnderslept, 100.0)
				assert.GreaterOrEqual(t, res.NormalizedOverslept, 0.0)
				assert.LessOrEqual(t, res.PollingTimeMs, res.IOTimeMs)
			}
		}
	}
}

func TestSimulate_HigherSleepRatio_UndersleptTrendsDown(t *testing.T) {
	// GIVEN a trace and a sweep of sleep ratios toward 100
	trace := syntheticTrace(4000, 5)
	var underslept []float64
	for ratio := 10.0; ratio <= 100; ratio += 10 {
		res, err := Simulate(trace, SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: ratio, UpdatePeriodMs: 1})
		require.NoError(t, err)
		underslept = append(underslept, res.NormalizedUnderslept)
	}

	// THEN the end of the sweep undersleeps less than the start
	assert.Less(t, underslept[len(underslept)-1], underslept[0])
}

func TestSimulate_HugeUpdatePeriod_NeverElapses(t *testing.T) {
	// GIVEN a period whose nanosecond value does not fit in int64
	trace := NewTrace(
		IOEvent{IOTime: 100, Timestamp: 1},
		IOEvent{IOTime: 200, Timestamp: 2},
		IOEvent{IOTime: 50, Timestamp: 3},
	)
	for _, period := range []int64{math.MaxInt64 / 1000, math.MaxInt64} {
		cfg := SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 50, UpdatePeriodMs: period}

		// WHEN simulated
		res, err := Simulate(trace, cfg)
		require.NoError(t, err)

		// THEN the sleep never adapts, exactly as with any period longer than the trace
		assert.Equal(t, 100.0, res.CPUUsage, "period %d", period)
		assert.Equal(t, 0.0, res.MissRate, "period %d", period)
		assert.Equal(t, 0.0, res.NormalizedOverslept, "period %d", period)
	}
}

func TestUpdatePeriodNs_Saturates(t *testing.T) {
	assert.Equal(t, int64(100*nsPerMs), updatePeriodNs(100))
	assert.Equal(t, int64(math.MaxInt64/nsPerMs*nsPerMs), updatePeriodNs(math.MaxInt64/nsPerMs))
	assert.Equal(t, int64(math.MaxInt64), updatePeriodNs(math.MaxInt64/nsPerMs+1))
}
