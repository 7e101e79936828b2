// sim/metrics.go
package sim

import "strconv"

const nsPerMs = 1_000_000

// SimulationResult holds the metrics of one replay. Percentages are rounded
// to two decimals; the millisecond totals are not rounded.
type SimulationResult struct {
	Config               SimulationConfig `json:"config"`
	IOTimeMs             float64          `json:"io_time_ms"`            // cumulative effective I/O time
	PollingTimeMs        float64          `json:"polling_time_ms"`       // cumulative time spent polling
	MissRate             float64          `json:"miss_rate"`             // % of I/Os finished before the sleep ended
	CPUUsage             float64          `json:"cpu_usage"`             // % of effective time spent polling
	NormalizedUnderslept float64          `json:"normalized_underslept"` // % of raw trace time
	NormalizedOverslept  float64          `json:"normalized_overslept"`  // % of raw trace time
}

// percent returns num/den*100 rounded to two decimals, or 0 when den is 0.
func percent(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return roundTo2(float64(num) / float64(den) * 100)
}

// roundTo2 rounds v to the nearest two-decimal value, exact ties to even.
// Formatting rounds the exact binary value, so 1.115 (stored just below
// 1.115) becomes 1.11 rather than the 1.12 that scaling by 100 gives.
func roundTo2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

func nsToMs(ns int64) float64 {
	return float64(ns) / nsPerMs
}
