package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/search"
)

// Summary is the JSON form of a search outcome.
type Summary struct {
	Feasible           bool                  `json:"feasible"`
	OversleptThreshold float64               `json:"overslept_threshold"`
	Configurations     int                   `json:"configurations"`
	ElapsedMs          int64                 `json:"elapsed_ms"`
	Best               *sim.SimulationResult `json:"best"`
	Baseline           *sim.SimulationResult `json:"baseline"`
}

// NewSummary builds the JSON summary of out.
func NewSummary(out *search.Outcome) Summary {
	return Summary{
		Feasible:           out.Feasible(),
		OversleptThreshold: out.Threshold,
		Configurations:     len(out.Results),
		ElapsedMs:          out.Elapsed.Milliseconds(),
		Best:               out.Best,
		Baseline:           out.Baseline,
	}
}

// WriteJSON writes the indented JSON summary of out.
func WriteJSON(w io.Writer, out *search.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSummary(out)); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

var resultColumns = []string{
	"algorithm", "sleep_ratio", "update_period_ms",
	"io_time_ms", "polling_time_ms", "miss_rate", "cpu_usage",
	"normalized_underslept", "normalized_overslept",
}

// WriteCSV writes one row per result, in the order given.
func WriteCSV(w io.Writer, results []sim.SimulationResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range results {
		row := []string{
			r.Config.Algorithm.String(),
			num(r.Config.SleepRatio),
			strconv.FormatInt(r.Config.UpdatePeriodMs, 10),
			num(r.IOTimeMs),
			num(r.PollingTimeMs),
			num(r.MissRate),
			num(r.CPUUsage),
			num(r.NormalizedUnderslept),
			num(r.NormalizedOverslept),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
