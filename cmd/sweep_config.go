package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/search"
)

// SweepFile is the YAML form of a search. Unset fields keep their defaults.
type SweepFile struct {
	LogFolder          string               `yaml:"log_folder"`
	Cores              []int                `yaml:"cores"`
	Space              search.Space         `yaml:"space"`
	OversleptThreshold float64              `yaml:"overslept_threshold"`
	Baseline           sim.SimulationConfig `yaml:"baseline"`
	Parallel           bool                 `yaml:"parallel"`
	Workers            int                  `yaml:"workers"`
}

// DefaultSweepFile mirrors the CLI defaults.
func DefaultSweepFile() SweepFile {
	opts := search.DefaultOptions()
	return SweepFile{
		LogFolder:          "scenario1",
		Cores:              []int{0},
		Space:              opts.Space,
		OversleptThreshold: opts.OversleptThreshold,
		Baseline:           opts.Baseline,
		Parallel:           opts.Parallel,
	}
}

// LoadSweepFile reads a YAML sweep file on top of DefaultSweepFile.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSweepFile(path string) (*SweepFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep file: %w", err)
	}
	sf := DefaultSweepFile()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("parsing sweep file: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("sweep file %s: %w", path, err)
	}
	return &sf, nil
}

// Options converts the file to search options.
func (sf SweepFile) Options() search.Options {
	return search.Options{
		Space:              sf.Space,
		OversleptThreshold: sf.OversleptThreshold,
		Baseline:           sf.Baseline,
		Parallel:           sf.Parallel,
		Workers:            sf.Workers,
	}
}

// Validate checks the trace location and the search options.
func (sf SweepFile) Validate() error {
	if sf.LogFolder == "" {
		return fmt.Errorf("log_folder must not be empty")
	}
	if len(sf.Cores) == 0 {
		return fmt.Errorf("at least one core required")
	}
	for i, c := range sf.Cores {
		if c < 0 {
			return fmt.Errorf("cores[%d] must be non-negative, got %d", i, c)
		}
	}
	if sf.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", sf.Workers)
	}
	return sf.Options().Validate()
}
