package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Algorithm selects how the reference time for the next sleep is derived
// from the effective times observed during an update period.
type Algorithm int

const (
	AlgorithmMean Algorithm = iota // mean of the window's effective times
	AlgorithmMin                   // minimum of the window's effective times
)

// validAlgorithms maps accepted algorithm names. The numeric codes are the
// ones written by older sweep tooling.
var validAlgorithms = map[string]Algorithm{
	"mean": AlgorithmMean,
	"min":  AlgorithmMin,
	"0":    AlgorithmMean,
	"1":    AlgorithmMin,
}

// String returns the algorithm name used in reports and config files.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmMean:
		return "mean"
	case AlgorithmMin:
		return "min"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// IsValid reports whether a is a known algorithm.
func (a Algorithm) IsValid() bool {
	return a == AlgorithmMean || a == AlgorithmMin
}

// ParseAlgorithm parses "mean", "min" (case-insensitive) or the legacy codes "0" and "1".
func ParseAlgorithm(s string) (Algorithm, error) {
	if a, ok := validAlgorithms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return AlgorithmMean, fmt.Errorf("unknown algorithm %q; valid: mean, min", s)
}

// MarshalYAML implements yaml.Marshaler.
func (a Algorithm) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Algorithm) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAlgorithm(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler so JSON output carries the name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SimulationConfig is one point of the search grid.
type SimulationConfig struct {
	Algorithm      Algorithm `yaml:"algorithm" json:"algorithm"`
	SleepRatio     float64   `yaml:"sleep_ratio" json:"sleep_ratio"`           // percent of the reference time
	UpdatePeriodMs int64     `yaml:"update_period_ms" json:"update_period_ms"` // effective I/O time between re-estimations
}

// DefaultBaselineConfig is the reference configuration reports compare against.
var DefaultBaselineConfig = SimulationConfig{Algorithm: AlgorithmMean, SleepRatio: 50, UpdatePeriodMs: 100}

// Validate checks that the configuration can be simulated.
func (c SimulationConfig) Validate() error {
	if !c.Algorithm.IsValid() {
		return fmt.Errorf("unknown algorithm %d", int(c.Algorithm))
	}
	if math.IsNaN(c.SleepRatio) || math.IsInf(c.SleepRatio, 0) {
		return fmt.Errorf("sleep ratio must be a finite number, got %f", c.SleepRatio)
	}
	if c.SleepRatio <= 0 {
		return fmt.Errorf("sleep ratio must be positive, got %g", c.SleepRatio)
	}
	if c.UpdatePeriodMs <= 0 {
		return fmt.Errorf("update period must be positive, got %dms", c.UpdatePeriodMs)
	}
	return nil
}

// String renders the config as "algorithm,ratio,period", the form ParseSimulationConfig reads.
func (c SimulationConfig) String() string {
	return fmt.Sprintf("%s,%s,%d", c.Algorithm, strconv.FormatFloat(c.SleepRatio, 'f', -1, 64), c.UpdatePeriodMs)
}

// ParseSimulationConfig parses "algorithm,sleepRatio,updatePeriodMs", e.g. "mean,50,100".
func ParseSimulationConfig(s string) (SimulationConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return SimulationConfig{}, fmt.Errorf("config %q: expected algorithm,sleep-ratio,update-period", s)
	}
	algo, err := ParseAlgorithm(parts[0])
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("config %q: %w", s, err)
	}
	ratio, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("config %q: parsing sleep ratio: %w", s, err)
	}
	period, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("config %q: parsing update period: %w", s, err)
	}
	cfg := SimulationConfig{Algorithm: algo, SleepRatio: ratio, UpdatePeriodMs: period}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, fmt.Errorf("config %q: %w", s, err)
	}
	return cfg, nil
}
