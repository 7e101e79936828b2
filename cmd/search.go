package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/report"
	"github.com/inference-sim/pollsim/sim/search"
)

var (
	sweepFilePath      string    // YAML sweep file
	algorithmNames     []string  // Algorithms to sweep
	sleepRatios        []float64 // Sleep ratios (%) to sweep
	updatePeriods      []int64   // Update periods (ms) to sweep
	oversleptThreshold float64   // Max normalized overslept (%) of a feasible config
	baselineSpec       string    // Reference config "algorithm,ratio,period"
	sequential         bool      // Disable the worker pool
	workers            int       // Worker pool size
	outputFormat       string    // text or json
	resultsCSVPath     string    // Optional CSV of every result
	metricsTextfile    string    // Optional Prometheus textfile
)

// newSearchCmd sweeps the configuration grid and reports the best configuration
func newSearchCmd() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Find the sleep configuration with the lowest estimated CPU usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := resolveSweep(cmd)
			if err != nil {
				return err
			}
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown output format %q; valid: text, json", outputFormat)
			}

			tr, err := loadTrace(sf.LogFolder, sf.Cores)
			if err != nil {
				return err
			}
			out, err := search.Run(cmd.Context(), tr, sf.Options())
			if err != nil {
				return err
			}

			if resultsCSVPath != "" {
				if err := writeFileWith(resultsCSVPath, func(w io.Writer) error { return report.WriteCSV(w, out.Results) }); err != nil {
					return err
				}
				logrus.Infof("Wrote %d results to %s", len(out.Results), resultsCSVPath)
			}
			if metricsTextfile != "" {
				if err := report.WriteTextfile(metricsTextfile, out); err != nil {
					return err
				}
			}
			if outputFormat == "json" {
				return report.WriteJSON(cmd.OutOrStdout(), out)
			}
			return report.WriteText(cmd.OutOrStdout(), out)
		},
	}

	searchCmd.Flags().StringVar(&sweepFilePath, "config", "", "YAML sweep file; explicitly set flags override it")
	searchCmd.Flags().StringSliceVar(&algorithmNames, "algorithms", []string{"mean", "min"}, "Algorithms to sweep (mean, min)")
	searchCmd.Flags().Float64SliceVar(&sleepRatios, "sleep-ratios", search.DefaultSleepRatios(), "Sleep ratios (%) to sweep")
	searchCmd.Flags().Int64SliceVar(&updatePeriods, "update-periods", search.DefaultUpdatePeriods(), "Update periods (ms) to sweep")
	searchCmd.Flags().Float64Var(&oversleptThreshold, "overslept-threshold", search.DefaultOversleptThreshold, "Max normalized overslept (%) of a feasible configuration")
	searchCmd.Flags().StringVar(&baselineSpec, "baseline", sim.DefaultBaselineConfig.String(), "Reference configuration as algorithm,sleep-ratio,update-period")
	searchCmd.Flags().BoolVar(&sequential, "sequential", false, "Simulate configurations one at a time")
	searchCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = GOMAXPROCS)")
	searchCmd.Flags().StringVar(&outputFormat, "output", "text", "Report format (text, json)")
	searchCmd.Flags().StringVar(&resultsCSVPath, "results-csv", "", "Write every simulated configuration to this CSV file")
	searchCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus gauges for the outcome to this file")
	return searchCmd
}

// resolveSweep starts from the sweep file (or defaults) and applies every
// flag the user set explicitly.
func resolveSweep(cmd *cobra.Command) (*SweepFile, error) {
	sf := DefaultSweepFile()
	if sweepFilePath != "" {
		loaded, err := LoadSweepFile(sweepFilePath)
		if err != nil {
			return nil, err
		}
		sf = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-folder") || sweepFilePath == "" {
		sf.LogFolder = logFolder
	}
	if flags.Changed("cores") || sweepFilePath == "" {
		sf.Cores = cores
	}
	if flags.Changed("algorithms") {
		algos := make([]sim.Algorithm, 0, len(algorithmNames))
		for _, name := range algorithmNames {
			a, err := sim.ParseAlgorithm(name)
			if err != nil {
				return nil, err
			}
			algos = append(algos, a)
		}
		sf.Space.Algorithms = algos
	}
	if flags.Changed("sleep-ratios") {
		sf.Space.SleepRatios = sleepRatios
	}
	if flags.Changed("update-periods") {
		sf.Space.UpdatePeriodsMs = updatePeriods
	}
	if flags.Changed("overslept-threshold") {
		sf.OversleptThreshold = oversleptThreshold
	}
	if flags.Changed("baseline") {
		base, err := sim.ParseSimulationConfig(baselineSpec)
		if err != nil {
			return nil, fmt.Errorf("--baseline: %w", err)
		}
		sf.Baseline = base
	}
	if flags.Changed("sequential") {
		sf.Parallel = !sequential
	}
	if flags.Changed("workers") {
		sf.Workers = workers
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

func writeFileWith(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
