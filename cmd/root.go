package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/trace"
)

var (
	logLevel  string // Log verbosity level
	logFolder string // Directory holding simulator_log_<core>.csv files
	cores     []int  // Cores whose logs are merged into the trace
)

// newRootCmd builds the base command for the CLI and binds its flags
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pollsim",
		Short:         "Trace-driven evaluation of adaptive polling sleep strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFolder, "log-folder", "scenario1", "Directory containing simulator_log_<core>.csv trace files")
	rootCmd.PersistentFlags().IntSliceVar(&cores, "cores", []int{0}, "Comma-separated list of cores whose trace logs are merged")

	rootCmd.AddCommand(newSearchCmd(), newSimulateCmd(), newSummarizeCmd(), newMergeCmd())
	return rootCmd
}

// loadTrace merges the configured core logs and rejects degenerate traces.
func loadTrace(dir string, cores []int) (sim.Trace, error) {
	tr, err := trace.LoadFolder(dir, cores)
	if err != nil {
		return nil, err
	}
	if err := tr.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	logrus.Infof("Loaded %d events from %d core log(s) in %s", len(tr), len(cores), dir)
	return tr, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
