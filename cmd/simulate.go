package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inference-sim/pollsim/sim"
	"github.com/inference-sim/pollsim/sim/report"
)

var (
	simAlgorithm    string  // Algorithm of the single configuration
	simSleepRatio   float64 // Sleep ratio (%)
	simUpdatePeriod int64   // Update period (ms)
)

// newSimulateCmd replays the trace under a single configuration
func newSimulateCmd() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay the trace under one sleep configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := sim.ParseAlgorithm(simAlgorithm)
			if err != nil {
				return err
			}
			cfg := sim.SimulationConfig{Algorithm: algo, SleepRatio: simSleepRatio, UpdatePeriodMs: simUpdatePeriod}
			if err := cfg.Validate(); err != nil {
				return err
			}
			tr, err := loadTrace(logFolder, cores)
			if err != nil {
				return err
			}
			res, err := sim.Simulate(tr, cfg)
			if err != nil {
				return err
			}
			return report.WriteResult(cmd.OutOrStdout(), res)
		},
	}

	simulateCmd.Flags().StringVar(&simAlgorithm, "algorithm", "mean", "Algorithm (mean, min)")
	simulateCmd.Flags().Float64Var(&simSleepRatio, "sleep-ratio", 50, "Sleep ratio (%)")
	simulateCmd.Flags().Int64Var(&simUpdatePeriod, "update-period", 100, "Update period (ms)")
	return simulateCmd
}
