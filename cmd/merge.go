package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/pollsim/sim/trace"
)

var mergeOutPath string // Destination of the merged log

// newMergeCmd writes the merged, timestamp-ordered trace as a single core log
func newMergeCmd() *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge per-core trace logs into one timestamp-ordered log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mergeOutPath == "" {
				return fmt.Errorf("--out is required")
			}
			tr, err := trace.LoadFolder(logFolder, cores)
			if err != nil {
				return err
			}
			if err := trace.SaveCoreLog(mergeOutPath, tr); err != nil {
				return err
			}
			logrus.Infof("Merged %d events into %s", len(tr), mergeOutPath)
			return nil
		},
	}

	mergeCmd.Flags().StringVar(&mergeOutPath, "out", "", "Path of the merged log")
	return mergeCmd
}
