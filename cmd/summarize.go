package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inference-sim/pollsim/sim/report"
	"github.com/inference-sim/pollsim/sim/trace"
)

// newSummarizeCmd prints statistics of the merged trace
func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Print statistics of the merged trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := trace.LoadFolder(logFolder, cores)
			if err != nil {
				return err
			}
			// Degenerate traces are summarized too, with the reason flagged.
			return report.WriteTraceSummary(cmd.OutOrStdout(), trace.Summarize(tr), tr.Validate())
		},
	}
}
