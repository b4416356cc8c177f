package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
)

// scoreCmd computes the composite score of a trace.
var scoreCmd = &cobra.Command{
	Use:   "score <trace-file>",
	Short: "Score a recorded page load against the vital thresholds.",
	Long: `Score each vital metric of a recorded page load and combine them
into a weighted 0-100 composite score with a grade.

Each metric is banded good / needs_improvement / poor against its
thresholds, scored 0-100, and weighted into the composite. Insights
recorded in the trace deduct from the final score by severity.

Weights and thresholds can be overridden in the config file:

  weights:
    lcp: 0.3
    tbt: 0.15
  thresholds:
    lcp:
      good: 2000

The scored run is archived to history when a store backend is configured.

Examples:
  # Score a trace
  tracelens score capture.json

  # Show thresholds and weighted contributions
  tracelens score capture.json --detail --explain

  # Machine-readable output for dashboards
  tracelens score capture.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTraceScore(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run trace scoring", err)
		}
	},
}
