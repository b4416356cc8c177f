package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
)

// metricsCmd displays the vital metric definitions.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the vital metric definitions, weights and thresholds.",
	Long: `Display the formal definitions of the six vital metrics, the active
composite weights, the good/needs_improvement thresholds and the
supported budget keys.

This is a static display that does not require a trace file. Weights
and thresholds reflect any overrides from the config file.

Examples:
  # Show the definitions
  tracelens metrics

  # Machine-readable definitions
  tracelens metrics --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetricsInfo(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot show metric definitions", err)
		}
	},
}
