package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
)

// analyzeCmd performs the full trace analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <trace-file>",
	Short: "Show the full performance breakdown of a recorded page load.",
	Long: `Run every analyzer over a recorded page-load trace.

Produces:
- A chronological waterfall timeline of all resource fetches
- The critical rendering path with its optimization potential
- Render-blocking resources scored by impact
- Per-phase network statistics (dns, connect, ssl, send, wait, receive)
- Detected bottlenecks with remediation hints
- Vital metric scores and the weighted composite score

Examples:
  # Analyze a trace with default settings
  tracelens analyze capture.json

  # Include per-resource metadata and classification reasons
  tracelens analyze capture.json --detail --explain

  # Export the waterfall to CSV for tracking
  tracelens analyze capture.json --output csv --output-file waterfall.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTraceAnalyze(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run trace analysis", err)
		}
	},
}
