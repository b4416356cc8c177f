package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
)

// budgetCmd audits a trace against configured performance budgets.
var budgetCmd = &cobra.Command{
	Use:   "budget <trace-file>",
	Short: "Audit a recorded page load against performance budgets.",
	Long: `Compare the aggregate metrics of a recorded page load against
configured limits and report every violation with its overshoot.

Budget keys: total_requests, total_size_kb, script_size_kb,
image_size_kb, css_size_kb. Absent keys are unlimited.

Budgets are configured in the config file:

  budgets:
    total_requests: 50
    total_size_kb: 2048
    script_size_kb: 512

Exits non-zero when any budget is exceeded, for CI/CD gating.

Examples:
  # Audit against the configured budgets
  tracelens budget capture.json

  # Machine-readable violations for CI annotations
  tracelens budget capture.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBudgetAudit(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run budget audit", err)
		}
	},
}
