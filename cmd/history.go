package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/internal/iostore"
)

// historyCmd groups the run archive commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived scoring runs",
	Long: `Inspect the append-only archive of scored runs per test name.

Every scored run (score, baseline store, baseline check) is archived
with a unique timestamp. The archive is never overwritten, so it forms
the long-term performance record of each test.

Subcommands:
  list   - Show archived runs, newest first
  export - Export archived runs to Parquet files

Examples:
  # Show the last 20 runs of a test
  tracelens history list --test-name checkout-flow

  # Export the archive for offline analysis
  tracelens history export --test-name checkout-flow --output-file checkout`,
}

// historyListCmd lists archived runs for a test name.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show archived runs for a test name, newest first",
	Long: `List the archived scoring runs of a test name, newest first.

Examples:
  # Last 20 runs (default)
  tracelens history list --test-name checkout-flow

  # Last 100 runs with per-metric values
  tracelens history list --test-name checkout-flow --history-limit 100 --detail

  # CSV for spreadsheets
  tracelens history list --test-name checkout-flow --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list history", err)
		}
	},
}

// historyExportCmd exports archived runs to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived runs to Parquet files",
	Long: `Export the archived runs of a test name to Parquet files for
analysis with Spark, Pandas, DuckDB or any Parquet-compatible tool.

Two files are written: <output-file>.runs.parquet with one row per run,
and <output-file>.vitals.parquet with one row per vital measurement.

Examples:
  # Export the last 100 runs
  tracelens history export --test-name checkout-flow --history-limit 100 --output-file checkout`,
	PreRunE: baselineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		testName := viper.GetString("test-name")
		limit := viper.GetInt("history-limit")
		outputFile := viper.GetString("output-file")

		if err := iostore.ExecuteHistoryExport(testName, limit, outputFile); err != nil {
			contract.LogFatal("Cannot export history", err)
		}
	},
}
