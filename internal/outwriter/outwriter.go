// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints a full run result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.RunResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRunResult(result, cfg, duration)
}

// WriteScore prints the scoring portion of a run result using the configured output format.
func (ow *OutWriter) WriteScore(result *schema.RunResult, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResult(result, cfg, duration)
}

// WriteBudget prints a budget report using the configured output format.
func (ow *OutWriter) WriteBudget(report *schema.BudgetReport, cfg *contract.Config) error {
	return WriteBudgetReport(report, cfg)
}

// WriteRegression prints a regression report using the configured output format.
func (ow *OutWriter) WriteRegression(report *schema.RegressionReport, cfg *contract.Config) error {
	return WriteRegressionReport(report, cfg)
}

// WriteHistory prints archived run history using the configured output format.
func (ow *OutWriter) WriteHistory(entries []schema.HistoryEntry, cfg *contract.Config) error {
	return WriteHistoryEntries(entries, cfg)
}

// WriteMetrics prints metric definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return WriteMetricsDefinitions(cfg)
}
