package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/internal/ingest"
	"github.com/tracelens/tracelens/internal/iostore"
	"github.com/tracelens/tracelens/internal/outwriter"
	"github.com/tracelens/tracelens/schema"
)

// ExecutorFunc defines the function signature for executing different analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// collectTrace loads the trace file and normalizes its records through
// the paged collector. The --test-name flag overrides the name recorded
// in the trace.
func collectTrace(ctx context.Context, cfg *contract.Config) (*schema.TraceFile, []schema.ResourceRecord, error) {
	trace, err := ingest.LoadTraceFile(cfg.TracePath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.TestName != "" {
		trace.TestName = cfg.TestName
	}

	src := ingest.NewFileSource(trace)
	records, err := ingest.CollectRecords(ctx, src, cfg.PageSize)
	if err != nil {
		return nil, nil, err
	}
	return trace, records, nil
}

// ExecuteTraceAnalyze runs the full analysis pipeline and prints all
// analyzer sections. It serves as the main entry point for the 'analyze' mode.
func ExecuteTraceAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return err
	}
	result := RunPipeline(cfg, trace, records)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg, duration)
}

// ExecuteTraceScore runs the pipeline and prints only the scoring output.
// The scored run is archived to history when a store backend is configured.
func ExecuteTraceScore(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return err
	}
	result := RunPipeline(cfg, trace, records)

	archiveRun(result)

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteScore(result, cfg, duration)
}

// ExecuteBudgetAudit runs only the budget analyzer against the
// configured limits. A run over budget exits non-zero for CI gating.
func ExecuteBudgetAudit(ctx context.Context, cfg *contract.Config) error {
	if len(cfg.Budgets) == 0 {
		return errors.New("no budgets configured. Set budgets in the config file or with --budget flags")
	}

	_, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return err
	}
	report := AuditBudget(ComputeBudgetActuals(records), cfg.Budgets)

	if err := outwriter.NewOutWriter().WriteBudget(&report, cfg); err != nil {
		return err
	}

	if report.Status == schema.OverBudget {
		fmt.Printf("%d budget violation(s) found\n", len(report.Violations))
		os.Exit(1)
	}
	return nil
}

// ExecuteBaselineStore scores the trace and stores the snapshot as the
// new baseline for its test name, replacing any prior baseline. The run
// is also archived to history.
func ExecuteBaselineStore(ctx context.Context, cfg *contract.Config) error {
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return err
	}
	result := RunPipeline(cfg, trace, records)
	snap := BuildRunSnapshot(trace.TestName, result, time.Now())

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	unlock := iostore.Manager.LockTest(trace.TestName)
	err = iostore.Manager.GetBaselineStore().Put(trace.TestName, payload, snap.Timestamp)
	unlock()
	if err != nil {
		return fmt.Errorf("failed to store baseline: %w", err)
	}

	archiveRun(result)

	fmt.Printf("Stored baseline for %s: score %.1f (%s)\n",
		trace.TestName, snap.Composite.Score, schema.GradeFor(snap.Composite.Score))
	return nil
}

// ExecuteBaselineCheck scores the trace, compares it against the stored
// baseline and replaces the baseline with the current run. The
// read-then-write runs under the per-test lock so concurrent checks of
// the same test never compare against a half-replaced baseline. A
// detected regression exits non-zero for CI gating.
func ExecuteBaselineCheck(ctx context.Context, cfg *contract.Config) error {
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return err
	}
	result := RunPipeline(cfg, trace, records)
	current := BuildRunSnapshot(trace.TestName, result, time.Now())

	report := compareAndReplaceBaseline(trace.TestName, &current)

	archiveRun(result)

	if err := outwriter.NewOutWriter().WriteRegression(&report, cfg); err != nil {
		return err
	}

	if report.IsRegression {
		os.Exit(1)
	}
	return nil
}

// compareAndReplaceBaseline performs the locked compare-then-store
// sequence. Store failures degrade the verdict instead of failing the
// run: an unreadable baseline yields an unknown verdict, and a failed
// write is reported as a warning.
func compareAndReplaceBaseline(testName string, current *schema.RunSnapshot) schema.RegressionReport {
	unlock := iostore.Manager.LockTest(testName)
	defer unlock()

	store := iostore.Manager.GetBaselineStore()

	var baseline *schema.RunSnapshot
	payload, storedAt, err := store.Get(testName)
	switch {
	case err == nil:
		var snap schema.RunSnapshot
		if jsonErr := json.Unmarshal(payload, &snap); jsonErr != nil {
			contract.LogWarn("Stored baseline is undecodable", jsonErr)
			report := CompareToBaseline(nil, current)
			report.Status = schema.UnknownRegression
			return report
		}
		snap.Timestamp = storedAt
		baseline = &snap
	case errors.Is(err, iostore.ErrNoBaseline):
		baseline = nil
	default:
		contract.LogWarn("Failed to read baseline", err)
		report := CompareToBaseline(nil, current)
		report.Status = schema.UnknownRegression
		return report
	}

	report := CompareToBaseline(baseline, current)

	newPayload, err := json.Marshal(current)
	if err != nil {
		contract.LogWarn("Failed to encode new baseline", err)
		return report
	}
	if err := store.Put(testName, newPayload, current.Timestamp); err != nil {
		contract.LogWarn("Failed to replace baseline", err)
	}
	return report
}

// ExecuteHistoryList prints the archived runs for a test name,
// newest-first. Parquet output delegates to the exporter.
func ExecuteHistoryList(_ context.Context, cfg *contract.Config) error {
	if cfg.TestName == "" {
		return errors.New("--test-name is required for history commands")
	}

	if cfg.Output == schema.ParquetOut {
		return iostore.ExecuteHistoryExport(cfg.TestName, cfg.HistoryLimit, cfg.OutputFile)
	}

	rows, err := iostore.Manager.GetHistoryStore().Query(cfg.TestName, cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}
	entries := iostore.DecodeHistoryRows(rows)
	return outwriter.NewOutWriter().WriteHistory(entries, cfg)
}

// ExecuteMetricsInfo displays the formal definitions of all vital metrics.
// This is a static display that does not require a trace file.
func ExecuteMetricsInfo(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}

// GetAnalysisResults runs the pipeline and returns the full run result
// without printing. This is the data entry point used by the MCP server.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config) (*schema.RunResult, error) {
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return RunPipeline(cfg, trace, records), nil
}

// GetRegressionResults scores the trace and compares it against the
// stored baseline without replacing it. This read-only variant backs the
// MCP server; CLI checks replace the baseline as part of the check.
func GetRegressionResults(ctx context.Context, cfg *contract.Config) (*schema.RegressionReport, error) {
	trace, records, err := collectTrace(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result := RunPipeline(cfg, trace, records)
	current := BuildRunSnapshot(trace.TestName, result, time.Now())

	var baseline *schema.RunSnapshot
	payload, storedAt, err := iostore.Manager.GetBaselineStore().Get(trace.TestName)
	switch {
	case err == nil:
		var snap schema.RunSnapshot
		if jsonErr := json.Unmarshal(payload, &snap); jsonErr == nil {
			snap.Timestamp = storedAt
			baseline = &snap
		}
	case errors.Is(err, iostore.ErrNoBaseline):
		baseline = nil
	default:
		report := CompareToBaseline(nil, &current)
		report.Status = schema.UnknownRegression
		return &report, nil
	}

	report := CompareToBaseline(baseline, &current)
	return &report, nil
}

// GetHistoryResults returns the decoded archive entries for a test name,
// newest-first.
func GetHistoryResults(testName string, limit int) ([]schema.HistoryEntry, error) {
	rows, err := iostore.Manager.GetHistoryStore().Query(testName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return iostore.DecodeHistoryRows(rows), nil
}

// archiveRun appends the scored run to the history archive. Archival is
// best-effort: a persistence failure is logged and never fails the run.
func archiveRun(result *schema.RunResult) {
	if result.Composite == nil {
		return
	}
	now := time.Now()
	snap := BuildRunSnapshot(result.TestName, result, now)
	payload, err := json.Marshal(snap)
	if err != nil {
		contract.LogWarn("Failed to encode history entry", err)
		return
	}
	if err := iostore.Manager.GetHistoryStore().Append(result.TestName, now, payload); err != nil {
		contract.LogWarn("Failed to archive run", err)
	}
}
