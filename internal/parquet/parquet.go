// Package parquet provides data structures and functions for exporting
// archived run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/tracelens/tracelens/schema"
)

// HistoryRun represents one archived scoring run.
// This struct maps to the tracelens_history database table.
type HistoryRun struct {
	// TestName identifies the logical test the run belongs to
	TestName string `parquet:"test_name,snappy"`

	// RunAt is when the run was archived (stored as TIMESTAMP with nanosecond precision)
	RunAt time.Time `parquet:"run_at,snappy"`

	// URL is the page under test
	URL string `parquet:"url,snappy"`

	// CompositeScore is the final weighted 0-100 score
	CompositeScore float64 `parquet:"composite_score,snappy"`

	// Grade is the grade band of the composite score
	Grade string `parquet:"grade,snappy"`

	// Verdict is the human-readable summary of the composite score
	Verdict string `parquet:"verdict,snappy"`
}

// VitalRow represents one vital metric measurement of an archived run.
type VitalRow struct {
	// TestName identifies the logical test the run belongs to
	TestName string `parquet:"test_name,snappy"`

	// RunAt is when the run was archived (stored as TIMESTAMP with nanosecond precision)
	RunAt time.Time `parquet:"run_at,snappy"`

	// Metric is the vital metric name (LCP, FID, CLS, FCP, TTI, TBT)
	Metric string `parquet:"metric,snappy"`

	// Value is the measured value in the metric's native unit
	Value float64 `parquet:"value,snappy"`

	// Status is the threshold band the value falls into
	Status string `parquet:"status,snappy"`

	// Score is the 0-100 per-metric score
	Score float64 `parquet:"score,snappy"`
}

// ConvertHistoryEntries flattens archived snapshots into HistoryRun rows.
func ConvertHistoryEntries(entries []schema.HistoryEntry) []HistoryRun {
	runs := make([]HistoryRun, 0, len(entries))
	for _, e := range entries {
		runs = append(runs, HistoryRun{
			TestName:       e.Snapshot.TestName,
			RunAt:          e.RunAt,
			URL:            e.Snapshot.URL,
			CompositeScore: e.Snapshot.Composite.Score,
			Grade:          schema.GradeFor(e.Snapshot.Composite.Score),
			Verdict:        e.Snapshot.Composite.Verdict,
		})
	}
	return runs
}

// ConvertVitalRows flattens the per-metric measurements of archived
// snapshots into VitalRow rows, in canonical metric order.
func ConvertVitalRows(entries []schema.HistoryEntry) []VitalRow {
	var rows []VitalRow
	for _, e := range entries {
		for _, name := range schema.AllMetrics {
			vs, ok := e.Snapshot.Vitals[name]
			if !ok {
				continue
			}
			rows = append(rows, VitalRow{
				TestName: e.Snapshot.TestName,
				RunAt:    e.RunAt,
				Metric:   string(name),
				Value:    vs.Value,
				Status:   string(vs.Status),
				Score:    vs.Score,
			})
		}
	}
	return rows
}

// WriteHistoryRunsParquet writes a slice of HistoryRun structs to a Parquet file.
func WriteHistoryRunsParquet(data []HistoryRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the HistoryRun struct tags
	writer := parquet.NewGenericWriter[HistoryRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteVitalRowsParquet writes a slice of VitalRow structs to a Parquet file.
func WriteVitalRowsParquet(data []VitalRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the VitalRow struct tags
	writer := parquet.NewGenericWriter[VitalRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
