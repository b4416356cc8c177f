package iostore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/internal/parquet"
	"github.com/tracelens/tracelens/schema"
)

// ExecuteHistoryExport performs the actual export of archived run data to Parquet files.
func ExecuteHistoryExport(testName string, limit int, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if testName == "" {
		return errors.New("--test-name is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()

	rows, err := store.Query(testName, limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history: %w", err)
	}
	if len(rows) == 0 {
		return errors.New("no archived runs found to export")
	}

	entries := DecodeHistoryRows(rows)
	fmt.Printf("Exporting %d archived runs for test %s...\n", len(entries), testName)

	// Convert to Parquet format
	parquetRuns := parquet.ConvertHistoryEntries(entries)
	parquetVitals := parquet.ConvertVitalRows(entries)

	// Write archived runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteHistoryRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write archived runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write vital measurements to Parquet
	vitalsFile := outputFile + ".vitals.parquet"
	if err := parquet.WriteVitalRowsParquet(parquetVitals, vitalsFile); err != nil {
		return fmt.Errorf("failed to write vital measurements: %w", err)
	}
	fmt.Printf("Exported %d vital measurements to: %s\n", len(parquetVitals), vitalsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}

// DecodeHistoryRows unmarshals raw archive rows into typed history
// entries. Rows with undecodable payloads are skipped with a warning so
// one corrupt entry does not block the rest.
func DecodeHistoryRows(rows []contract.HistoryRow) []schema.HistoryEntry {
	entries := make([]schema.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		var snap schema.RunSnapshot
		if err := json.Unmarshal(row.Payload, &snap); err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping undecodable history entry for %s", row.TestName), err)
			continue
		}
		entries = append(entries, schema.HistoryEntry{RunAt: row.RunAt, Snapshot: snap})
	}
	return entries
}
