package iostore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

func historyRow(t *testing.T, testName string, runAt time.Time, score float64) contract.HistoryRow {
	t.Helper()
	snap := schema.RunSnapshot{
		TestName:  testName,
		Timestamp: runAt,
		URL:       "https://shop.test/",
		Composite: schema.CompositeScore{Score: score, Grade: schema.GradeFor(score)},
	}
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	return contract.HistoryRow{TestName: testName, RunAt: runAt, Payload: payload}
}

func TestDecodeHistoryRows(t *testing.T) {
	runAt := time.Date(2026, 8, 25, 16, 0, 0, 0, time.UTC)
	rows := []contract.HistoryRow{
		historyRow(t, "checkout", runAt, 88),
		historyRow(t, "checkout", runAt.Add(-time.Hour), 91),
	}

	entries := DecodeHistoryRows(rows)
	require.Len(t, entries, 2)
	assert.Equal(t, runAt, entries[0].RunAt)
	assert.InDelta(t, 88.0, entries[0].Snapshot.Composite.Score, 1e-9)
	assert.Equal(t, "checkout", entries[1].Snapshot.TestName)
}

func TestDecodeHistoryRowsSkipsCorrupt(t *testing.T) {
	runAt := time.Date(2026, 8, 25, 16, 0, 0, 0, time.UTC)
	rows := []contract.HistoryRow{
		historyRow(t, "checkout", runAt, 88),
		{TestName: "checkout", RunAt: runAt, Payload: []byte("{corrupt")},
		historyRow(t, "checkout", runAt.Add(-time.Hour), 75),
	}

	entries := DecodeHistoryRows(rows)
	require.Len(t, entries, 2)
	assert.InDelta(t, 88.0, entries[0].Snapshot.Composite.Score, 1e-9)
	assert.InDelta(t, 75.0, entries[1].Snapshot.Composite.Score, 1e-9)
}

func TestDecodeHistoryRowsEmpty(t *testing.T) {
	entries := DecodeHistoryRows(nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestExecuteHistoryExportValidation(t *testing.T) {
	err := ExecuteHistoryExport("checkout", 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")

	err = ExecuteHistoryExport("", 10, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--test-name is required")
}
