package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/schema"
)

func sampleEntries() []schema.HistoryEntry {
	runAt := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	return []schema.HistoryEntry{
		{
			RunAt: runAt,
			Snapshot: schema.RunSnapshot{
				TestName: "checkout",
				URL:      "https://shop.test/checkout",
				Vitals: map[schema.MetricName]schema.VitalSnapshot{
					schema.LCPMetric: {Value: 2100, Status: schema.GoodStatus, Score: 100},
					schema.CLSMetric: {Value: 0.3, Status: schema.PoorStatus, Score: 40},
				},
				Composite: schema.CompositeScore{Score: 91.5, Verdict: "performing well"},
			},
		},
		{
			RunAt: runAt.Add(-time.Hour),
			Snapshot: schema.RunSnapshot{
				TestName:  "checkout",
				URL:       "https://shop.test/checkout",
				Composite: schema.CompositeScore{Score: 72, Verdict: "room to improve"},
			},
		},
	}
}

func TestHistoryRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(HistoryRun))
	require.NotNil(t, s)

	expectedColumns := []string{
		"test_name",
		"run_at",
		"url",
		"composite_score",
		"grade",
		"verdict",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestVitalRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(VitalRow))
	require.NotNil(t, s)

	expectedColumns := []string{
		"test_name",
		"run_at",
		"metric",
		"value",
		"status",
		"score",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertHistoryEntries(t *testing.T) {
	runs := ConvertHistoryEntries(sampleEntries())
	require.Len(t, runs, 2)

	assert.Equal(t, "checkout", runs[0].TestName)
	assert.InDelta(t, 91.5, runs[0].CompositeScore, 1e-9)
	assert.Equal(t, schema.GradeTopTier, runs[0].Grade)
	assert.Equal(t, "performing well", runs[0].Verdict)
	assert.Equal(t, schema.GradeGood, runs[1].Grade)
}

func TestConvertVitalRows(t *testing.T) {
	rows := ConvertVitalRows(sampleEntries())
	// Only the first entry carries vitals; canonical order puts LCP first.
	require.Len(t, rows, 2)
	assert.Equal(t, "LCP", rows[0].Metric)
	assert.InDelta(t, 2100.0, rows[0].Value, 1e-9)
	assert.Equal(t, "good", rows[0].Status)
	assert.Equal(t, "CLS", rows[1].Metric)
	assert.InDelta(t, 40.0, rows[1].Score, 1e-9)
}

func TestWriteHistoryRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "history_runs.parquet")
	data := ConvertHistoryEntries(sampleEntries())

	err := WriteHistoryRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[HistoryRun](file)
	defer func() { _ = reader.Close() }()

	readData := make([]HistoryRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].TestName, readData[i].TestName)
		assert.Equal(t, data[i].URL, readData[i].URL)
		assert.InDelta(t, data[i].CompositeScore, readData[i].CompositeScore, 1e-9)
		assert.Equal(t, data[i].Grade, readData[i].Grade)
		assert.WithinDuration(t, data[i].RunAt, readData[i].RunAt, time.Nanosecond)
	}
}

func TestWriteVitalRowsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "vitals.parquet")
	data := ConvertVitalRows(sampleEntries())

	err := WriteVitalRowsParquet(data, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[VitalRow](file)
	defer func() { _ = reader.Close() }()

	readData := make([]VitalRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].Metric, readData[i].Metric)
		assert.InDelta(t, data[i].Value, readData[i].Value, 1e-9)
		assert.Equal(t, data[i].Status, readData[i].Status)
		assert.InDelta(t, data[i].Score, readData[i].Score, 1e-9)
	}
}

func TestWriteHistoryRunsParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_runs.parquet")

	err := WriteHistoryRunsParquet([]HistoryRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteHistoryRunsParquet(nil, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")

	err = WriteVitalRowsParquet(nil, "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}
