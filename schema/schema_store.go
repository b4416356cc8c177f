package schema

import "time"

// VitalSnapshot is the persisted form of a scored vital metric.
type VitalSnapshot struct {
	Value  float64      `json:"value"`
	Status MetricStatus `json:"status"`
	Score  float64      `json:"score"`
}

// RunSnapshot is the persisted shape of a scored run. The baseline store
// keeps the latest snapshot per test name (last-write-wins); the history
// archive keeps every snapshot, append-only.
type RunSnapshot struct {
	TestName  string                       `json:"test_name"`
	Timestamp time.Time                    `json:"timestamp"`
	URL       string                       `json:"url"`
	Vitals    map[MetricName]VitalSnapshot `json:"core_web_vitals"`
	Composite CompositeScore               `json:"composite_score"`
}

// MetricDelta is the per-metric difference between a current run and its
// baseline. Diff is current minus baseline.
type MetricDelta struct {
	Name     MetricName `json:"name"`
	Baseline float64    `json:"baseline"`
	Current  float64    `json:"current"`
	Diff     float64    `json:"diff"`
	IsWorse  bool       `json:"is_worse"`
}

// RegressionReport carries both the scalar regression verdict and all
// per-metric deltas against the stored baseline.
type RegressionReport struct {
	TestName      string           `json:"test_name"`
	Status        RegressionStatus `json:"status"`
	IsRegression  bool             `json:"is_regression"`
	CurrentScore  float64          `json:"current_score"`
	BaselineScore float64          `json:"baseline_score"`
	ScoreDiff     float64          `json:"score_diff"`
	BaselineTime  time.Time        `json:"baseline_time"`
	Deltas        []MetricDelta    `json:"deltas"`
}

// StoreStatus holds status information about a persistence store.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	BaselineCount  int       `json:"baseline_count"`
	HistoryCount   int       `json:"history_count"`
	LastRunTime    time.Time `json:"last_run_time"`
	OldestRunTime  time.Time `json:"oldest_run_time"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}

// HistoryEntry is one archived run, newest-first in query results.
type HistoryEntry struct {
	RunAt    time.Time   `json:"run_at"`
	Snapshot RunSnapshot `json:"snapshot"`
}
