package core

import (
	"time"

	"github.com/tracelens/tracelens/schema"
)

// regressionThreshold is the fixed composite-score drop that counts as a
// regression. The comparison is strict: a drop of exactly 5.0 points is
// not a regression, 5.01 is.
const regressionThreshold = -5.0

// BuildRunSnapshot converts a completed run into its persisted shape.
func BuildRunSnapshot(testName string, run *schema.RunResult, at time.Time) schema.RunSnapshot {
	snap := schema.RunSnapshot{
		TestName:  testName,
		Timestamp: at,
		URL:       run.URL,
		Vitals:    schema.SnapshotVitals(run.Vitals),
	}
	if run.Composite != nil {
		snap.Composite = *run.Composite
	}
	return snap
}

// CompareToBaseline computes the regression report for a current run
// against its stored baseline. A nil baseline yields no_baseline with
// IsRegression false regardless of the current score.
func CompareToBaseline(baseline *schema.RunSnapshot, current *schema.RunSnapshot) schema.RegressionReport {
	report := schema.RegressionReport{
		TestName:     current.TestName,
		CurrentScore: current.Composite.Score,
	}

	if baseline == nil {
		report.Status = schema.NoBaselineRegression
		return report
	}

	report.BaselineScore = baseline.Composite.Score
	report.BaselineTime = baseline.Timestamp
	report.ScoreDiff = current.Composite.Score - baseline.Composite.Score
	report.IsRegression = report.ScoreDiff < regressionThreshold
	if report.IsRegression {
		report.Status = schema.FoundRegression
	} else {
		report.Status = schema.OKRegression
	}

	report.Deltas = metricDeltas(baseline, current)
	return report
}

// metricDeltas computes per-metric differences in canonical order.
// Higher is worse for every metric except CLS, which is unconditionally
// reported as not-worse. That asymmetry is a documented contract of the
// comparison, pending product sign-off.
func metricDeltas(baseline, current *schema.RunSnapshot) []schema.MetricDelta {
	deltas := make([]schema.MetricDelta, 0, len(schema.AllMetrics))
	for _, name := range schema.AllMetrics {
		cur, ok := current.Vitals[name]
		if !ok {
			continue
		}
		base, ok := baseline.Vitals[name]
		if !ok {
			// Metric newly tracked; nothing to diff against.
			base = cur
		}
		diff := cur.Value - base.Value
		isWorse := diff > 0
		if name == schema.CLSMetric {
			isWorse = false
		}
		deltas = append(deltas, schema.MetricDelta{
			Name:     name,
			Baseline: base.Value,
			Current:  cur.Value,
			Diff:     diff,
			IsWorse:  isWorse,
		})
	}
	return deltas
}
