package core

import (
	"fmt"

	"github.com/tracelens/tracelens/schema"
)

// Insight deductions applied to the composite score per severity tier.
const (
	criticalInsightPenalty = 5.0
	warningInsightPenalty  = 2.0
	infoInsightPenalty     = 0.5
)

// scoreVital maps a metric value to its status band and 0-100 score.
// Lower is better for every metric, CLS included: identical banding
// logic, never inverted.
func scoreVital(value float64, th schema.VitalThresholds) (schema.MetricStatus, float64) {
	if value <= th.Good {
		return schema.GoodStatus, 100
	}
	if value <= th.NeedsImprovement {
		span := th.NeedsImprovement - th.Good
		if span <= 0 {
			return schema.NeedsImprovementStatus, 50
		}
		return schema.NeedsImprovementStatus, 50 + 50*(th.NeedsImprovement-value)/span
	}
	if th.NeedsImprovement <= 0 {
		return schema.PoorStatus, 0
	}
	score := 50 * (1 - (value-th.NeedsImprovement)/th.NeedsImprovement)
	if score < 0 {
		score = 0
	}
	return schema.PoorStatus, score
}

// BuildVitalMetrics scores the supplied vitals values against the
// configured thresholds and weights, in canonical metric order. Metrics
// with no supplied value are skipped; their weight simply contributes
// nothing, which keeps the scorer a pure function over an explicit list
// of {value, weight, thresholds} tuples.
func BuildVitalMetrics(values map[schema.MetricName]float64, weights map[schema.MetricName]float64, thresholds map[schema.MetricName]schema.VitalThresholds) []schema.VitalMetric {
	metrics := make([]schema.VitalMetric, 0, len(schema.AllMetrics))
	for _, name := range schema.AllMetrics {
		value, ok := values[name]
		if !ok {
			continue
		}
		th := thresholds[name]
		status, score := scoreVital(value, th)
		metrics = append(metrics, schema.VitalMetric{
			Name:       name,
			Value:      value,
			Thresholds: th,
			Weight:     weights[name],
			Status:     status,
			Score:      score,
		})
	}
	return metrics
}

// ComputeCompositeScore combines the per-metric weighted scores with the
// insight deductions into one 0-100 score.
func ComputeCompositeScore(metrics []schema.VitalMetric, insights schema.InsightCounts) schema.CompositeScore {
	breakdown := make(map[schema.MetricName]float64, len(metrics))
	var raw float64
	for _, m := range metrics {
		contribution := m.Score * m.Weight
		breakdown[m.Name] = contribution
		raw += contribution
	}

	raw -= criticalInsightPenalty * float64(insights.Critical)
	raw -= warningInsightPenalty * float64(insights.Warning)
	raw -= infoInsightPenalty * float64(insights.Info)

	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}

	return schema.CompositeScore{
		Score:     raw,
		Grade:     schema.GradeFor(raw),
		Verdict:   compositeVerdict(raw, metrics),
		Breakdown: breakdown,
	}
}

// compositeVerdict builds a short human summary of the composite score.
func compositeVerdict(score float64, metrics []schema.VitalMetric) string {
	var poor, needs int
	for _, m := range metrics {
		switch m.Status {
		case schema.PoorStatus:
			poor++
		case schema.NeedsImprovementStatus:
			needs++
		}
	}
	switch {
	case poor > 0:
		return fmt.Sprintf("%d metric(s) in the poor band are dragging the score down", poor)
	case needs > 0:
		return fmt.Sprintf("%d metric(s) need improvement", needs)
	case score >= 90:
		return "all vitals within good thresholds"
	default:
		return "vitals healthy, score reduced by insights"
	}
}
