package schema

// VitalMetric is one scored vitals-style metric. Status and Score are
// derived from Value against Thresholds; Weight is its share of the
// composite score.
type VitalMetric struct {
	Name       MetricName      `json:"name"`
	Value      float64         `json:"value"`
	Thresholds VitalThresholds `json:"thresholds"`
	Weight     float64         `json:"weight"`
	Status     MetricStatus    `json:"status"`
	Score      float64         `json:"score"` // 0-100 per-metric score
}

// InsightCounts tallies analyzer insights by severity. Each tier applies
// a fixed deduction to the composite score.
type InsightCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// CompositeScore is the weighted 0-100 score over all vital metrics,
// after insight deductions, with its grade band and verdict.
type CompositeScore struct {
	Score     float64                `json:"score"`
	Grade     string                 `json:"grade"`
	Verdict   string                 `json:"verdict"`
	Breakdown map[MetricName]float64 `json:"breakdown"` // weighted contribution per metric
}

// Grade bands for the composite score, inclusive lower bounds.
const (
	GradeTopTier    = "a+"
	GradeExcellent  = "excellent"
	GradeGood       = "good"
	GradeAcceptable = "acceptable"
	GradeModerate   = "moderate"
	GradePoor       = "poor"
)

// GradeFor maps a composite score to its grade band.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return GradeTopTier
	case score >= 80:
		return GradeExcellent
	case score >= 70:
		return GradeGood
	case score >= 60:
		return GradeAcceptable
	case score >= 50:
		return GradeModerate
	default:
		return GradePoor
	}
}
