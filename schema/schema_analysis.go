package schema

// TimelineEntry is one row of the waterfall view: a resource's start
// offset and duration relative to navigation start. Entries are derived
// per run and never persisted independently.
type TimelineEntry struct {
	URL             string       `json:"url"`
	Type            ResourceType `json:"resource_type"`
	RelativeStartMs float64      `json:"relative_start_ms"`
	DurationMs      float64      `json:"duration_ms"`
	Index           int          `json:"index"` // original ingestion order, stable tie-break
}

// Timeline is the chronological waterfall over all records of a run.
type Timeline struct {
	Entries     []TimelineEntry `json:"entries"`
	TotalTimeMs float64         `json:"total_time_ms"`
}

// CriticalResource is a single render-blocking resource on the critical
// rendering path, together with the reasons it was classified critical.
type CriticalResource struct {
	URL       string       `json:"url"`
	Type      ResourceType `json:"resource_type"`
	Priority  Priority     `json:"priority"`
	SizeBytes int64        `json:"size_bytes"`
	TimeMs    float64      `json:"time_ms"`
	Reasons   []string     `json:"reasons"`
}

// CriticalPathResult aggregates the critical rendering path. The total
// length is the sum of per-resource durations, not a max-of-overlap.
type CriticalPathResult struct {
	Resources               []CriticalResource `json:"resources"`
	TotalLengthMs           float64            `json:"total_length_ms"`
	OptimizationPotentialMs float64            `json:"optimization_potential_ms"`
	Verdict                 string             `json:"verdict"`
}

// BlockingResource is a render-blocking resource with its 0-10 impact score.
type BlockingResource struct {
	URL            string       `json:"url"`
	Type           ResourceType `json:"resource_type"`
	ImpactScore    float64      `json:"impact_score"`
	BlockingTimeMs float64      `json:"blocking_time_ms"`
	SizeBytes      int64        `json:"size_bytes"`
	Reasons        []string     `json:"reasons"`
}

// BlockingResult aggregates all render-blocking resources of a run.
type BlockingResult struct {
	Resources           []BlockingResource `json:"resources"`
	TotalBlockingTimeMs float64            `json:"total_blocking_time_ms"`
	CriticalCount       int                `json:"critical_count"`    // impact score >= 9
	HighImpactCount     int                `json:"high_impact_count"` // impact score >= 7
	Assessment          string             `json:"assessment"`
}

// PhaseStat holds per-phase aggregate statistics across all records
// where the phase is nonzero.
type PhaseStat struct {
	Phase     Phase   `json:"phase"`
	TotalMs   float64 `json:"total_ms"`
	Count     int     `json:"count"`
	AverageMs float64 `json:"average_ms"`
	SlowestMs float64 `json:"slowest_ms"`
	Slowest   string  `json:"slowest_url"` // URL of the record with the largest value for this phase
}

// Bottleneck is a detected timing anomaly with a fixed remediation hint.
type Bottleneck struct {
	Type          BottleneckType `json:"type"`
	Severity      Severity       `json:"severity"`
	MeasuredValue float64        `json:"measured_value"`
	Issue         string         `json:"issue"`
	Fix           string         `json:"fix"`
}

// PhaseReport combines per-phase statistics with the detected bottlenecks.
type PhaseReport struct {
	Stats       map[Phase]PhaseStat `json:"stats"`
	Bottlenecks []Bottleneck        `json:"bottlenecks"`
	Status      string              `json:"status"`
}

// BudgetViolation is one metric that exceeded its configured budget.
type BudgetViolation struct {
	Metric      string  `json:"metric"`
	Budget      float64 `json:"budget"`
	Actual      float64 `json:"actual"`
	OverBy      float64 `json:"over_by"`
	OverPercent float64 `json:"over_percent"`
}

// BudgetReport compares actual aggregate metrics against a configured budget.
type BudgetReport struct {
	Actuals    map[string]float64 `json:"actuals"`
	Violations []BudgetViolation  `json:"violations"`
	Status     string             `json:"status"` // "within_budget" or "over_budget"
}

// Budget report statuses.
const (
	WithinBudget = "within_budget"
	OverBudget   = "over_budget"
)
