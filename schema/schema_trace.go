package schema

import "time"

// RawTiming is the timing block of a raw fetch event as recorded by the
// capture layer. Missing fields unmarshal to 0.
type RawTiming struct {
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// RawRecord is one fetch event as recorded by the capture layer, before
// normalization. Enum fields are free-form strings here; normalization
// maps unknown values to safe fallbacks.
type RawRecord struct {
	URL          string    `json:"url"`
	Method       string    `json:"method"`
	Status       int       `json:"status"`
	ResourceType string    `json:"resourceType"`
	Size         int64     `json:"size"`
	Priority     string    `json:"priority"`
	FromCache    bool      `json:"fromCache"`
	StartTime    float64   `json:"startTime"` // seconds, float
	Timing       RawTiming `json:"timing"`
}

// RawInsight is a capture-layer finding that feeds the composite score
// deduction. Severity is one of critical, warning, info.
type RawInsight struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
}

// TraceFile is the on-disk format produced by the capture layer for a
// single recorded page load.
type TraceFile struct {
	TestName   string             `json:"test_name"`
	URL        string             `json:"url"`
	CapturedAt time.Time          `json:"captured_at"`
	Vitals     map[string]float64 `json:"vitals"` // keyed by metric name (LCP, FID, ...)
	Insights   []RawInsight       `json:"insights"`
	Records    []RawRecord        `json:"records"`
}

// RunResult is the top-level output of one pipeline invocation. On error
// the Status field is set and any analyzer output computed before the
// failure is preserved for diagnosis.
type RunResult struct {
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	TestName   string    `json:"test_name"`
	URL        string    `json:"url"`
	CapturedAt time.Time `json:"captured_at"`

	RecordCount  int                 `json:"record_count"`
	Timeline     *Timeline           `json:"timeline,omitempty"`
	CriticalPath *CriticalPathResult `json:"critical_path,omitempty"`
	Blocking     *BlockingResult     `json:"blocking,omitempty"`
	Phases       *PhaseReport        `json:"phases,omitempty"`
	Budget       *BudgetReport       `json:"budget,omitempty"`

	Vitals    []VitalMetric   `json:"vitals,omitempty"`
	Insights  InsightCounts   `json:"insights"`
	Composite *CompositeScore `json:"composite,omitempty"`
}
