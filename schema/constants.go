package schema

// Custom string types for type safety.
type (
	// ResourceType classifies a fetched resource.
	ResourceType string

	// Priority is the browser-assigned fetch priority of a resource.
	Priority string

	// Phase identifies one of the six network timing phases.
	Phase string

	// BottleneckType classifies a detected timing bottleneck.
	BottleneckType string

	// Severity grades a bottleneck or insight.
	Severity string

	// MetricName identifies a vitals-style performance metric.
	MetricName string

	// MetricStatus is the threshold band a metric value falls into.
	MetricStatus string

	// RunStatus is the top-level outcome of a pipeline run.
	RunStatus string

	// RegressionStatus is the outcome of a baseline comparison.
	RegressionStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// All resource types supported.
const (
	DocumentResource   ResourceType = "document"
	StylesheetResource ResourceType = "stylesheet"
	ScriptResource     ResourceType = "script"
	FontResource       ResourceType = "font"
	ImageResource      ResourceType = "image"
	XHRResource        ResourceType = "xhr"
	OtherResource      ResourceType = "other" // fallback for unknown types
)

// All fetch priorities supported.
const (
	VeryHighPriority Priority = "very-high"
	HighPriority     Priority = "high"
	MediumPriority   Priority = "medium" // fallback for unknown priorities
	LowPriority      Priority = "low"
)

// The six timing phases of a resource fetch.
const (
	DNSPhase     Phase = "dns"
	ConnectPhase Phase = "connect"
	SSLPhase     Phase = "ssl"
	SendPhase    Phase = "send"
	WaitPhase    Phase = "wait"
	ReceivePhase Phase = "receive"
)

// AllPhases lists the timing phases in waterfall order.
var AllPhases = []Phase{DNSPhase, ConnectPhase, SSLPhase, SendPhase, WaitPhase, ReceivePhase}

// All bottleneck types supported.
const (
	DNSBottleneck           BottleneckType = "dns"
	ConnectionBottleneck    BottleneckType = "connection"
	TTFBBottleneck          BottleneckType = "ttfb"
	LargeResourceBottleneck BottleneckType = "large-resource"
	DomainQueueBottleneck   BottleneckType = "domain-queueing"
)

// All severities supported, from least to most severe.
const (
	InfoSeverity     Severity = "info"
	MediumSeverity   Severity = "medium"
	WarningSeverity  Severity = "warning"
	HighSeverity     Severity = "high"
	CriticalSeverity Severity = "critical"
)

// The six vitals-style metrics scored by the composite scorer.
const (
	LCPMetric MetricName = "LCP" // Largest Contentful Paint (ms)
	FIDMetric MetricName = "FID" // First Input Delay (ms)
	CLSMetric MetricName = "CLS" // Cumulative Layout Shift (unitless)
	FCPMetric MetricName = "FCP" // First Contentful Paint (ms)
	TTIMetric MetricName = "TTI" // Time to Interactive (ms)
	TBTMetric MetricName = "TBT" // Total Blocking Time (ms)
)

// AllMetrics lists the vital metrics in canonical display order.
var AllMetrics = []MetricName{LCPMetric, FIDMetric, CLSMetric, FCPMetric, TTIMetric, TBTMetric}

// All metric status bands.
const (
	GoodStatus             MetricStatus = "good"
	NeedsImprovementStatus MetricStatus = "needs_improvement"
	PoorStatus             MetricStatus = "poor"
)

// All run statuses.
const (
	SuccessRun RunStatus = "success"
	ErrorRun   RunStatus = "error"
)

// All regression statuses.
const (
	OKRegression         RegressionStatus = "ok"
	FoundRegression      RegressionStatus = "regression"
	NoBaselineRegression RegressionStatus = "no_baseline"
	UnknownRegression    RegressionStatus = "unknown" // persistence failure during check
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid persistence backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidResourceTypes lists all recognized resource types.
var ValidResourceTypes = map[ResourceType]struct{}{
	DocumentResource:   {},
	StylesheetResource: {},
	ScriptResource:     {},
	FontResource:       {},
	ImageResource:      {},
	XHRResource:        {},
	OtherResource:      {},
}

// ValidPriorities lists all recognized fetch priorities.
var ValidPriorities = map[Priority]struct{}{
	VeryHighPriority: {},
	HighPriority:     {},
	MediumPriority:   {},
	LowPriority:      {},
}

// Budget metric keys understood by the budget auditor. Absent keys in a
// budget configuration are treated as unlimited.
const (
	BudgetTotalRequests = "total_requests"
	BudgetTotalSizeKB   = "total_size_kb"
	BudgetScriptSizeKB  = "script_size_kb"
	BudgetImageSizeKB   = "image_size_kb"
	BudgetCSSSizeKB     = "css_size_kb"
)

// AllBudgetMetrics lists the budget keys in canonical display order.
var AllBudgetMetrics = []string{
	BudgetTotalRequests,
	BudgetTotalSizeKB,
	BudgetScriptSizeKB,
	BudgetImageSizeKB,
	BudgetCSSSizeKB,
}

// VitalThresholds holds the two threshold values that split a metric
// into good / needs_improvement / poor bands. Lower is better for every
// metric, CLS included.
type VitalThresholds struct {
	Good             float64 `json:"good"`
	NeedsImprovement float64 `json:"needs_improvement"`
}

// GetDefaultWeights returns the default composite weight per vital
// metric. The weights sum to 1.0.
func GetDefaultWeights() map[MetricName]float64 {
	return map[MetricName]float64{
		LCPMetric: 0.25,
		FIDMetric: 0.10,
		CLSMetric: 0.15,
		FCPMetric: 0.15,
		TTIMetric: 0.15,
		TBTMetric: 0.20,
	}
}

// GetDefaultThresholds returns the published good/needs-improvement
// thresholds per vital metric.
func GetDefaultThresholds() map[MetricName]VitalThresholds {
	return map[MetricName]VitalThresholds{
		LCPMetric: {Good: 2500, NeedsImprovement: 4000},
		FIDMetric: {Good: 100, NeedsImprovement: 300},
		CLSMetric: {Good: 0.1, NeedsImprovement: 0.25},
		FCPMetric: {Good: 1800, NeedsImprovement: 3000},
		TTIMetric: {Good: 3800, NeedsImprovement: 7300},
		TBTMetric: {Good: 200, NeedsImprovement: 600},
	}
}
