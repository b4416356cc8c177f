package core

import (
	"strings"
	"sync"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// RunPipeline executes the full analysis over an immutable record
// sequence. The timeline and the four independent analyzers (critical
// path, blocking resources, phase stats, budget) are pure functions of
// the same records, so they fan out concurrently and join with no
// synchronization beyond the WaitGroup. The composite scorer depends
// only on the separately supplied vitals.
func RunPipeline(cfg *contract.Config, trace *schema.TraceFile, records []schema.ResourceRecord) *schema.RunResult {
	result := &schema.RunResult{
		Status:      schema.SuccessRun,
		TestName:    trace.TestName,
		URL:         trace.URL,
		CapturedAt:  trace.CapturedAt,
		RecordCount: len(records),
		Insights:    CountInsights(trace.Insights),
	}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		timeline := BuildTimeline(records)
		result.Timeline = &timeline
	}()
	go func() {
		defer wg.Done()
		critical := AnalyzeCriticalPath(records)
		result.CriticalPath = &critical
	}()
	go func() {
		defer wg.Done()
		blocking := ScoreBlockingResources(records)
		result.Blocking = &blocking
	}()
	go func() {
		defer wg.Done()
		phases := AnalyzePhases(records)
		result.Phases = &phases
	}()
	go func() {
		defer wg.Done()
		budget := AuditBudget(ComputeBudgetActuals(records), cfg.Budgets)
		result.Budget = &budget
	}()
	wg.Wait()

	result.Vitals = BuildVitalMetrics(vitalValues(trace), cfg.VitalWeights, cfg.VitalThresholds)
	composite := ComputeCompositeScore(result.Vitals, result.Insights)
	result.Composite = &composite

	return result
}

// vitalValues maps the trace's free-form vitals block onto canonical
// metric names. Unknown keys are ignored.
func vitalValues(trace *schema.TraceFile) map[schema.MetricName]float64 {
	values := make(map[schema.MetricName]float64, len(trace.Vitals))
	for key, v := range trace.Vitals {
		for _, name := range schema.AllMetrics {
			if strings.EqualFold(key, string(name)) {
				values[name] = v
			}
		}
	}
	return values
}

// CountInsights tallies capture-layer insights by severity tier for the
// composite score deduction.
func CountInsights(insights []schema.RawInsight) schema.InsightCounts {
	var counts schema.InsightCounts
	for _, ins := range insights {
		switch ins.Severity {
		case schema.CriticalSeverity:
			counts.Critical++
		case schema.WarningSeverity, schema.HighSeverity:
			counts.Warning++
		default:
			counts.Info++
		}
	}
	return counts
}
