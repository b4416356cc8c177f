package core

import (
	"sort"

	"github.com/tracelens/tracelens/schema"
)

// optimizationFactor is the fixed heuristic share of the critical path
// considered recoverable through optimization.
const optimizationFactor = 0.3

// Critical path verdict bands in milliseconds.
const (
	criticalPathLeanMs = 2000
	criticalPathSlowMs = 4000
)

// Critical path verdicts.
const (
	CriticalPathLean    = "lean"
	CriticalPathNeeds   = "needs optimization"
	CriticalPathTooLong = "too long"
)

// classifyCritical returns the reasons a record sits on the critical
// rendering path, or nil when it does not block first paint.
func classifyCritical(r *schema.ResourceRecord) []string {
	switch r.Type {
	case schema.DocumentResource:
		return []string{"main document"}
	case schema.StylesheetResource:
		return []string{"stylesheets block rendering"}
	case schema.FontResource:
		return []string{"fonts block text rendering"}
	case schema.ScriptResource:
		if r.Priority == schema.HighPriority || r.Priority == schema.VeryHighPriority {
			return []string{"high-priority script"}
		}
	}
	return nil
}

// AnalyzeCriticalPath classifies render-blocking resources and sums
// their fetch durations. The total is a sum of per-resource durations
// rather than a wall-clock max-of-overlap; downstream scoring depends on
// the summed value.
func AnalyzeCriticalPath(records []schema.ResourceRecord) schema.CriticalPathResult {
	resources := make([]schema.CriticalResource, 0)
	var total float64

	for i := range records {
		r := &records[i]
		reasons := classifyCritical(r)
		if reasons == nil {
			continue
		}
		timeMs := r.Timing.Total()
		total += timeMs
		resources = append(resources, schema.CriticalResource{
			URL:       r.URL,
			Type:      r.Type,
			Priority:  r.Priority,
			SizeBytes: r.SizeBytes,
			TimeMs:    timeMs,
			Reasons:   reasons,
		})
	}

	// Slowest resources first; stable so equal durations keep ingestion order.
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].TimeMs > resources[j].TimeMs
	})

	return schema.CriticalPathResult{
		Resources:               resources,
		TotalLengthMs:           total,
		OptimizationPotentialMs: optimizationFactor * total,
		Verdict:                 criticalPathVerdict(total),
	}
}

// criticalPathVerdict maps the total critical path length to its band.
func criticalPathVerdict(totalMs float64) string {
	switch {
	case totalMs < criticalPathLeanMs:
		return CriticalPathLean
	case totalMs < criticalPathSlowMs:
		return CriticalPathNeeds
	default:
		return CriticalPathTooLong
	}
}
