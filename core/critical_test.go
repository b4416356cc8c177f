package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracelens/tracelens/schema"
)

// TestAnalyzeCriticalPathClassification verifies which resource types
// land on the critical rendering path.
func TestAnalyzeCriticalPathClassification(t *testing.T) {
	records := []schema.ResourceRecord{
		{URL: "doc", Type: schema.DocumentResource, Timing: schema.TimingPhases{Wait: 200}},
		{URL: "css", Type: schema.StylesheetResource, Timing: schema.TimingPhases{Wait: 100}},
		{URL: "font", Type: schema.FontResource, Timing: schema.TimingPhases{Wait: 150}},
		{URL: "hp-script", Type: schema.ScriptResource, Priority: schema.HighPriority, Timing: schema.TimingPhases{Wait: 120}},
		{URL: "vh-script", Type: schema.ScriptResource, Priority: schema.VeryHighPriority, Timing: schema.TimingPhases{Wait: 80}},
		{URL: "lazy-script", Type: schema.ScriptResource, Priority: schema.LowPriority, Timing: schema.TimingPhases{Wait: 999}},
		{URL: "img", Type: schema.ImageResource, Timing: schema.TimingPhases{Wait: 999}},
	}

	result := AnalyzeCriticalPath(records)
	assert.Len(t, result.Resources, 5)
	assert.InDelta(t, 650.0, result.TotalLengthMs, 1e-9)
	assert.InDelta(t, 195.0, result.OptimizationPotentialMs, 1e-9)
	assert.Equal(t, CriticalPathLean, result.Verdict)

	// Slowest first.
	assert.Equal(t, "doc", result.Resources[0].URL)
	assert.Equal(t, []string{"main document"}, result.Resources[0].Reasons)
}

// TestAnalyzeCriticalPathEmpty covers a run with nothing critical.
func TestAnalyzeCriticalPathEmpty(t *testing.T) {
	records := []schema.ResourceRecord{
		{URL: "img", Type: schema.ImageResource, Timing: schema.TimingPhases{Wait: 500}},
	}

	result := AnalyzeCriticalPath(records)
	assert.Empty(t, result.Resources)
	assert.Zero(t, result.TotalLengthMs)
	assert.Equal(t, CriticalPathLean, result.Verdict)
}

// TestAnalyzeCriticalPathTotalGrows checks that the summed path length
// is non-decreasing as records accumulate: a critical record adds its
// duration, a non-critical or zero-duration record leaves the total
// unchanged, and nothing ever subtracts.
func TestAnalyzeCriticalPathTotalGrows(t *testing.T) {
	additions := []schema.ResourceRecord{
		{URL: "doc", Type: schema.DocumentResource, Timing: schema.TimingPhases{Wait: 300}},
		{URL: "img", Type: schema.ImageResource, Timing: schema.TimingPhases{Wait: 500}},
		{URL: "css", Type: schema.StylesheetResource, Timing: schema.TimingPhases{Wait: 120}},
		{URL: "font", Type: schema.FontResource},
		{URL: "hp", Type: schema.ScriptResource, Priority: schema.VeryHighPriority, Timing: schema.TimingPhases{Wait: 80}},
	}

	records := make([]schema.ResourceRecord, 0, len(additions))
	prev := 0.0
	for _, r := range additions {
		records = append(records, r)
		total := AnalyzeCriticalPath(records).TotalLengthMs
		assert.GreaterOrEqual(t, total, prev, "adding %s shrank the path", r.URL)
		prev = total
	}
	assert.InDelta(t, 500.0, prev, 1e-9)
}

// TestCriticalPathVerdict checks the verdict bands and their boundaries.
func TestCriticalPathVerdict(t *testing.T) {
	tests := []struct {
		name     string
		totalMs  float64
		expected string
	}{
		{name: "zero", totalMs: 0, expected: CriticalPathLean},
		{name: "just under lean boundary", totalMs: 1999.9, expected: CriticalPathLean},
		{name: "lean boundary", totalMs: 2000, expected: CriticalPathNeeds},
		{name: "mid band", totalMs: 3000, expected: CriticalPathNeeds},
		{name: "slow boundary", totalMs: 4000, expected: CriticalPathTooLong},
		{name: "way over", totalMs: 12000, expected: CriticalPathTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, criticalPathVerdict(tt.totalMs))
		})
	}
}
