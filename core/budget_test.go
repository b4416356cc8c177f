package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/schema"
)

// TestComputeBudgetActuals verifies the aggregate metrics fed to the
// budget auditor.
func TestComputeBudgetActuals(t *testing.T) {
	records := []schema.ResourceRecord{
		{Type: schema.ScriptResource, SizeBytes: 100 * 1024},
		{Type: schema.ImageResource, SizeBytes: 200 * 1024},
		{Type: schema.StylesheetResource, SizeBytes: 50 * 1024},
		{Type: schema.DocumentResource, SizeBytes: 10 * 1024},
	}

	actuals := ComputeBudgetActuals(records)
	assert.InDelta(t, 4.0, actuals[schema.BudgetTotalRequests], 1e-9)
	assert.InDelta(t, 360.0, actuals[schema.BudgetTotalSizeKB], 1e-9)
	assert.InDelta(t, 100.0, actuals[schema.BudgetScriptSizeKB], 1e-9)
	assert.InDelta(t, 200.0, actuals[schema.BudgetImageSizeKB], 1e-9)
	assert.InDelta(t, 50.0, actuals[schema.BudgetCSSSizeKB], 1e-9)
}

// TestAuditBudgetViolations checks overage computation: 8 requests with
// a budget of 5 is 3 over, 60 percent.
func TestAuditBudgetViolations(t *testing.T) {
	actuals := map[string]float64{
		schema.BudgetTotalRequests: 8,
		schema.BudgetTotalSizeKB:   400,
	}
	budgets := map[string]float64{
		schema.BudgetTotalRequests: 5,
		schema.BudgetTotalSizeKB:   500,
	}

	report := AuditBudget(actuals, budgets)
	assert.Equal(t, schema.OverBudget, report.Status)
	require.Len(t, report.Violations, 1)

	v := report.Violations[0]
	assert.Equal(t, schema.BudgetTotalRequests, v.Metric)
	assert.InDelta(t, 3.0, v.OverBy, 1e-9)
	assert.InDelta(t, 60.0, v.OverPercent, 1e-9)
}

// TestAuditBudgetWithin covers a run that fits every configured limit.
func TestAuditBudgetWithin(t *testing.T) {
	actuals := map[string]float64{
		schema.BudgetTotalRequests: 5,
		schema.BudgetScriptSizeKB:  100,
	}
	budgets := map[string]float64{
		schema.BudgetTotalRequests: 5, // exactly at budget is not a violation
		schema.BudgetScriptSizeKB:  200,
	}

	report := AuditBudget(actuals, budgets)
	assert.Equal(t, schema.WithinBudget, report.Status)
	assert.Empty(t, report.Violations)
}

// TestAuditBudgetUnbudgetedMetrics ensures metrics without a configured
// limit are unlimited.
func TestAuditBudgetUnbudgetedMetrics(t *testing.T) {
	actuals := map[string]float64{
		schema.BudgetTotalRequests: 9000,
		schema.BudgetImageSizeKB:   9000,
	}

	report := AuditBudget(actuals, map[string]float64{})
	assert.Equal(t, schema.WithinBudget, report.Status)
	assert.Empty(t, report.Violations)
}

// TestAuditBudgetZeroBudget verifies the divide-by-zero guard: an
// exceeded zero budget reports the overage with OverPercent 0.
func TestAuditBudgetZeroBudget(t *testing.T) {
	actuals := map[string]float64{schema.BudgetTotalRequests: 3}
	budgets := map[string]float64{schema.BudgetTotalRequests: 0}

	report := AuditBudget(actuals, budgets)
	require.Len(t, report.Violations, 1)
	assert.InDelta(t, 3.0, report.Violations[0].OverBy, 1e-9)
	assert.Zero(t, report.Violations[0].OverPercent)
}
