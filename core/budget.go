package core

import (
	"sort"

	"github.com/tracelens/tracelens/schema"
)

// ComputeBudgetActuals derives the aggregate metrics the budget auditor
// compares against configured limits. Sizes are reported in KB.
func ComputeBudgetActuals(records []schema.ResourceRecord) map[string]float64 {
	var totalBytes, scriptBytes, imageBytes, cssBytes int64
	for i := range records {
		r := &records[i]
		totalBytes += r.SizeBytes
		switch r.Type {
		case schema.ScriptResource:
			scriptBytes += r.SizeBytes
		case schema.ImageResource:
			imageBytes += r.SizeBytes
		case schema.StylesheetResource:
			cssBytes += r.SizeBytes
		}
	}
	return map[string]float64{
		schema.BudgetTotalRequests: float64(len(records)),
		schema.BudgetTotalSizeKB:   float64(totalBytes) / 1024.0,
		schema.BudgetScriptSizeKB:  float64(scriptBytes) / 1024.0,
		schema.BudgetImageSizeKB:   float64(imageBytes) / 1024.0,
		schema.BudgetCSSSizeKB:     float64(cssBytes) / 1024.0,
	}
}

// AuditBudget compares actual aggregates to the configured budget.
// Budget keys absent from the mapping are unlimited. A zero budget that
// is exceeded reports an overage with OverPercent 0 to avoid dividing
// by zero.
func AuditBudget(actuals map[string]float64, budgets map[string]float64) schema.BudgetReport {
	violations := make([]schema.BudgetViolation, 0)

	for metric, actual := range actuals {
		budget, ok := budgets[metric]
		if !ok || actual <= budget {
			continue
		}
		overBy := actual - budget
		var overPercent float64
		if budget != 0 {
			overPercent = overBy / budget * 100.0
		}
		violations = append(violations, schema.BudgetViolation{
			Metric:      metric,
			Budget:      budget,
			Actual:      actual,
			OverBy:      overBy,
			OverPercent: overPercent,
		})
	}

	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Metric < violations[j].Metric
	})

	status := schema.WithinBudget
	if len(violations) > 0 {
		status = schema.OverBudget
	}

	return schema.BudgetReport{
		Actuals:    actuals,
		Violations: violations,
		Status:     status,
	}
}
