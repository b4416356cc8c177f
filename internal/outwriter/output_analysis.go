package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRunResult outputs a full analysis run, dispatching based on the output format configured.
func WriteRunResult(result *schema.RunResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable sections
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunText(result, cfg, fmtFloat, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeTimelineCSV writes the waterfall timeline in CSV format, one row per resource.
func writeTimelineCSV(w io.Writer, result *schema.RunResult, fmtFloat func(float64) string) error {
	header := []string{
		"index",
		"url",
		"resource_type",
		"relative_start_ms",
		"duration_ms",
		"test_name",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if result.Timeline == nil {
			return nil
		}
		for _, e := range result.Timeline.Entries {
			rec := []string{
				strconv.Itoa(e.Index),
				e.URL,
				string(e.Type),
				fmtFloat(e.RelativeStartMs),
				fmtFloat(e.DurationMs),
				result.TestName,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRunText generates the full human-readable report with one section per analyzer.
func writeRunText(result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, w io.Writer) error {
	headerLine(w, "🔎", fmt.Sprintf("Test: %s (%s)", result.TestName, result.URL), cfg)
	headerLine(w, "📅", fmt.Sprintf("Captured: %s with %d resources", result.CapturedAt.Format(contract.DateTimeFormat), result.RecordCount), cfg)
	fmt.Fprintln(w)

	if result.Composite != nil {
		writeCompositeSummary(w, result, cfg, fmtFloat)
	}
	if len(result.Vitals) > 0 {
		if err := writeVitalsTable(w, result.Vitals, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if result.CriticalPath != nil {
		if err := writeCriticalPathSection(w, result.CriticalPath, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if result.Blocking != nil {
		if err := writeBlockingSection(w, result.Blocking, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if result.Phases != nil {
		if err := writePhaseSection(w, result.Phases, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if result.Budget != nil {
		if err := writeBudgetSection(w, result.Budget, cfg, fmtFloat); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend)
	return nil
}

// writeCompositeSummary prints the 2-line composite score summary.
func writeCompositeSummary(w io.Writer, result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string) {
	c := result.Composite
	headerLine(w, "🏁", fmt.Sprintf("Composite Score: %s (%s)", fmtFloat(c.Score), gradeLabel(c.Score, cfg)), cfg)
	fmt.Fprintf(w, "%s\n", c.Verdict)
	if result.Insights.Critical+result.Insights.Warning+result.Insights.Info > 0 {
		fmt.Fprintf(w, "Insights: %d critical, %d warning, %d info\n",
			result.Insights.Critical, result.Insights.Warning, result.Insights.Info)
	}
	fmt.Fprintln(w)
}

// writeVitalsTable prints the per-metric scoring table.
func writeVitalsTable(w io.Writer, vitals []schema.VitalMetric, cfg *contract.Config, fmtFloat func(float64) string) error {
	headerLine(w, "📈", "Vital Metrics", cfg)
	table := tablewriter.NewWriter(w)

	headers := []string{"Metric", "Value", "Status", "Score"}
	if cfg.Detail {
		headers = append(headers, "Weight", "Good", "Needs Improvement")
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, v := range vitals {
		row := []string{
			string(v.Name),
			formatVitalValue(v.Name, v.Value, fmtFloat),
			statusLabel(v.Status, cfg),
			fmtFloat(v.Score),
		}
		if cfg.Detail {
			row = append(row,
				fmt.Sprintf("%.2f", v.Weight),
				formatVitalValue(v.Name, v.Thresholds.Good, fmtFloat),
				formatVitalValue(v.Name, v.Thresholds.NeedsImprovement, fmtFloat),
			)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeCriticalPathSection prints the critical rendering path table and verdict.
func writeCriticalPathSection(w io.Writer, cp *schema.CriticalPathResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	headerLine(w, "🛣️", fmt.Sprintf("Critical Path: %sms (%s)", fmtFloat(cp.TotalLengthMs), cp.Verdict), cfg)
	fmt.Fprintf(w, "Optimization potential: %sms\n", fmtFloat(cp.OptimizationPotentialMs))

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "URL", "Type", "Time (ms)"}
	if cfg.Detail {
		headers = append(headers, "Size (KB)", "Priority")
	}
	if cfg.Explain {
		headers = append(headers, "Reasons")
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range cp.Resources {
		if i >= cfg.ResultLimit {
			break
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateURL(r.URL, getMaxTableURLWidth(cfg)),
			string(r.Type),
			fmtFloat(r.TimeMs),
		}
		if cfg.Detail {
			row = append(row,
				fmtFloat(float64(r.SizeBytes)/1024.0),
				string(r.Priority),
			)
		}
		if cfg.Explain {
			row = append(row, strings.Join(r.Reasons, "; "))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeBlockingSection prints the render-blocking resources table and assessment.
func writeBlockingSection(w io.Writer, b *schema.BlockingResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	headerLine(w, "🚧", fmt.Sprintf("Render Blocking: %s (critical: %d, high impact: %d)", b.Assessment, b.CriticalCount, b.HighImpactCount), cfg)

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "URL", "Type", "Impact", "Blocking (ms)"}
	if cfg.Explain {
		headers = append(headers, "Reasons")
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range b.Resources {
		if i >= cfg.ResultLimit {
			break
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateURL(r.URL, getMaxTableURLWidth(cfg)),
			string(r.Type),
			fmtFloat(r.ImpactScore),
			fmtFloat(r.BlockingTimeMs),
		}
		if cfg.Explain {
			row = append(row, strings.Join(r.Reasons, "; "))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writePhaseSection prints per-phase statistics and detected bottlenecks.
func writePhaseSection(w io.Writer, p *schema.PhaseReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	headerLine(w, "⏱️", fmt.Sprintf("Network Phases (bottlenecks: %s)", p.Status), cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Phase", "Count", "Average (ms)", "Total (ms)", "Slowest (ms)", "Slowest URL"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, phase := range schema.AllPhases {
		stat, ok := p.Stats[phase]
		if !ok {
			continue
		}
		data = append(data, []string{
			string(stat.Phase),
			strconv.Itoa(stat.Count),
			fmtFloat(stat.AverageMs),
			fmtFloat(stat.TotalMs),
			fmtFloat(stat.SlowestMs),
			contract.TruncateURL(stat.Slowest, getMaxTableURLWidth(cfg)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, bn := range p.Bottlenecks {
		fmt.Fprintf(w, "[%s] %s: %s\n", severityLabel(bn.Severity, cfg), bn.Type, bn.Issue)
		if cfg.Explain {
			fmt.Fprintf(w, "  Fix: %s\n", bn.Fix)
		}
	}
	fmt.Fprintln(w)
	return nil
}

// writeBudgetSection prints budget actuals and violations.
func writeBudgetSection(w io.Writer, b *schema.BudgetReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	headerLine(w, "💰", fmt.Sprintf("Performance Budget: %s", b.Status), cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Budget", "Actual", "Over By", "Over %"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	violated := make(map[string]schema.BudgetViolation, len(b.Violations))
	for _, v := range b.Violations {
		violated[v.Metric] = v
	}

	var data [][]string
	for _, metric := range schema.AllBudgetMetrics {
		actual, ok := b.Actuals[metric]
		if !ok {
			continue
		}
		if v, bad := violated[metric]; bad {
			data = append(data, []string{
				metric,
				fmtFloat(v.Budget),
				fmtFloat(v.Actual),
				fmtFloat(v.OverBy),
				fmtFloat(v.OverPercent),
			})
		} else {
			data = append(data, []string{metric, "-", fmtFloat(actual), "-", "-"})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// formatVitalValue renders a metric value with its natural unit. CLS is
// unitless and keeps two extra digits; every other vital is milliseconds.
func formatVitalValue(name schema.MetricName, value float64, fmtFloat func(float64) string) string {
	if name == schema.CLSMetric {
		return fmt.Sprintf("%.3f", value)
	}
	return fmtFloat(value) + "ms"
}
