package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// WriteScoreResult outputs the scoring portion of a run, dispatching based on the output format configured.
func WriteScoreResult(result *schema.RunResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreText(result, cfg, fmtFloat, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeScoreJSON writes the scoring fields only, omitting the waterfall data.
func writeScoreJSON(w io.Writer, result *schema.RunResult) error {
	type JSONScoreResult struct {
		TestName  string                `json:"test_name"`
		URL       string                `json:"url"`
		Vitals    []schema.VitalMetric  `json:"vitals"`
		Insights  schema.InsightCounts  `json:"insights"`
		Composite schema.CompositeScore `json:"composite"`
		Grade     string                `json:"grade"`
	}

	output := JSONScoreResult{
		TestName: result.TestName,
		URL:      result.URL,
		Vitals:   result.Vitals,
		Insights: result.Insights,
	}
	if result.Composite != nil {
		output.Composite = *result.Composite
		output.Grade = contract.GetPlainGradeLabel(result.Composite.Score)
	}
	return writeJSON(w, output)
}

// writeScoreCSV writes one row per vital metric.
func writeScoreCSV(w io.Writer, result *schema.RunResult, fmtFloat func(float64) string) error {
	header := []string{
		"test_name",
		"metric",
		"value",
		"status",
		"score",
		"weight",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range result.Vitals {
			rec := []string{
				result.TestName,
				string(v.Name),
				fmtFloat(v.Value),
				string(v.Status),
				fmtFloat(v.Score),
				fmt.Sprintf("%.2f", v.Weight),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeScoreText prints the composite summary, vitals table and breakdown.
func writeScoreText(result *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, w io.Writer) error {
	headerLine(w, "🔎", fmt.Sprintf("Test: %s (%s)", result.TestName, result.URL), cfg)
	fmt.Fprintln(w)

	if result.Composite != nil {
		writeCompositeSummary(w, result, cfg, fmtFloat)
	}
	if len(result.Vitals) > 0 {
		if err := writeVitalsTable(w, result.Vitals, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if cfg.Explain && result.Composite != nil {
		fmt.Fprintln(w, "Weighted contributions:")
		for _, name := range schema.AllMetrics {
			contrib, ok := result.Composite.Breakdown[name]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s: %s\n", name, fmtFloat(contrib))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Scoring completed in %v. Store backend: %s\n", duration, cfg.StoreBackend)
	return nil
}

// WriteBudgetReport outputs a standalone budget audit, dispatching based on the output format configured.
func WriteBudgetReport(report *schema.BudgetReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"metric", "budget", "actual", "over_by", "over_percent"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, v := range report.Violations {
					rec := []string{
						v.Metric,
						fmtFloat(v.Budget),
						fmtFloat(v.Actual),
						fmtFloat(v.OverBy),
						fmtFloat(v.OverPercent),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBudgetSection(w, report, cfg, fmtFloat)
		}, "Wrote report")
	}
}
