package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRegressionReport outputs a baseline comparison, dispatching based on the output format configured.
func WriteRegressionReport(report *schema.RegressionReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRegressionCSV(w, report, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRegressionText(report, cfg, fmtFloat, w)
		}, "Wrote report")
	}
}

// writeRegressionCSV writes one row per metric delta.
func writeRegressionCSV(w io.Writer, report *schema.RegressionReport, fmtFloat func(float64) string) error {
	header := []string{
		"test_name",
		"status",
		"metric",
		"baseline",
		"current",
		"diff",
		"is_worse",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range report.Deltas {
			rec := []string{
				report.TestName,
				string(report.Status),
				string(d.Name),
				fmtFloat(d.Baseline),
				fmtFloat(d.Current),
				fmtFloat(d.Diff),
				strconv.FormatBool(d.IsWorse),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRegressionText prints the verdict summary followed by the per-metric delta table.
func writeRegressionText(report *schema.RegressionReport, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	headerLine(w, "🔎", fmt.Sprintf("Test: %s", report.TestName), cfg)

	switch report.Status {
	case schema.NoBaselineRegression:
		fmt.Fprintln(w, "No baseline stored. Current run becomes the new baseline.")
		fmt.Fprintf(w, "Current score: %s (%s)\n", fmtFloat(report.CurrentScore), gradeLabel(report.CurrentScore, cfg))
		return nil
	case schema.UnknownRegression:
		fmt.Fprintln(w, "Baseline could not be read. Regression verdict: unknown.")
		fmt.Fprintf(w, "Current score: %s (%s)\n", fmtFloat(report.CurrentScore), gradeLabel(report.CurrentScore, cfg))
		return nil
	case schema.FoundRegression:
		headerLine(w, "🚨", fmt.Sprintf("REGRESSION: score dropped %s points", fmtFloat(-report.ScoreDiff)), cfg)
	default:
		headerLine(w, "✅", "No regression detected", cfg)
	}

	fmt.Fprintf(w, "Baseline: %s (%s) from %s\n",
		fmtFloat(report.BaselineScore),
		gradeLabel(report.BaselineScore, cfg),
		report.BaselineTime.Format(contract.DateTimeFormat))
	fmt.Fprintf(w, "Current:  %s (%s)\n", fmtFloat(report.CurrentScore), gradeLabel(report.CurrentScore, cfg))
	fmt.Fprintln(w)

	if len(report.Deltas) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Baseline", "Current", "Diff", "Worse"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range report.Deltas {
		worse := ""
		if d.IsWorse {
			worse = "yes"
		}
		data = append(data, []string{
			string(d.Name),
			formatVitalValue(d.Name, d.Baseline, fmtFloat),
			formatVitalValue(d.Name, d.Current, fmtFloat),
			formatVitalValue(d.Name, d.Diff, fmtFloat),
			worse,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
