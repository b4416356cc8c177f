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

// WriteHistoryEntries outputs archived runs newest-first, dispatching based on the output format configured.
func WriteHistoryEntries(entries []schema.HistoryEntry, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, entries, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(entries, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

// writeHistoryCSV writes one row per archived run with the vital values flattened.
func writeHistoryCSV(w io.Writer, entries []schema.HistoryEntry, fmtFloat func(float64) string) error {
	header := []string{"run_at", "test_name", "url", "score", "grade"}
	for _, name := range schema.AllMetrics {
		header = append(header, string(name))
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range entries {
			rec := []string{
				e.RunAt.Format(contract.DateTimeFormat),
				e.Snapshot.TestName,
				e.Snapshot.URL,
				fmtFloat(e.Snapshot.Composite.Score),
				contract.GetPlainGradeLabel(e.Snapshot.Composite.Score),
			}
			for _, name := range schema.AllMetrics {
				if vs, ok := e.Snapshot.Vitals[name]; ok {
					rec = append(rec, fmtFloat(vs.Value))
				} else {
					rec = append(rec, "")
				}
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHistoryTable prints the human-readable history table.
func writeHistoryTable(entries []schema.HistoryEntry, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No archived runs found.")
		return nil
	}

	headerLine(w, "🗄️", fmt.Sprintf("History for %s (%d runs, newest first)", entries[0].Snapshot.TestName, len(entries)), cfg)

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "Run At", "Score", "Grade"}
	if cfg.Detail {
		for _, name := range schema.AllMetrics {
			headers = append(headers, string(name))
		}
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, e := range entries {
		row := []string{
			strconv.Itoa(i + 1),
			e.RunAt.Format(contract.DateTimeFormat),
			fmtFloat(e.Snapshot.Composite.Score),
			gradeLabel(e.Snapshot.Composite.Score, cfg),
		}
		if cfg.Detail {
			for _, name := range schema.AllMetrics {
				if vs, ok := e.Snapshot.Vitals[name]; ok {
					row = append(row, formatVitalValue(name, vs.Value, fmtFloat))
				} else {
					row = append(row, "-")
				}
			}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
