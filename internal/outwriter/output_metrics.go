package outwriter

import (
	"fmt"
	"io"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// metricInfo describes one vital metric for the definitions display.
type metricInfo struct {
	Name        schema.MetricName `json:"name"`
	Description string            `json:"description"`
	Unit        string            `json:"unit"`
	Weight      float64           `json:"weight"`
	Good        float64           `json:"good"`
	NeedsImpr   float64           `json:"needs_improvement"`
}

// metricDescriptions holds the human descriptions of the vital metrics.
var metricDescriptions = map[schema.MetricName]string{
	schema.LCPMetric: "Largest Contentful Paint - render time of the largest visible element",
	schema.FIDMetric: "First Input Delay - delay before the first user interaction is handled",
	schema.CLSMetric: "Cumulative Layout Shift - visual stability of the page while loading",
	schema.FCPMetric: "First Contentful Paint - time until any content is rendered",
	schema.TTIMetric: "Time to Interactive - time until the page reliably responds to input",
	schema.TBTMetric: "Total Blocking Time - main-thread blockage between FCP and TTI",
}

// WriteMetricsDefinitions displays the formal definitions of all vital metrics,
// their active weights and thresholds, and the supported budget keys.
func WriteMetricsDefinitions(cfg *contract.Config) error {
	infos := buildMetricInfos(cfg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, infos)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(infos, cfg, w)
		}, "Wrote table")
	}
}

// buildMetricInfos assembles per-metric rows from the active configuration,
// falling back to defaults when the config carries no overrides.
func buildMetricInfos(cfg *contract.Config) []metricInfo {
	weights := cfg.VitalWeights
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	thresholds := cfg.VitalThresholds
	if thresholds == nil {
		thresholds = schema.GetDefaultThresholds()
	}

	infos := make([]metricInfo, 0, len(schema.AllMetrics))
	for _, name := range schema.AllMetrics {
		unit := "ms"
		if name == schema.CLSMetric {
			unit = "unitless"
		}
		th := thresholds[name]
		infos = append(infos, metricInfo{
			Name:        name,
			Description: metricDescriptions[name],
			Unit:        unit,
			Weight:      weights[name],
			Good:        th.Good,
			NeedsImpr:   th.NeedsImprovement,
		})
	}
	return infos
}

// writeMetricsTable prints the human-readable definitions table.
func writeMetricsTable(infos []metricInfo, cfg *contract.Config, w io.Writer) error {
	headerLine(w, "📖", "Vital Metric Definitions", cfg)
	fmt.Fprintln(w, "Composite score = weighted sum of per-metric scores, minus insight deductions")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Unit", "Weight", "Good", "Needs Improvement", "Description"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, info := range infos {
		data = append(data, []string{
			string(info.Name),
			info.Unit,
			fmt.Sprintf("%.2f", info.Weight),
			fmt.Sprintf("%g", info.Good),
			fmt.Sprintf("%g", info.NeedsImpr),
			info.Description,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Budget keys:")
	for _, key := range schema.AllBudgetMetrics {
		fmt.Fprintf(w, "  %s\n", key)
	}
	return nil
}
