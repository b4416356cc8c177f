package core

import (
	"fmt"
	"sort"

	"github.com/tracelens/tracelens/schema"
)

// Bottleneck detection thresholds.
const (
	dnsAvgThresholdMs      = 100
	dnsAvgHighMs           = 200
	connectAvgThresholdMs  = 150
	connectAvgHighMs       = 300
	waitAvgThresholdMs     = 300
	waitAvgCriticalMs      = 600
	largeResourceBytes     = 1024 * 1024 // 1MB
	largeResourceHighCount = 5
	domainQueueRequests    = 20
)

// Phase report statuses.
const (
	PhaseStatusNone     = "none"
	PhaseStatusSome     = "some"
	PhaseStatusMultiple = "multiple, needs attention"
)

// bottleneckFixes maps each bottleneck type to its fixed remediation hint.
var bottleneckFixes = map[schema.BottleneckType]string{
	schema.DNSBottleneck:           "Use dns-prefetch hints, reduce the number of distinct domains, or move to a faster DNS provider.",
	schema.ConnectionBottleneck:    "Enable keep-alive and HTTP/2 connection reuse, and use preconnect hints for critical origins.",
	schema.TTFBBottleneck:          "Cache responses at the edge, tune server-side rendering, or add a CDN closer to your users.",
	schema.LargeResourceBottleneck: "Compress, resize or lazy-load large assets; serve modern image formats and split large bundles.",
	schema.DomainQueueBottleneck:   "Consolidate assets onto fewer domains or shard intentionally to avoid per-origin queueing.",
}

// ComputePhaseStats aggregates each timing phase across all records
// where that phase is nonzero, tracking the slowest record per phase.
func ComputePhaseStats(records []schema.ResourceRecord) map[schema.Phase]schema.PhaseStat {
	stats := make(map[schema.Phase]schema.PhaseStat, len(schema.AllPhases))

	for _, phase := range schema.AllPhases {
		stat := schema.PhaseStat{Phase: phase}
		for i := range records {
			v := records[i].Timing.Get(phase)
			if v <= 0 {
				continue
			}
			stat.TotalMs += v
			stat.Count++
			if v > stat.SlowestMs {
				stat.SlowestMs = v
				stat.Slowest = records[i].URL
			}
		}
		if stat.Count > 0 {
			stat.AverageMs = stat.TotalMs / float64(stat.Count)
		}
		stats[phase] = stat
	}

	return stats
}

// DetectBottlenecks evaluates every bottleneck rule independently; rules
// are not mutually exclusive and a run can trip several at once.
func DetectBottlenecks(records []schema.ResourceRecord, stats map[schema.Phase]schema.PhaseStat) []schema.Bottleneck {
	bottlenecks := make([]schema.Bottleneck, 0)

	if dns := stats[schema.DNSPhase]; dns.AverageMs > dnsAvgThresholdMs {
		sev := schema.MediumSeverity
		if dns.AverageMs > dnsAvgHighMs {
			sev = schema.HighSeverity
		}
		bottlenecks = append(bottlenecks, schema.Bottleneck{
			Type:          schema.DNSBottleneck,
			Severity:      sev,
			MeasuredValue: dns.AverageMs,
			Issue:         fmt.Sprintf("Average DNS resolution takes %.0fms across %d lookups", dns.AverageMs, dns.Count),
			Fix:           bottleneckFixes[schema.DNSBottleneck],
		})
	}

	if conn := stats[schema.ConnectPhase]; conn.AverageMs > connectAvgThresholdMs {
		sev := schema.MediumSeverity
		if conn.AverageMs > connectAvgHighMs {
			sev = schema.HighSeverity
		}
		bottlenecks = append(bottlenecks, schema.Bottleneck{
			Type:          schema.ConnectionBottleneck,
			Severity:      sev,
			MeasuredValue: conn.AverageMs,
			Issue:         fmt.Sprintf("Average connection setup takes %.0fms across %d connections", conn.AverageMs, conn.Count),
			Fix:           bottleneckFixes[schema.ConnectionBottleneck],
		})
	}

	if wait := stats[schema.WaitPhase]; wait.AverageMs > waitAvgThresholdMs {
		sev := schema.HighSeverity
		if wait.AverageMs > waitAvgCriticalMs {
			sev = schema.CriticalSeverity
		}
		bottlenecks = append(bottlenecks, schema.Bottleneck{
			Type:          schema.TTFBBottleneck,
			Severity:      sev,
			MeasuredValue: wait.AverageMs,
			Issue:         fmt.Sprintf("Average time to first byte is %.0fms across %d requests", wait.AverageMs, wait.Count),
			Fix:           bottleneckFixes[schema.TTFBBottleneck],
		})
	}

	var largeCount int
	for i := range records {
		if records[i].SizeBytes > largeResourceBytes {
			largeCount++
		}
	}
	if largeCount > 0 {
		sev := schema.MediumSeverity
		if largeCount > largeResourceHighCount {
			sev = schema.HighSeverity
		}
		bottlenecks = append(bottlenecks, schema.Bottleneck{
			Type:          schema.LargeResourceBottleneck,
			Severity:      sev,
			MeasuredValue: float64(largeCount),
			Issue:         fmt.Sprintf("%d resources exceed 1MB", largeCount),
			Fix:           bottleneckFixes[schema.LargeResourceBottleneck],
		})
	}

	for _, oc := range originsOverQueueLimit(records) {
		bottlenecks = append(bottlenecks, schema.Bottleneck{
			Type:          schema.DomainQueueBottleneck,
			Severity:      schema.MediumSeverity,
			MeasuredValue: float64(oc.count),
			Issue:         fmt.Sprintf("%d requests to %s may queue behind per-origin connection limits", oc.count, oc.origin),
			Fix:           bottleneckFixes[schema.DomainQueueBottleneck],
		})
	}

	return bottlenecks
}

// originCount pairs an origin with its request count.
type originCount struct {
	origin string
	count  int
}

// originsOverQueueLimit returns every origin whose request count exceeds
// the per-origin queueing limit, busiest first. Ties break on the
// lexically smaller origin for determinism.
func originsOverQueueLimit(records []schema.ResourceRecord) []originCount {
	counts := make(map[string]int)
	for i := range records {
		counts[schema.OriginOf(records[i].URL)]++
	}

	over := make([]originCount, 0)
	for origin, count := range counts {
		if count > domainQueueRequests {
			over = append(over, originCount{origin: origin, count: count})
		}
	}
	sort.Slice(over, func(i, j int) bool {
		if over[i].count != over[j].count {
			return over[i].count > over[j].count
		}
		return over[i].origin < over[j].origin
	})
	return over
}

// AnalyzePhases combines phase statistics with bottleneck detection into
// a single report.
func AnalyzePhases(records []schema.ResourceRecord) schema.PhaseReport {
	stats := ComputePhaseStats(records)
	bottlenecks := DetectBottlenecks(records, stats)
	return schema.PhaseReport{
		Stats:       stats,
		Bottlenecks: bottlenecks,
		Status:      phaseStatus(len(bottlenecks)),
	}
}

// phaseStatus maps the bottleneck count to the overall report status.
func phaseStatus(count int) string {
	switch {
	case count == 0:
		return PhaseStatusNone
	case count <= 2:
		return PhaseStatusSome
	default:
		return PhaseStatusMultiple
	}
}
