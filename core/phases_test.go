package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/schema"
)

// TestComputePhaseStats verifies per-phase aggregation over nonzero
// samples only.
func TestComputePhaseStats(t *testing.T) {
	records := []schema.ResourceRecord{
		{URL: "a", Timing: schema.TimingPhases{DNS: 20, Wait: 100}},
		{URL: "b", Timing: schema.TimingPhases{DNS: 40, Wait: 300}},
		{URL: "c", Timing: schema.TimingPhases{Wait: 200}}, // no DNS sample
	}

	stats := ComputePhaseStats(records)

	dns := stats[schema.DNSPhase]
	assert.Equal(t, 2, dns.Count)
	assert.InDelta(t, 60.0, dns.TotalMs, 1e-9)
	assert.InDelta(t, 30.0, dns.AverageMs, 1e-9)
	assert.InDelta(t, 40.0, dns.SlowestMs, 1e-9)
	assert.Equal(t, "b", dns.Slowest)

	wait := stats[schema.WaitPhase]
	assert.Equal(t, 3, wait.Count)
	assert.InDelta(t, 200.0, wait.AverageMs, 1e-9)
	assert.Equal(t, "b", wait.Slowest)

	// Phases with no samples carry zero values but still exist.
	ssl := stats[schema.SSLPhase]
	assert.Zero(t, ssl.Count)
	assert.Zero(t, ssl.AverageMs)
}

// TestDetectBottlenecks exercises each rule independently.
func TestDetectBottlenecks(t *testing.T) {
	t.Run("slow dns", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{DNS: 150}},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.DNSBottleneck, bottlenecks[0].Type)
		assert.Equal(t, schema.MediumSeverity, bottlenecks[0].Severity)
		assert.NotEmpty(t, bottlenecks[0].Fix)
	})

	t.Run("very slow dns escalates", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{DNS: 250}},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.HighSeverity, bottlenecks[0].Severity)
	})

	t.Run("slow connection", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{Connect: 200}},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.ConnectionBottleneck, bottlenecks[0].Type)
	})

	t.Run("slow ttfb critical", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{Wait: 700}},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.TTFBBottleneck, bottlenecks[0].Type)
		assert.Equal(t, schema.CriticalSeverity, bottlenecks[0].Severity)
	})

	t.Run("large resources", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "big", SizeBytes: 2 * 1024 * 1024},
			{URL: "small", SizeBytes: 1024},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.LargeResourceBottleneck, bottlenecks[0].Type)
		assert.InDelta(t, 1.0, bottlenecks[0].MeasuredValue, 1e-9)
	})

	t.Run("domain queueing", func(t *testing.T) {
		records := make([]schema.ResourceRecord, 0, 21)
		for range 21 {
			records = append(records, schema.ResourceRecord{URL: "https://cdn.test/asset"})
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 1)
		assert.Equal(t, schema.DomainQueueBottleneck, bottlenecks[0].Type)
		assert.InDelta(t, 21.0, bottlenecks[0].MeasuredValue, 1e-9)
	})

	t.Run("domain queueing per origin", func(t *testing.T) {
		records := make([]schema.ResourceRecord, 0, 64)
		for range 21 {
			records = append(records, schema.ResourceRecord{URL: "https://cdn-b.test/asset"})
		}
		for range 25 {
			records = append(records, schema.ResourceRecord{URL: "https://cdn-a.test/asset"})
		}
		for range 10 {
			records = append(records, schema.ResourceRecord{URL: "https://quiet.test/asset"})
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		require.Len(t, bottlenecks, 2)
		assert.Equal(t, schema.DomainQueueBottleneck, bottlenecks[0].Type)
		assert.InDelta(t, 25.0, bottlenecks[0].MeasuredValue, 1e-9)
		assert.Contains(t, bottlenecks[0].Issue, "cdn-a.test")
		assert.InDelta(t, 21.0, bottlenecks[1].MeasuredValue, 1e-9)
		assert.Contains(t, bottlenecks[1].Issue, "cdn-b.test")
	})

	t.Run("clean run", func(t *testing.T) {
		records := []schema.ResourceRecord{
			{URL: "a", SizeBytes: 1024, Timing: schema.TimingPhases{DNS: 10, Connect: 20, Wait: 50}},
		}
		bottlenecks := DetectBottlenecks(records, ComputePhaseStats(records))
		assert.Empty(t, bottlenecks)
	})
}

// TestAnalyzePhasesStatus checks the overall status bands.
func TestAnalyzePhasesStatus(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		report := AnalyzePhases([]schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{Wait: 50}},
		})
		assert.Equal(t, PhaseStatusNone, report.Status)
	})

	t.Run("some", func(t *testing.T) {
		report := AnalyzePhases([]schema.ResourceRecord{
			{URL: "a", Timing: schema.TimingPhases{DNS: 150, Wait: 400}},
		})
		assert.Len(t, report.Bottlenecks, 2)
		assert.Equal(t, PhaseStatusSome, report.Status)
	})

	t.Run("multiple", func(t *testing.T) {
		report := AnalyzePhases([]schema.ResourceRecord{
			{URL: "a", SizeBytes: 2 * 1024 * 1024, Timing: schema.TimingPhases{DNS: 150, Connect: 200, Wait: 400}},
		})
		assert.Len(t, report.Bottlenecks, 4)
		assert.Equal(t, PhaseStatusMultiple, report.Status)
	})
}

// TestOriginsOverQueueLimit checks per-origin grouping, the limit
// cutoff, and the deterministic ordering.
func TestOriginsOverQueueLimit(t *testing.T) {
	records := make([]schema.ResourceRecord, 0, 64)
	for range 21 {
		records = append(records, schema.ResourceRecord{URL: "https://b.test/asset"})
	}
	for range 21 {
		records = append(records, schema.ResourceRecord{URL: "https://a.test/asset"})
	}
	for range 20 {
		records = append(records, schema.ResourceRecord{URL: "https://under.test/asset"})
	}

	over := originsOverQueueLimit(records)
	require.Len(t, over, 2)

	// Equal counts order on the lexically smaller origin.
	assert.Equal(t, originCount{origin: "a.test", count: 21}, over[0])
	assert.Equal(t, originCount{origin: "b.test", count: 21}, over[1])

	assert.Empty(t, originsOverQueueLimit(nil))
}
