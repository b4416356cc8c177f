package schema

import (
	"net/url"
	"strings"
)

// OriginOf extracts the origin (host) of a resource URL for per-domain
// grouping. Unparseable URLs fall back to the raw string so that they
// still group together.
func OriginOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// NormalizeResourceType maps a free-form capture-layer type string to a
// canonical ResourceType, defaulting to OtherResource.
func NormalizeResourceType(s string) ResourceType {
	rt := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidResourceTypes[rt]; ok {
		return rt
	}
	return OtherResource
}

// NormalizePriority maps a free-form priority string to a canonical
// Priority, defaulting to MediumPriority.
func NormalizePriority(s string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidPriorities[p]; ok {
		return p
	}
	return MediumPriority
}

// SnapshotVitals converts scored metrics into their persisted form.
func SnapshotVitals(metrics []VitalMetric) map[MetricName]VitalSnapshot {
	snap := make(map[MetricName]VitalSnapshot, len(metrics))
	for _, m := range metrics {
		snap[m.Name] = VitalSnapshot{Value: m.Value, Status: m.Status, Score: m.Score}
	}
	return snap
}
