// Package core has core logic for timeline, analysis, scoring and regression detection.
package core

import (
	"sort"

	"github.com/tracelens/tracelens/schema"
)

// BuildTimeline orders records into a waterfall view of relative start
// offsets and durations. The sort is stable: entries with equal relative
// start keep their original ingestion order, which keeps downstream
// output deterministic.
func BuildTimeline(records []schema.ResourceRecord) schema.Timeline {
	if len(records) == 0 {
		return schema.Timeline{Entries: []schema.TimelineEntry{}}
	}

	pageStart := records[0].StartTimeSec
	for _, r := range records[1:] {
		if r.StartTimeSec < pageStart {
			pageStart = r.StartTimeSec
		}
	}

	entries := make([]schema.TimelineEntry, 0, len(records))
	for i, r := range records {
		entries = append(entries, schema.TimelineEntry{
			URL:             r.URL,
			Type:            r.Type,
			RelativeStartMs: (r.StartTimeSec - pageStart) * 1000.0,
			DurationMs:      r.Timing.Total(),
			Index:           i,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RelativeStartMs < entries[j].RelativeStartMs
	})

	var total float64
	for _, e := range entries {
		if end := e.RelativeStartMs + e.DurationMs; end > total {
			total = end
		}
	}

	return schema.Timeline{Entries: entries, TotalTimeMs: total}
}
