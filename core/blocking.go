package core

import (
	"sort"

	"github.com/tracelens/tracelens/schema"
)

// Base impact scores by resource type. Types not listed are excluded
// from blocking analysis entirely.
const (
	stylesheetBaseImpact = 9
	scriptBaseImpact     = 8
	fontBaseImpact       = 6
)

// Blocking time bonus bands in milliseconds.
const (
	severeBlockingMs   = 1000 // +2 above this
	elevatedBlockingMs = 500  // +1 above this
)

// Blocking load assessments.
const (
	BlockingUnderControl = "under control"
	BlockingModerate     = "moderate"
	BlockingSevere       = "severe"
)

// blockingBase returns the base impact and reason for a record, or
// (0, "") when the record is not render-blocking.
func blockingBase(r *schema.ResourceRecord) (float64, string) {
	switch r.Type {
	case schema.StylesheetResource:
		return stylesheetBaseImpact, "stylesheet blocks first paint"
	case schema.ScriptResource:
		if r.Priority == schema.HighPriority || r.Priority == schema.VeryHighPriority {
			return scriptBaseImpact, "high-priority script blocks parsing"
		}
	case schema.FontResource:
		return fontBaseImpact, "font delays text rendering"
	}
	return 0, ""
}

// ScoreBlockingResources assigns a 0-10 impact score to every
// render-blocking resource. Blocking time is the wait plus receive
// phases; long blocking adds a bonus before the clamp to 10.
func ScoreBlockingResources(records []schema.ResourceRecord) schema.BlockingResult {
	resources := make([]schema.BlockingResource, 0)
	var totalBlocking float64
	var criticalCount, highImpactCount int

	for i := range records {
		r := &records[i]
		base, reason := blockingBase(r)
		if base == 0 {
			continue
		}

		blockingMs := r.Timing.Wait + r.Timing.Receive
		reasons := []string{reason}

		var bonus float64
		switch {
		case blockingMs > severeBlockingMs:
			bonus = 2
			reasons = append(reasons, "blocking time above 1s")
		case blockingMs > elevatedBlockingMs:
			bonus = 1
			reasons = append(reasons, "blocking time above 500ms")
		}

		impact := base + bonus
		if impact > 10 {
			impact = 10
		}

		if impact >= 9 {
			criticalCount++
		}
		if impact >= 7 {
			highImpactCount++
		}
		totalBlocking += blockingMs

		resources = append(resources, schema.BlockingResource{
			URL:            r.URL,
			Type:           r.Type,
			ImpactScore:    impact,
			BlockingTimeMs: blockingMs,
			SizeBytes:      r.SizeBytes,
			Reasons:        reasons,
		})
	}

	// Highest impact first; stable so ties keep ingestion order.
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].ImpactScore > resources[j].ImpactScore
	})

	return schema.BlockingResult{
		Resources:           resources,
		TotalBlockingTimeMs: totalBlocking,
		CriticalCount:       criticalCount,
		HighImpactCount:     highImpactCount,
		Assessment:          blockingAssessment(len(resources)),
	}
}

// blockingAssessment maps the number of blocking resources to its band.
func blockingAssessment(count int) string {
	switch {
	case count <= 3:
		return BlockingUnderControl
	case count <= 6:
		return BlockingModerate
	default:
		return BlockingSevere
	}
}
