// Package ingest turns raw capture-layer fetch events into the
// canonical, immutable record sequence the pipeline consumes.
package ingest

import (
	"context"
	"fmt"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// CollectRecords pages through the record source until a page comes back
// empty or shorter than the requested page size, concatenating results
// into one ordered sequence. A failed page after the first is logged and
// iteration stops early with whatever was collected. A failure on page
// zero means the source itself is unreachable, not that one page was
// bad: nothing was collected, so it surfaces as a fatal CollectionError
// rather than an empty partial result.
func CollectRecords(ctx context.Context, src contract.RecordSource, pageSize int) ([]schema.ResourceRecord, error) {
	if src == nil {
		return nil, &contract.CollectionError{Op: "list", Err: fmt.Errorf("record source is not available")}
	}
	if pageSize <= 0 {
		pageSize = contract.DefaultPageSize
	}

	records := make([]schema.ResourceRecord, 0, pageSize)
	for pageIndex := 0; ; pageIndex++ {
		page, err := src.List(ctx, pageIndex, pageSize)
		if err != nil {
			if pageIndex == 0 {
				return nil, &contract.CollectionError{Op: "list", Err: err}
			}
			// Partial success: keep what was collected so far.
			contract.LogWarn(fmt.Sprintf("Record listing stopped at page %d", pageIndex), err)
			break
		}
		for i := range page {
			records = append(records, NormalizeRecord(&page[i]))
		}
		if len(page) < pageSize {
			break
		}
	}

	return records, nil
}

// NormalizeRecord maps one raw fetch event to its canonical form.
// Missing timing fields are already zero after decoding; negative values
// and unknown enum strings are clamped to safe fallbacks so a single
// malformed record never aborts the run.
func NormalizeRecord(raw *schema.RawRecord) schema.ResourceRecord {
	method := raw.Method
	if method == "" {
		method = "GET"
	}
	size := raw.Size
	if size < 0 {
		size = 0
	}
	return schema.ResourceRecord{
		URL:          raw.URL,
		Method:       method,
		Status:       raw.Status,
		Type:         schema.NormalizeResourceType(raw.ResourceType),
		SizeBytes:    size,
		Priority:     schema.NormalizePriority(raw.Priority),
		FromCache:    raw.FromCache,
		StartTimeSec: raw.StartTime,
		Timing: schema.TimingPhases{
			DNS:     clampMs(raw.Timing.DNS),
			Connect: clampMs(raw.Timing.Connect),
			SSL:     clampMs(raw.Timing.SSL),
			Send:    clampMs(raw.Timing.Send),
			Wait:    clampMs(raw.Timing.Wait),
			Receive: clampMs(raw.Timing.Receive),
		},
	}
}

// clampMs floors a phase duration at zero. Capture layers report -1 for
// phases that did not apply.
func clampMs(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
