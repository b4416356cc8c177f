// Package schema has configs, models and shared constants for all parts of tracelens.
package schema

// TimingPhases holds the six network timing phases for a single resource
// fetch, each in milliseconds. A record's duration is the sum of all six.
type TimingPhases struct {
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// Total returns the summed duration of all six phases in milliseconds.
func (t TimingPhases) Total() float64 {
	return t.DNS + t.Connect + t.SSL + t.Send + t.Wait + t.Receive
}

// Get returns the value of a single phase by name. Unknown phases return 0.
func (t TimingPhases) Get(p Phase) float64 {
	switch p {
	case DNSPhase:
		return t.DNS
	case ConnectPhase:
		return t.Connect
	case SSLPhase:
		return t.SSL
	case SendPhase:
		return t.Send
	case WaitPhase:
		return t.Wait
	case ReceivePhase:
		return t.Receive
	default:
		return 0
	}
}

// ResourceRecord is the canonical, immutable form of a single fetched
// resource. Records are created once at ingestion and never mutated by
// the analysis pipeline.
type ResourceRecord struct {
	URL          string       `json:"url"`
	Method       string       `json:"method"`
	Status       int          `json:"status"`
	Type         ResourceType `json:"resource_type"`
	SizeBytes    int64        `json:"size_bytes"`
	Priority     Priority     `json:"priority"`
	FromCache    bool         `json:"from_cache"`
	StartTimeSec float64      `json:"start_time_sec"` // Offset from navigation start, in seconds
	Timing       TimingPhases `json:"timing"`
}

// DurationMs returns the total fetch duration of the record in milliseconds.
func (r *ResourceRecord) DurationMs() float64 {
	return r.Timing.Total()
}
