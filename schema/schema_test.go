package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingPhasesTotal(t *testing.T) {
	timing := TimingPhases{DNS: 10, Connect: 20, SSL: 30, Send: 5, Wait: 100, Receive: 35}
	assert.InDelta(t, 200.0, timing.Total(), 1e-9)
	assert.Zero(t, TimingPhases{}.Total())
}

func TestTimingPhasesGet(t *testing.T) {
	timing := TimingPhases{DNS: 10, Connect: 20, SSL: 30, Send: 5, Wait: 100, Receive: 35}

	tests := []struct {
		phase    Phase
		expected float64
	}{
		{DNSPhase, 10},
		{ConnectPhase, 20},
		{SSLPhase, 30},
		{SendPhase, 5},
		{WaitPhase, 100},
		{ReceivePhase, 35},
		{Phase("bogus"), 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.InDelta(t, tt.expected, timing.Get(tt.phase), 1e-9)
		})
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{100, GradeTopTier},
		{90, GradeTopTier},
		{89.99, GradeExcellent},
		{80, GradeExcellent},
		{70, GradeGood},
		{60, GradeAcceptable},
		{50, GradeModerate},
		{49.99, GradePoor},
		{0, GradePoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GradeFor(tt.score), "score %v", tt.score)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	weights := GetDefaultWeights()
	assert.Len(t, weights, len(AllMetrics))

	var sum float64
	for _, name := range AllMetrics {
		w, ok := weights[name]
		assert.True(t, ok, "missing weight for %s", name)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestDefaultThresholdOrdering(t *testing.T) {
	thresholds := GetDefaultThresholds()
	assert.Len(t, thresholds, len(AllMetrics))

	for _, name := range AllMetrics {
		th, ok := thresholds[name]
		assert.True(t, ok, "missing thresholds for %s", name)
		assert.Less(t, th.Good, th.NeedsImprovement, "%s", name)
		assert.Greater(t, th.Good, 0.0, "%s", name)
	}
}

func TestRecordDurationMs(t *testing.T) {
	rec := ResourceRecord{Timing: TimingPhases{Wait: 120, Receive: 80}}
	assert.InDelta(t, 200.0, rec.DurationMs(), 1e-9)
}
