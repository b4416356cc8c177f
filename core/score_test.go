package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/schema"
)

// TestScoreVital checks the banding function at and around its
// boundaries. Lower is better for every metric, CLS included.
func TestScoreVital(t *testing.T) {
	th := schema.VitalThresholds{Good: 2500, NeedsImprovement: 4000}

	tests := []struct {
		name           string
		value          float64
		expectedStatus schema.MetricStatus
		expectedScore  float64
	}{
		{name: "zero", value: 0, expectedStatus: schema.GoodStatus, expectedScore: 100},
		{name: "good boundary inclusive", value: 2500, expectedStatus: schema.GoodStatus, expectedScore: 100},
		{name: "mid needs improvement", value: 3250, expectedStatus: schema.NeedsImprovementStatus, expectedScore: 75},
		{name: "ni boundary inclusive", value: 4000, expectedStatus: schema.NeedsImprovementStatus, expectedScore: 50},
		{name: "poor halfway to double", value: 6000, expectedStatus: schema.PoorStatus, expectedScore: 25},
		{name: "poor floors at zero", value: 20000, expectedStatus: schema.PoorStatus, expectedScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, score := scoreVital(tt.value, th)
			assert.Equal(t, tt.expectedStatus, status)
			assert.InDelta(t, tt.expectedScore, score, 1e-9)
		})
	}
}

// TestBuildVitalMetrics verifies canonical ordering and that missing
// metrics are skipped rather than scored as zero.
func TestBuildVitalMetrics(t *testing.T) {
	values := map[schema.MetricName]float64{
		schema.TBTMetric: 100,
		schema.LCPMetric: 2000,
		// FID, CLS, FCP, TTI absent.
	}

	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())
	require.Len(t, metrics, 2)
	assert.Equal(t, schema.LCPMetric, metrics[0].Name)
	assert.Equal(t, schema.TBTMetric, metrics[1].Name)
	assert.InDelta(t, 0.25, metrics[0].Weight, 1e-9)
	assert.Equal(t, schema.GoodStatus, metrics[0].Status)
}

// TestComputeCompositeScoreAllGood checks that a run with every metric
// in the good band and no insights scores 100.
func TestComputeCompositeScoreAllGood(t *testing.T) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 2000, schema.FIDMetric: 50, schema.CLSMetric: 0.05,
		schema.FCPMetric: 1500, schema.TTIMetric: 3000, schema.TBTMetric: 150,
	}
	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())

	composite := ComputeCompositeScore(metrics, schema.InsightCounts{})
	assert.InDelta(t, 100.0, composite.Score, 1e-9)
	assert.Equal(t, schema.GradeTopTier, composite.Grade)
	assert.Len(t, composite.Breakdown, 6)
}

// TestComputeCompositeScoreWeightedMix verifies the weighted sum: LCP at
// its needs-improvement boundary scores 50, and with default weights the
// composite is 0.25*50 + 0.75*100 = 87.5.
func TestComputeCompositeScoreWeightedMix(t *testing.T) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 4000, schema.FIDMetric: 50, schema.CLSMetric: 0.05,
		schema.FCPMetric: 1500, schema.TTIMetric: 3000, schema.TBTMetric: 150,
	}
	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())

	composite := ComputeCompositeScore(metrics, schema.InsightCounts{})
	assert.InDelta(t, 87.5, composite.Score, 1e-9)
	assert.Equal(t, schema.GradeExcellent, composite.Grade)
	assert.InDelta(t, 12.5, composite.Breakdown[schema.LCPMetric], 1e-9)
}

// TestComputeCompositeScorePoorBandMix verifies the poor-band
// interpolation feeding the weighted sum: LCP at 5000 scores
// 50*(1-1000/4000) = 37.5, so the composite is 0.25*37.5 + 0.75*100 =
// 84.375.
func TestComputeCompositeScorePoorBandMix(t *testing.T) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 5000, schema.FIDMetric: 50, schema.CLSMetric: 0.05,
		schema.FCPMetric: 1500, schema.TTIMetric: 3000, schema.TBTMetric: 150,
	}
	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())

	composite := ComputeCompositeScore(metrics, schema.InsightCounts{})
	assert.InDelta(t, 84.375, composite.Score, 1e-9)
	assert.Equal(t, schema.GradeExcellent, composite.Grade)
	assert.InDelta(t, 9.375, composite.Breakdown[schema.LCPMetric], 1e-9)
	assert.Contains(t, composite.Verdict, "poor band")
}

// TestCompositeScoreMonotonicPerMetric sweeps each metric across all
// three bands while holding the others in the good band, and checks the
// composite never increases as the metric worsens.
func TestCompositeScoreMonotonicPerMetric(t *testing.T) {
	weights := schema.GetDefaultWeights()
	thresholds := schema.GetDefaultThresholds()
	good := map[schema.MetricName]float64{
		schema.LCPMetric: 2000, schema.FIDMetric: 50, schema.CLSMetric: 0.05,
		schema.FCPMetric: 1500, schema.TTIMetric: 3000, schema.TBTMetric: 150,
	}

	for _, name := range schema.AllMetrics {
		t.Run(string(name), func(t *testing.T) {
			th := thresholds[name]
			sweep := []float64{
				0,
				th.Good / 2,
				th.Good,
				(th.Good + th.NeedsImprovement) / 2,
				th.NeedsImprovement,
				th.NeedsImprovement * 1.5,
				th.NeedsImprovement * 2,
				th.NeedsImprovement * 3,
			}

			prev := 101.0
			for _, v := range sweep {
				values := make(map[schema.MetricName]float64, len(good))
				for k, fixed := range good {
					values[k] = fixed
				}
				values[name] = v

				metrics := BuildVitalMetrics(values, weights, thresholds)
				composite := ComputeCompositeScore(metrics, schema.InsightCounts{})
				assert.LessOrEqual(t, composite.Score, prev+1e-9, "value %v raised the composite", v)
				prev = composite.Score
			}
		})
	}
}

// TestComputeCompositeScoreInsightDeductions verifies the per-severity
// deductions and the floor at zero.
func TestComputeCompositeScoreInsightDeductions(t *testing.T) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 2000, schema.FIDMetric: 50, schema.CLSMetric: 0.05,
		schema.FCPMetric: 1500, schema.TTIMetric: 3000, schema.TBTMetric: 150,
	}
	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())

	t.Run("mixed deductions", func(t *testing.T) {
		composite := ComputeCompositeScore(metrics, schema.InsightCounts{Critical: 2, Warning: 3, Info: 4})
		// 100 - 2*5 - 3*2 - 4*0.5 = 82
		assert.InDelta(t, 82.0, composite.Score, 1e-9)
	})

	t.Run("floor at zero", func(t *testing.T) {
		composite := ComputeCompositeScore(metrics, schema.InsightCounts{Critical: 30})
		assert.Zero(t, composite.Score)
		assert.Equal(t, schema.GradePoor, composite.Grade)
	})
}

// TestCompositeVerdict covers the verdict branches.
func TestCompositeVerdict(t *testing.T) {
	poor := []schema.VitalMetric{{Name: schema.LCPMetric, Status: schema.PoorStatus}}
	assert.Contains(t, compositeVerdict(30, poor), "poor band")

	needs := []schema.VitalMetric{{Name: schema.LCPMetric, Status: schema.NeedsImprovementStatus}}
	assert.Contains(t, compositeVerdict(75, needs), "need improvement")

	good := []schema.VitalMetric{{Name: schema.LCPMetric, Status: schema.GoodStatus}}
	assert.Equal(t, "all vitals within good thresholds", compositeVerdict(95, good))
	assert.Equal(t, "vitals healthy, score reduced by insights", compositeVerdict(85, good))
}

// BenchmarkComputeCompositeScore benchmarks the composite scorer.
func BenchmarkComputeCompositeScore(b *testing.B) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 3200, schema.FIDMetric: 120, schema.CLSMetric: 0.15,
		schema.FCPMetric: 2100, schema.TTIMetric: 5000, schema.TBTMetric: 450,
	}
	metrics := BuildVitalMetrics(values, schema.GetDefaultWeights(), schema.GetDefaultThresholds())
	insights := schema.InsightCounts{Critical: 1, Warning: 2, Info: 3}

	for b.Loop() {
		ComputeCompositeScore(metrics, insights)
	}
}

// BenchmarkBuildVitalMetrics benchmarks metric banding.
func BenchmarkBuildVitalMetrics(b *testing.B) {
	values := map[schema.MetricName]float64{
		schema.LCPMetric: 3200, schema.FIDMetric: 120, schema.CLSMetric: 0.15,
		schema.FCPMetric: 2100, schema.TTIMetric: 5000, schema.TBTMetric: 450,
	}
	weights := schema.GetDefaultWeights()
	thresholds := schema.GetDefaultThresholds()

	for b.Loop() {
		BuildVitalMetrics(values, weights, thresholds)
	}
}
