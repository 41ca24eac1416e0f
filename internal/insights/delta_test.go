package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaConvention(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		prior   float64
		want    float64
	}{
		{"both zero", 0, 0, 0},
		{"appeared from nothing", 5, 0, 100},
		{"appeared from nothing large", 10000, 0, 100},
		{"dropped to zero", 0, 5, -100},
		{"up fifty percent", 150, 100, 50},
		{"down half", 50, 100, -50},
		{"doubled", 200, 100, 100},
		{"unchanged", 42, 42, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Delta(tt.current, tt.prior), 1e-9)
		})
	}
}

func TestDeltasCoversAllMetrics(t *testing.T) {
	current := WindowAggregate{Impressions: 200, Clicks: 20, Spend: 100}
	prior := WindowAggregate{Impressions: 100, Clicks: 20}

	ds := Deltas(current, prior)
	assert.Len(t, ds, len(AllMetrics))
	assert.InDelta(t, 100.0, ds[MetricImpressions], 1e-9)
	assert.InDelta(t, 0.0, ds[MetricClicks], 1e-9)
	assert.InDelta(t, 100.0, ds[MetricSpend], 1e-9) // appeared from nothing
	assert.InDelta(t, 0.0, ds[MetricConversions], 1e-9)
}
