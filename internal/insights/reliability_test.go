package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReliabilityReferenceWindow(t *testing.T) {
	busy := WindowAggregate{Clicks: 500, Impressions: 5000, Conversions: 50}
	quiet := WindowAggregate{Clicks: 1, Impressions: 10}

	// Under 14 days only last7 exists.
	s := newReliabilityScorer(busy, quiet, 10)
	assert.Equal(t, ReliabilityHigh, s.Score(MetricCTR))

	// With 14+ days prior7 is the established reference, not the week under
	// judgement.
	s = newReliabilityScorer(busy, quiet, 14)
	assert.Equal(t, ReliabilityMedium, s.Score(MetricCTR))

	s = newReliabilityScorer(quiet, busy, 14)
	assert.Equal(t, ReliabilityHigh, s.Score(MetricCTR))
}

func TestReliabilityTiers(t *testing.T) {
	full := WindowAggregate{Clicks: 200, Impressions: 20000, Conversions: 25}
	clicksOnly := WindowAggregate{Clicks: 200, Impressions: 500}
	empty := WindowAggregate{}

	tests := []struct {
		name   string
		ref    WindowAggregate
		metric Metric
		want   Reliability
	}{
		{"conversion metric all gates", full, MetricConversionRate, ReliabilityHigh},
		{"conversion metric clicks only", clicksOnly, MetricConversionRate, ReliabilityMedium},
		{"conversion metric no volume", empty, MetricConversions, ReliabilityLow},

		// Revenue metrics never reach high: value data is too noisy.
		{"roas with conversions", full, MetricROAS, ReliabilityMedium},
		{"roi with conversions", full, MetricROI, ReliabilityMedium},
		{"roas without conversions", clicksOnly, MetricROAS, ReliabilityLow},

		{"traffic metric full volume", full, MetricCTR, ReliabilityHigh},
		{"traffic metric some volume", clicksOnly, MetricCPC, ReliabilityMedium},
		{"traffic metric no volume", empty, MetricImpressions, ReliabilityLow},

		{"share with heavy impressions", full, MetricSearchImpressionShare, ReliabilityHigh},
		{"share with light impressions", WindowAggregate{Impressions: 2000}, MetricSearchImpressionShare, ReliabilityMedium},
		{"share with no impressions", empty, MetricSearchImpressionShare, ReliabilityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &reliabilityScorer{ref: tt.ref, availableDays: 30}
			assert.Equal(t, tt.want, s.Score(tt.metric))
		})
	}
}
