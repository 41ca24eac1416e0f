package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatSeries builds n days of identical activity starting 2026-01-01.
func flatSeries(n int, d DailyMetric) []DailyMetric {
	out := make([]DailyMetric, n)
	for i := 0; i < n; i++ {
		day := d
		day.Date = fmt.Sprintf("2026-01-%02d", i+1)
		out[i] = day
	}
	return out
}

func TestAggregateDerivesRatiosFromSums(t *testing.T) {
	series := []DailyMetric{
		{Date: "2026-01-01", Impressions: 1000, Clicks: 10, Spend: 20, Conversions: 1, ConversionValue: 30},
		{Date: "2026-01-02", Impressions: 3000, Clicks: 90, Spend: 80, Conversions: 9, ConversionValue: 170},
	}

	agg := aggregate(series)
	assert.Equal(t, "2026-01-01", agg.StartDate)
	assert.Equal(t, "2026-01-02", agg.EndDate)
	assert.Equal(t, 2, agg.Days)

	// 100 clicks / 4000 impressions, not the mean of per-day CTRs.
	assert.InDelta(t, 2.5, agg.CTR, 1e-9)
	assert.InDelta(t, 1.0, agg.CPC, 1e-9)
	assert.InDelta(t, 25.0, agg.CPM, 1e-9)
	assert.InDelta(t, 10.0, agg.ConversionRate, 1e-9)
	assert.InDelta(t, 10.0, agg.CostPerConversion, 1e-9)
	assert.InDelta(t, 2.0, agg.ROAS, 1e-9)
	assert.InDelta(t, 100.0, agg.ROI, 1e-9)
}

func TestAggregateZeroDenominators(t *testing.T) {
	agg := aggregate(flatSeries(3, DailyMetric{}))
	assert.Zero(t, agg.CTR)
	assert.Zero(t, agg.CPC)
	assert.Zero(t, agg.CPM)
	assert.Zero(t, agg.ConversionRate)
	assert.Zero(t, agg.CostPerConversion)
	assert.Zero(t, agg.ROAS)
	assert.Zero(t, agg.ROI)
}

func TestTrailingRollingFullWindowsOnly(t *testing.T) {
	series := flatSeries(10, DailyMetric{Impressions: 100, Clicks: 5})

	rolling := TrailingRolling(series, 7)
	require.Len(t, rolling, 4) // ends at days 7..10

	for _, w := range rolling {
		assert.Equal(t, 7, w.Days)
		assert.Equal(t, int64(700), w.Impressions)
	}
	assert.Equal(t, "2026-01-01", rolling[0].StartDate)
	assert.Equal(t, "2026-01-07", rolling[0].EndDate)
	assert.Equal(t, "2026-01-10", rolling[3].EndDate)
}

func TestTrailingRollingShortSeries(t *testing.T) {
	series := flatSeries(5, DailyMetric{Impressions: 100})
	assert.Nil(t, TrailingRolling(series, 7))
}

func TestPeriodRollupOffsets(t *testing.T) {
	series := flatSeries(14, DailyMetric{Spend: 10})

	last7 := PeriodRollup(series, 7, 0)
	prior7 := PeriodRollup(series, 7, 7)

	assert.Equal(t, 7, last7.Days)
	assert.Equal(t, "2026-01-08", last7.StartDate)
	assert.Equal(t, "2026-01-14", last7.EndDate)

	assert.Equal(t, 7, prior7.Days)
	assert.Equal(t, "2026-01-01", prior7.StartDate)
	assert.Equal(t, "2026-01-07", prior7.EndDate)
}

func TestPeriodRollupPartialWindow(t *testing.T) {
	series := flatSeries(10, DailyMetric{Spend: 10})

	w := PeriodRollup(series, 30, 0)
	assert.Equal(t, 10, w.Days)
	assert.InDelta(t, 100.0, w.Spend, 1e-9)

	// Nothing left before the window.
	empty := PeriodRollup(series, 30, 30)
	assert.Zero(t, empty.Days)
	assert.Zero(t, empty.Spend)
}
