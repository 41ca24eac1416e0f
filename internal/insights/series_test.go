package insights

import (
	"testing"

	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSumsRecordsPerDate(t *testing.T) {
	records := []models.RawMetricRecord{
		{Date: "2026-01-02", CampaignID: "b", Impressions: 500, Clicks: 10, Spend: 25.5},
		{Date: "2026-01-01", CampaignID: "a", Impressions: 1000, Clicks: 20, Spend: 50, Conversions: 2, ConversionValue: 80},
		{Date: "2026-01-01", CampaignID: "b", Impressions: 2000, Clicks: 30, Spend: 70, Conversions: 3, ConversionValue: 120},
	}

	daily := Normalize(records)
	require.Len(t, daily, 2)

	// Ascending by date regardless of input order.
	assert.Equal(t, "2026-01-01", daily[0].Date)
	assert.Equal(t, "2026-01-02", daily[1].Date)

	assert.Equal(t, int64(3000), daily[0].Impressions)
	assert.Equal(t, int64(50), daily[0].Clicks)
	assert.Equal(t, 120.0, daily[0].Spend)
	assert.Equal(t, 5.0, daily[0].Conversions)
	assert.Equal(t, 200.0, daily[0].ConversionValue)
}

func TestNormalizeAveragesImpressionShareOverReporters(t *testing.T) {
	records := []models.RawMetricRecord{
		{Date: "2026-01-01", CampaignID: "a", SearchImpressionShare: 40},
		{Date: "2026-01-01", CampaignID: "b", SearchImpressionShare: 60},
		{Date: "2026-01-01", CampaignID: "c", SearchImpressionShare: 0}, // not reported
	}

	daily := Normalize(records)
	require.Len(t, daily, 1)
	assert.Equal(t, 50.0, daily[0].SearchImpressionShare)
}

func TestNormalizeSkipsEmptyDates(t *testing.T) {
	records := []models.RawMetricRecord{
		{Date: "", Impressions: 100},
		{Date: "2026-01-01", Impressions: 50},
	}

	daily := Normalize(records)
	require.Len(t, daily, 1)
	assert.Equal(t, int64(50), daily[0].Impressions)
}

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
