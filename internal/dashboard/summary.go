package dashboard

import (
	"github.com/marketpulse/pulse-api/internal/insights"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/marketpulse/pulse-api/internal/storage"
	"go.uber.org/zap"
)

// SummaryCard is one headline metric tile: the 30-day value with its change
// against the 30 days before.
type SummaryCard struct {
	Metric string  `json:"metric"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`

	Display       string `json:"display"`
	DisplayChange string `json:"display_change"`
}

// Summary is the dashboard header payload.
type Summary struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	AvailableDays int           `json:"available_days"`
	Cards         []SummaryCard `json:"cards"`
}

// summaryMetrics is the fixed card order shown on the dashboard header.
var summaryMetrics = []insights.Metric{
	insights.MetricSpend,
	insights.MetricImpressions,
	insights.MetricClicks,
	insights.MetricConversions,
	insights.MetricConversionValue,
	insights.MetricCTR,
	insights.MetricCPC,
	insights.MetricROAS,
}

// SummaryService builds the headline metric cards.
type SummaryService struct {
	store  storage.MetricStore
	logger *zap.Logger
}

func NewSummaryService(store storage.MetricStore, logger *zap.Logger) *SummaryService {
	return &SummaryService{store: store, logger: logger}
}

// Build loads the stored records in range and computes last-30-days cards
// against the prior 30 days.  Deltas follow the engine's convention, so a
// metric appearing from nothing reads +100%.
func (s *SummaryService) Build(from, to string) (*Summary, error) {
	records, err := s.store.ListRecords(from, to)
	if err != nil {
		return nil, err
	}
	return buildSummary(records), nil
}

func buildSummary(records []models.RawMetricRecord) *Summary {
	daily := insights.Normalize(records)
	last30 := insights.PeriodRollup(daily, 30, 0)
	prior30 := insights.PeriodRollup(daily, 30, 30)

	cards := make([]SummaryCard, 0, len(summaryMetrics))
	for _, m := range summaryMetrics {
		def := insights.LookupMetric(string(m))
		value := last30.Value(m)
		change := insights.Delta(value, prior30.Value(m))
		cards = append(cards, SummaryCard{
			Metric:        string(m),
			Label:         def.Label,
			Value:         value,
			Change:        change,
			Display:       def.Format(value),
			DisplayChange: insights.FormatDelta(change),
		})
	}

	return &Summary{
		From:          last30.StartDate,
		To:            last30.EndDate,
		AvailableDays: len(daily),
		Cards:         cards,
	}
}
