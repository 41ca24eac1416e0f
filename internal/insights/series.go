package insights

import (
	"sort"

	"github.com/marketpulse/pulse-api/internal/models"
)

// DailyMetric is one normalized day of account activity: every raw record
// sharing the date summed together.  Exactly one entry per date.
type DailyMetric struct {
	Date                  string  `json:"date"`
	Impressions           int64   `json:"impressions"`
	Clicks                int64   `json:"clicks"`
	Spend                 float64 `json:"spend"`
	Conversions           float64 `json:"conversions"`
	ConversionValue       float64 `json:"conversion_value"`
	VideoViews            int64   `json:"video_views"`
	SearchImpressionShare float64 `json:"search_impression_share"`
}

// Normalize collapses raw per-campaign-per-day records into one DailyMetric
// per calendar date, ascending.  Numeric coercion has already happened at
// decode time (unparsable fields are zero).  Counts are summed; search
// impression share is averaged across only the records that reported it,
// since 0 means "not reported" rather than a real reading.
func Normalize(records []models.RawMetricRecord) []DailyMetric {
	type sisAccum struct {
		sum   float64
		count int
	}

	byDate := make(map[string]*DailyMetric)
	sis := make(map[string]*sisAccum)

	for i := range records {
		r := &records[i]
		if r.Date == "" {
			continue
		}
		d, ok := byDate[r.Date]
		if !ok {
			d = &DailyMetric{Date: r.Date}
			byDate[r.Date] = d
			sis[r.Date] = &sisAccum{}
		}
		d.Impressions += int64(r.Impressions.Float64())
		d.Clicks += int64(r.Clicks.Float64())
		d.Spend += r.Spend.Float64()
		d.Conversions += r.Conversions.Float64()
		d.ConversionValue += r.ConversionValue.Float64()
		d.VideoViews += int64(r.VideoViews.Float64())
		if share := r.SearchImpressionShare.Float64(); share > 0 {
			acc := sis[r.Date]
			acc.sum += share
			acc.count++
		}
	}

	series := make([]DailyMetric, 0, len(byDate))
	for date, d := range byDate {
		if acc := sis[date]; acc.count > 0 {
			d.SearchImpressionShare = acc.sum / float64(acc.count)
		}
		series = append(series, *d)
	}

	// Lexicographic sort is date-correct for ISO day strings.
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}
