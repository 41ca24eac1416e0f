package insights

// WindowAggregate sums a run of daily entries and carries the ratios derived
// from those sums.  Ratios are always recomputed from the summed numerator
// and denominator, never averaged across days: averaging per-day ratios lets
// low-volume days distort the result.
type WindowAggregate struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// Days is the count of daily entries actually consumed.  Near the start
	// of a series this may be less than the nominal window size; callers
	// gate on it.
	Days int `json:"days"`

	Impressions           int64   `json:"impressions"`
	Clicks                int64   `json:"clicks"`
	Spend                 float64 `json:"spend"`
	Conversions           float64 `json:"conversions"`
	ConversionValue       float64 `json:"conversion_value"`
	VideoViews            int64   `json:"video_views"`
	SearchImpressionShare float64 `json:"search_impression_share"`

	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	CPM               float64 `json:"cpm"`
	ConversionRate    float64 `json:"conversion_rate"`
	CostPerConversion float64 `json:"cost_per_conversion"`
	ROAS              float64 `json:"roas"`
	ROI               float64 `json:"roi"`
}

// safeDiv returns a/b, or 0 when b is 0.  Derived ratios must never be NaN
// or infinite.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// aggregate sums the given daily entries into a WindowAggregate.
func aggregate(days []DailyMetric) WindowAggregate {
	var agg WindowAggregate
	if len(days) == 0 {
		return agg
	}
	agg.StartDate = days[0].Date
	agg.EndDate = days[len(days)-1].Date
	agg.Days = len(days)

	var sisSum float64
	var sisDays int
	for _, d := range days {
		agg.Impressions += d.Impressions
		agg.Clicks += d.Clicks
		agg.Spend += d.Spend
		agg.Conversions += d.Conversions
		agg.ConversionValue += d.ConversionValue
		agg.VideoViews += d.VideoViews
		if d.SearchImpressionShare > 0 {
			sisSum += d.SearchImpressionShare
			sisDays++
		}
	}
	if sisDays > 0 {
		agg.SearchImpressionShare = sisSum / float64(sisDays)
	}

	imps := float64(agg.Impressions)
	clicks := float64(agg.Clicks)
	agg.CTR = safeDiv(clicks, imps) * 100
	agg.CPC = safeDiv(agg.Spend, clicks)
	agg.CPM = safeDiv(agg.Spend, imps) * 1000
	agg.ConversionRate = safeDiv(agg.Conversions, clicks) * 100
	agg.CostPerConversion = safeDiv(agg.Spend, agg.Conversions)
	agg.ROAS = safeDiv(agg.ConversionValue, agg.Spend)
	agg.ROI = safeDiv(agg.ConversionValue-agg.Spend, agg.Spend) * 100
	return agg
}

// TrailingRolling computes one aggregate per end-date for which a full
// windowDays run exists.  No partial windows: the first windowDays-1 entries
// of the series produce nothing.
func TrailingRolling(series []DailyMetric, windowDays int) []WindowAggregate {
	if windowDays <= 0 || len(series) < windowDays {
		return nil
	}
	out := make([]WindowAggregate, 0, len(series)-windowDays+1)
	for i := windowDays; i <= len(series); i++ {
		out = append(out, aggregate(series[i-windowDays:i]))
	}
	return out
}

// PeriodRollup sums the n entries ending offsetFromEnd entries before the
// series end.  Offset 0 is the most recent n days; offset n is the n days
// immediately before that.  When fewer than n entries are in range it sums
// what is available and Days records the true count.
func PeriodRollup(series []DailyMetric, n, offsetFromEnd int) WindowAggregate {
	if n <= 0 || offsetFromEnd < 0 {
		return WindowAggregate{}
	}
	end := len(series) - offsetFromEnd
	if end <= 0 {
		return WindowAggregate{}
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	return aggregate(series[start:end])
}
