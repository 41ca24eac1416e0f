package insights

import (
	"fmt"
	"strconv"
)

// Unit selects how a metric's values are rendered in insight text.
type Unit int

const (
	UnitCount Unit = iota
	UnitCurrency
	UnitPercent
	UnitMultiplier
)

// MetricDef describes one canonical metric for presentation and KPI math.
type MetricDef struct {
	Key   Metric
	Label string
	Unit  Unit

	// LowerIsBetter flips KPI/benchmark progress: hitting a CPC target means
	// coming in under it, not over.
	LowerIsBetter bool
}

var metricDefs = map[Metric]MetricDef{
	MetricImpressions:           {Key: MetricImpressions, Label: "Impressions", Unit: UnitCount},
	MetricClicks:                {Key: MetricClicks, Label: "Clicks", Unit: UnitCount},
	MetricSpend:                 {Key: MetricSpend, Label: "Spend", Unit: UnitCurrency, LowerIsBetter: true},
	MetricConversions:           {Key: MetricConversions, Label: "Conversions", Unit: UnitCount},
	MetricConversionValue:       {Key: MetricConversionValue, Label: "Conversion Value", Unit: UnitCurrency},
	MetricVideoViews:            {Key: MetricVideoViews, Label: "Video Views", Unit: UnitCount},
	MetricSearchImpressionShare: {Key: MetricSearchImpressionShare, Label: "Search Impression Share", Unit: UnitPercent},
	MetricCTR:                   {Key: MetricCTR, Label: "CTR", Unit: UnitPercent},
	MetricCPC:                   {Key: MetricCPC, Label: "CPC", Unit: UnitCurrency, LowerIsBetter: true},
	MetricCPM:                   {Key: MetricCPM, Label: "CPM", Unit: UnitCurrency, LowerIsBetter: true},
	MetricConversionRate:        {Key: MetricConversionRate, Label: "Conversion Rate", Unit: UnitPercent},
	MetricCostPerConversion:     {Key: MetricCostPerConversion, Label: "Cost per Conversion", Unit: UnitCurrency, LowerIsBetter: true},
	MetricROAS:                  {Key: MetricROAS, Label: "ROAS", Unit: UnitMultiplier},
	MetricROI:                   {Key: MetricROI, Label: "ROI", Unit: UnitPercent},
}

// LookupMetric resolves a metric key from an external definition.  Unknown
// keys fall back to an identity definition labeled with the raw key so one
// bad KPI cannot suppress the rest of the evaluation.
func LookupMetric(key string) MetricDef {
	if def, ok := metricDefs[Metric(key)]; ok {
		return def
	}
	return MetricDef{Key: Metric(key), Label: key, Unit: UnitCount}
}

// Format renders a value in the metric's unit: currency and percentages to
// two decimals, ROAS as a multiplier, counts with no trailing zeros.
func (d MetricDef) Format(v float64) string {
	switch d.Unit {
	case UnitCurrency:
		return fmtCurrency(v)
	case UnitPercent:
		return fmtPercent(v)
	case UnitMultiplier:
		return fmtMultiplier(v)
	default:
		return fmtCount(v)
	}
}

func fmtCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func fmtPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func fmtMultiplier(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

func fmtCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fmtDelta renders a signed percentage change ("+25.00%", "-12.50%").
func fmtDelta(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatDelta is fmtDelta for callers outside the engine (summary cards).
func FormatDelta(v float64) string {
	return fmtDelta(v)
}
