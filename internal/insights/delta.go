package insights

// Metric enumerates the canonical metric set.  Rules and KPI definitions
// address metrics through this type so a typo'd key can never silently read
// a zero out of a map.
type Metric string

const (
	MetricImpressions           Metric = "impressions"
	MetricClicks                Metric = "clicks"
	MetricSpend                 Metric = "spend"
	MetricConversions           Metric = "conversions"
	MetricConversionValue       Metric = "conversionValue"
	MetricVideoViews            Metric = "videoViews"
	MetricSearchImpressionShare Metric = "searchImpressionShare"
	MetricCTR                   Metric = "ctr"
	MetricCPC                   Metric = "cpc"
	MetricCPM                   Metric = "cpm"
	MetricConversionRate        Metric = "conversionRate"
	MetricCostPerConversion     Metric = "costPerConversion"
	MetricROAS                  Metric = "roas"
	MetricROI                   Metric = "roi"
)

// AllMetrics lists every metric a DeltaSet covers, in a fixed order.
var AllMetrics = []Metric{
	MetricImpressions,
	MetricClicks,
	MetricSpend,
	MetricConversions,
	MetricConversionValue,
	MetricVideoViews,
	MetricSearchImpressionShare,
	MetricCTR,
	MetricCPC,
	MetricCPM,
	MetricConversionRate,
	MetricCostPerConversion,
	MetricROAS,
	MetricROI,
}

// Value reads a metric off an aggregate.  Unknown metrics read as 0.
func (a WindowAggregate) Value(m Metric) float64 {
	switch m {
	case MetricImpressions:
		return float64(a.Impressions)
	case MetricClicks:
		return float64(a.Clicks)
	case MetricSpend:
		return a.Spend
	case MetricConversions:
		return a.Conversions
	case MetricConversionValue:
		return a.ConversionValue
	case MetricVideoViews:
		return float64(a.VideoViews)
	case MetricSearchImpressionShare:
		return a.SearchImpressionShare
	case MetricCTR:
		return a.CTR
	case MetricCPC:
		return a.CPC
	case MetricCPM:
		return a.CPM
	case MetricConversionRate:
		return a.ConversionRate
	case MetricCostPerConversion:
		return a.CostPerConversion
	case MetricROAS:
		return a.ROAS
	case MetricROI:
		return a.ROI
	default:
		return 0
	}
}

// Delta is the signed percentage change from prior to current.
//
// The zero policy is deliberately asymmetric: a metric appearing from
// nothing reports +100 regardless of magnitude, and 0→0 reports 0.  Rule
// thresholds were tuned against this convention, so it must not be "fixed".
func Delta(current, prior float64) float64 {
	if prior > 0 {
		return (current - prior) / prior * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// DeltaSet maps every canonical metric to its percentage change between two
// equal-size windows.
type DeltaSet map[Metric]float64

// Deltas computes the change of every canonical metric between a window and
// the window immediately before it.
func Deltas(current, prior WindowAggregate) DeltaSet {
	ds := make(DeltaSet, len(AllMetrics))
	for _, m := range AllMetrics {
		ds[m] = Delta(current.Value(m), prior.Value(m))
	}
	return ds
}
