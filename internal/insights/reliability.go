package insights

// Reliability annotates how much sample volume backs a metric.  It never
// blocks a rule from firing; it only tells the consumer how much to trust
// the number.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// Volume gates.  Minimum sample sizes before a metric's window is considered
// representative.
const (
	minReliableClicks      int64 = 100
	minReliableImpressions int64 = 1000
	minReliableConversions       = 10.0

	highShareImpressions int64 = 10000
)

// reliabilityScorer classifies metrics against a reference window.  With at
// least 14 days of history the prior-7 window is the reference (established
// volume, not the week currently being judged); otherwise last-7 is all
// there is.
type reliabilityScorer struct {
	ref           WindowAggregate
	availableDays int
}

func newReliabilityScorer(last7, prior7 WindowAggregate, availableDays int) *reliabilityScorer {
	ref := last7
	if availableDays >= 14 {
		ref = prior7
	}
	return &reliabilityScorer{ref: ref, availableDays: availableDays}
}

func (s *reliabilityScorer) Score(m Metric) Reliability {
	clickGate := s.ref.Clicks >= minReliableClicks
	impGate := s.ref.Impressions >= minReliableImpressions
	convGate := s.ref.Conversions >= minReliableConversions

	switch m {
	case MetricConversionRate, MetricCostPerConversion, MetricConversions:
		if clickGate && impGate && convGate {
			return ReliabilityHigh
		}
		if clickGate {
			return ReliabilityMedium
		}
		return ReliabilityLow

	case MetricROAS, MetricROI, MetricConversionValue:
		// Value data is inherently noisier than counts; never "high".
		if convGate {
			return ReliabilityMedium
		}
		return ReliabilityLow

	case MetricCTR, MetricCPC, MetricClicks, MetricImpressions, MetricSpend, MetricCPM:
		if clickGate && impGate {
			return ReliabilityHigh
		}
		if s.ref.Clicks > 0 || s.ref.Impressions > 0 || s.ref.Spend > 0 {
			return ReliabilityMedium
		}
		return ReliabilityLow

	case MetricSearchImpressionShare:
		if s.ref.Impressions >= highShareImpressions {
			return ReliabilityHigh
		}
		if impGate {
			return ReliabilityMedium
		}
		return ReliabilityLow

	default:
		if s.availableDays >= 14 {
			return ReliabilityMedium
		}
		return ReliabilityLow
	}
}
