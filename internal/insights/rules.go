package insights

import "fmt"

// Rule thresholds.  These are contract constants tuned together with the
// asymmetric delta convention; changing one in isolation shifts what the
// whole catalogue reports.
const (
	integrityHighSpend = 500.0

	minFinancialConversions = 5.0
	negativeROIHighLoss     = -50.0
	roasBreakevenHigh       = 0.5

	diminishingSpendRise  = 20.0
	diminishingSpendHigh  = 50.0
	diminishingConvBand   = 10.0

	minWowClicks int64 = 50

	qualityCPCRise  = 20.0
	qualityCPCHigh  = 40.0
	qualityCTRDrop  = -15.0

	landingCVRDrop    = -20.0
	landingCVRHigh    = -35.0
	landingCTRBand    = 10.0
	landingMinClicks  int64 = 100

	cvrDropThreshold = -15.0
	cvrDropHigh      = -30.0

	cpcSpikeRise = 25.0
	cpcSpikeHigh = 50.0

	impressionDecayDrop = -30.0
	impressionDecayHigh = -50.0

	cpmSurgeRise = 30.0
	cpmSurgeHigh = 50.0

	roasDeclineDrop = -20.0
	roasDeclineHigh = -40.0

	concentrationShare    = 70.0
	concentrationHigh     = 90.0
	concentrationMinSpend = 100.0

	outlierMinImpressions int64 = 1000
	outlierCTRFactor            = 0.5
	outlierCTRHighFactor        = 0.25

	lowShareCeiling = 50.0
	lowShareHigh    = 25.0

	lowCTRThreshold = 1.0

	progressOnTrack   = 90.0
	progressAttention = 70.0
	progressDisplayCap = 200.0
)

// CampaignRollup is one campaign's totals over the evaluated range, used by
// the portfolio tier.
type CampaignRollup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	WindowAggregate
}

// evalContext carries everything a rule may consult.  It is assembled once
// per evaluation and never mutated by rules; cross-rule suppression state
// lives in the evaluator loop, not here.
type evalContext struct {
	daily         []DailyMetric
	last7         WindowAggregate
	prior7        WindowAggregate
	last30        WindowAggregate
	prior30       WindowAggregate
	wow           DeltaSet
	mom           DeltaSet
	hasWoW        bool
	availableDays int
	campaigns     []CampaignRollup
	kpis          []KPIInput
	benchmarks    []BenchmarkInput
	rel           *reliabilityScorer
}

// KPIInput and BenchmarkInput are the externally supplied target
// definitions, reduced to what the rules need.
type KPIInput struct {
	ID          string
	Name        string
	Metric      string
	TargetValue float64
}

type BenchmarkInput struct {
	ID             string
	Name           string
	Metric         string
	BenchmarkValue float64
}

// rule couples a gate to an identity.  SuppressedBy names rules whose firing
// makes this one a redundant restatement of the same signal; the evaluator
// checks the fired set before calling eval, so suppression is an explicit
// table rather than flags mutated mid-iteration.
type rule struct {
	id           string
	suppressedBy []string
	eval         func(*evalContext) []InsightItem
}

// ruleCatalogue is the fixed evaluation order: data-integrity checks, then
// financial health, week-over-week anomalies, portfolio shape, external
// targets, and finally account-wide checks that defer to more specific
// findings.  Emission order here is the final ranking tie-break.
var ruleCatalogue = []rule{
	{id: "integrity:spend-no-conversions", eval: evalSpendNoConversions},
	{id: "integrity:conv-value-zero", eval: evalConvValueZero},
	{id: "integrity:impressions-no-clicks", eval: evalImpressionsNoClicks},
	{id: "integrity:no-delivery", eval: evalNoDelivery},
	{id: "financial:negative-roi", eval: evalNegativeROI},
	{id: "financial:roas-below-breakeven", eval: evalROASBreakeven},
	{id: "financial:diminishing-returns", eval: evalDiminishingReturns},
	{id: "wow:quality-score-decline", eval: evalQualityScoreDecline},
	{id: "wow:landing-page-regression", eval: evalLandingPageRegression},
	{id: "wow:conversion-rate-drop", suppressedBy: []string{"wow:landing-page-regression"}, eval: evalConversionRateDrop},
	{id: "wow:cpc-spike", suppressedBy: []string{"wow:quality-score-decline"}, eval: evalCPCSpike},
	{id: "wow:impression-decay", eval: evalImpressionDecay},
	{id: "wow:cpm-surge", eval: evalCPMSurge},
	{id: "wow:roas-decline", eval: evalROASDecline},
	{id: "portfolio:spend-concentration", eval: evalSpendConcentration},
	{id: "portfolio:campaign-ctr-outlier", eval: evalCampaignCTROutlier},
	{id: "portfolio:low-impression-share", eval: evalLowImpressionShare},
	{id: "kpi:progress", eval: evalKPIProgress},
	{id: "benchmark:gap", eval: evalBenchmarkGap},
	{id: "account:low-ctr", suppressedBy: []string{"portfolio:campaign-ctr-outlier"}, eval: evalAccountLowCTR},
}

// runRules evaluates the catalogue in order, applying suppression against
// the set of rules that have already emitted.
func runRules(ctx *evalContext) []InsightItem {
	fired := make(map[string]bool, len(ruleCatalogue))
	var items []InsightItem
	for _, r := range ruleCatalogue {
		if suppressed(r, fired) {
			continue
		}
		out := r.eval(ctx)
		if len(out) > 0 {
			fired[r.id] = true
			items = append(items, out...)
		}
	}
	return items
}

func suppressed(r rule, fired map[string]bool) bool {
	for _, id := range r.suppressedBy {
		if fired[id] {
			return true
		}
	}
	return false
}

// ---- Integrity tier ----
//
// Absolute, non-comparative checks on the trailing 30-day window.  A broken
// tracking setup is reported at high reliability regardless of volume: the
// signal is structural, not statistical.

func evalSpendNoConversions(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Spend <= 0 || w.Conversions > 0 {
		return nil
	}
	return []InsightItem{{
		ID:       "integrity:spend-no-conversions",
		Title:    "Spend recorded with zero conversions",
		Group:    GroupIntegrity,
		Severity: severityIf(w.Spend >= integrityHighSpend),
		Description: fmt.Sprintf(
			"%s was spent over the last %d days without a single recorded conversion.",
			fmtCurrency(w.Spend), w.Days),
		Recommendation: "Verify that conversion tracking is installed and firing before spending further; if tracking is healthy, the targeting or landing experience needs review.",
		Reliability:    ReliabilityHigh,
		Evidence: []string{
			"spend: " + fmtCurrency(w.Spend),
			"conversions: 0",
			"clicks: " + fmtCount(float64(w.Clicks)),
		},
	}}
}

func evalConvValueZero(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Conversions <= 0 || w.ConversionValue > 0 {
		return nil
	}
	return []InsightItem{{
		ID:       "integrity:conv-value-zero",
		Title:    "Conversions reported without value",
		Group:    GroupIntegrity,
		Severity: SeverityMedium,
		Description: fmt.Sprintf(
			"%s conversions were recorded over the last %d days but no conversion value came with them, so return metrics (ROAS, ROI) cannot be computed.",
			fmtCount(w.Conversions), w.Days),
		Recommendation: "Assign values to conversion actions in the platform so revenue-based metrics become available.",
		Reliability:    ReliabilityHigh,
		Evidence: []string{
			"conversions: " + fmtCount(w.Conversions),
			"conversion value: " + fmtCurrency(0),
		},
	}}
}

func evalImpressionsNoClicks(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Impressions < minReliableImpressions || w.Clicks > 0 {
		return nil
	}
	return []InsightItem{{
		ID:       "integrity:impressions-no-clicks",
		Title:    "Impressions serving with zero clicks",
		Group:    GroupIntegrity,
		Severity: SeverityHigh,
		Description: fmt.Sprintf(
			"%s impressions were served over the last %d days without a single click.",
			fmtCount(float64(w.Impressions)), w.Days),
		Recommendation: "Check that ads are approved and rendering correctly; creative this far below click floor usually indicates a serving or tracking fault.",
		Reliability:    ReliabilityHigh,
		Evidence: []string{
			"impressions: " + fmtCount(float64(w.Impressions)),
			"clicks: 0",
		},
	}}
}

func evalNoDelivery(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if len(ctx.campaigns) == 0 || w.Spend > 0 || w.Impressions > 0 {
		return nil
	}
	return []InsightItem{{
		ID:       "integrity:no-delivery",
		Title:    "Campaigns are not delivering",
		Group:    GroupIntegrity,
		Severity: SeverityHigh,
		Description: fmt.Sprintf(
			"%d campaigns are present but recorded no spend and no impressions over the last %d days.",
			len(ctx.campaigns), w.Days),
		Recommendation: "Check campaign status, budgets and billing: paused campaigns, exhausted budgets and payment failures all look like this.",
		Reliability:    ReliabilityHigh,
		Evidence: []string{
			fmt.Sprintf("campaigns: %d", len(ctx.campaigns)),
			"spend: " + fmtCurrency(0),
			"impressions: 0",
		},
	}}
}

// ---- Financial tier ----

func evalNegativeROI(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Conversions < minFinancialConversions || w.ConversionValue <= 0 || w.ROI >= 0 {
		return nil
	}
	return []InsightItem{{
		ID:       "financial:negative-roi",
		Title:    "Campaigns are running at a loss",
		Group:    GroupPerformance,
		Severity: severityIf(w.ROI < negativeROIHighLoss),
		Description: fmt.Sprintf(
			"ROI over the last %d days is %s: %s spent against %s in conversion value.",
			w.Days, fmtPercent(w.ROI), fmtCurrency(w.Spend), fmtCurrency(w.ConversionValue)),
		Recommendation: "Shift budget toward the campaigns and keywords with positive return, and reprice or pause the rest.",
		Reliability:    ctx.rel.Score(MetricROI),
		Evidence: []string{
			"roi: " + fmtPercent(w.ROI),
			"spend: " + fmtCurrency(w.Spend),
			"conversion value: " + fmtCurrency(w.ConversionValue),
			"conversions: " + fmtCount(w.Conversions),
		},
	}}
}

func evalROASBreakeven(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Conversions < minFinancialConversions || w.ConversionValue <= 0 || w.ROAS >= 1.0 {
		return nil
	}
	return []InsightItem{{
		ID:       "financial:roas-below-breakeven",
		Title:    "ROAS below breakeven",
		Group:    GroupPerformance,
		Severity: severityIf(w.ROAS < roasBreakevenHigh),
		Description: fmt.Sprintf(
			"Return on ad spend is %s over the last %d days; every dollar spent returns less than a dollar of value.",
			fmtMultiplier(w.ROAS), w.Days),
		Recommendation: "Review bids and audience quality; a ROAS under 1.0x is unsustainable unless conversions are deliberately undervalued.",
		Reliability:    ctx.rel.Score(MetricROAS),
		Evidence: []string{
			"roas: " + fmtMultiplier(w.ROAS),
			"spend: " + fmtCurrency(w.Spend),
			"conversion value: " + fmtCurrency(w.ConversionValue),
		},
	}}
}

// diminishingReturnsGate fires when spend climbed week over week while
// conversions barely moved, with both legs carrying enough conversion
// volume to mean something.
func diminishingReturnsGate(last7, prior7 WindowAggregate, wow DeltaSet) (Severity, bool) {
	if last7.Conversions < minFinancialConversions || prior7.Conversions < minFinancialConversions {
		return "", false
	}
	spendDelta := wow[MetricSpend]
	convDelta := wow[MetricConversions]
	if spendDelta < diminishingSpendRise {
		return "", false
	}
	if convDelta >= diminishingConvBand || convDelta <= -diminishingConvBand {
		return "", false
	}
	return severityIf(spendDelta >= diminishingSpendHigh), true
}

func evalDiminishingReturns(ctx *evalContext) []InsightItem {
	if !ctx.hasWoW {
		return nil
	}
	sev, ok := diminishingReturnsGate(ctx.last7, ctx.prior7, ctx.wow)
	if !ok {
		return nil
	}
	return []InsightItem{{
		ID:       "financial:diminishing-returns",
		Title:    "Spend is rising faster than conversions",
		Group:    GroupPerformance,
		Severity: sev,
		Description: fmt.Sprintf(
			"Weekly spend moved %s (%s → %s) while conversions moved only %s (%s → %s).",
			fmtDelta(ctx.wow[MetricSpend]),
			fmtCurrency(ctx.prior7.Spend), fmtCurrency(ctx.last7.Spend),
			fmtDelta(ctx.wow[MetricConversions]),
			fmtCount(ctx.prior7.Conversions), fmtCount(ctx.last7.Conversions)),
		Recommendation: "The marginal budget is not converting. Hold spend at the prior level or redirect the increase toward better-performing segments.",
		Reliability:    ctx.rel.Score(MetricConversions),
		Evidence: []string{
			"spend WoW: " + fmtDelta(ctx.wow[MetricSpend]),
			"conversions WoW: " + fmtDelta(ctx.wow[MetricConversions]),
			"spend last 7d: " + fmtCurrency(ctx.last7.Spend),
			"spend prior 7d: " + fmtCurrency(ctx.prior7.Spend),
		},
	}}
}
