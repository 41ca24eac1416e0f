package insights

import "fmt"

// Week-over-week anomaly tier.  Every rule here requires at least 14 days of
// history (a full last7/prior7 pair) and a click or impression volume gate
// on both legs, so a quiet first week cannot masquerade as a collapse.

func wowClickGate(ctx *evalContext, min int64) bool {
	return ctx.hasWoW && ctx.last7.Clicks >= min && ctx.prior7.Clicks >= min
}

func wowImpressionGate(ctx *evalContext, min int64) bool {
	return ctx.hasWoW && ctx.last7.Impressions >= min && ctx.prior7.Impressions >= min
}

// qualityDeclineGate detects the combined CPC-spike-plus-CTR-drop signal.
// Rising cost per click together with falling engagement is the classic
// symptom of a quality/relevance score slide, which is why this rule
// suppresses the standalone CPC spike below it.
func qualityDeclineGate(wow DeltaSet) (Severity, bool) {
	if wow[MetricCPC] < qualityCPCRise || wow[MetricCTR] > qualityCTRDrop {
		return "", false
	}
	return severityIf(wow[MetricCPC] >= qualityCPCHigh), true
}

func evalQualityScoreDecline(ctx *evalContext) []InsightItem {
	if !wowClickGate(ctx, minWowClicks) {
		return nil
	}
	sev, ok := qualityDeclineGate(ctx.wow)
	if !ok {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:quality-score-decline",
		Title:    "Ad quality is declining",
		Group:    GroupPerformance,
		Severity: sev,
		Description: fmt.Sprintf(
			"CPC rose %s (%s → %s) while CTR fell %s (%s → %s) week over week; the auction is charging more for ads users engage with less.",
			fmtDelta(ctx.wow[MetricCPC]), fmtCurrency(ctx.prior7.CPC), fmtCurrency(ctx.last7.CPC),
			fmtDelta(ctx.wow[MetricCTR]), fmtPercent(ctx.prior7.CTR), fmtPercent(ctx.last7.CTR)),
		Recommendation: "Refresh ad copy and tighten keyword relevance; declining quality scores compound into steadily higher costs.",
		Reliability:    ctx.rel.Score(MetricCPC),
		Evidence: []string{
			"cpc WoW: " + fmtDelta(ctx.wow[MetricCPC]),
			"ctr WoW: " + fmtDelta(ctx.wow[MetricCTR]),
			"cpc last 7d: " + fmtCurrency(ctx.last7.CPC),
			"ctr last 7d: " + fmtPercent(ctx.last7.CTR),
		},
	}}
}

// landingRegressionGate detects a conversion-rate drop while CTR held
// stable: traffic quality unchanged, post-click experience worse.
func landingRegressionGate(wow DeltaSet) (Severity, bool) {
	if wow[MetricConversionRate] > landingCVRDrop {
		return "", false
	}
	if ctr := wow[MetricCTR]; ctr >= landingCTRBand || ctr <= -landingCTRBand {
		return "", false
	}
	return severityIf(wow[MetricConversionRate] <= landingCVRHigh), true
}

func evalLandingPageRegression(ctx *evalContext) []InsightItem {
	if !wowClickGate(ctx, landingMinClicks) {
		return nil
	}
	sev, ok := landingRegressionGate(ctx.wow)
	if !ok {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:landing-page-regression",
		Title:    "Likely landing page regression",
		Group:    GroupPerformance,
		Severity: sev,
		Description: fmt.Sprintf(
			"Conversion rate dropped %s (%s → %s) week over week while CTR stayed stable (%s); the ads still attract the same clicks, but fewer of them convert.",
			fmtDelta(ctx.wow[MetricConversionRate]),
			fmtPercent(ctx.prior7.ConversionRate), fmtPercent(ctx.last7.ConversionRate),
			fmtDelta(ctx.wow[MetricCTR])),
		Recommendation: "Audit recent landing page changes, page load times and the conversion form; the regression is on the site side, not the ad side.",
		Reliability:    ctx.rel.Score(MetricConversionRate),
		Evidence: []string{
			"conversion rate WoW: " + fmtDelta(ctx.wow[MetricConversionRate]),
			"ctr WoW: " + fmtDelta(ctx.wow[MetricCTR]),
			"clicks last 7d: " + fmtCount(float64(ctx.last7.Clicks)),
		},
	}}
}

func evalConversionRateDrop(ctx *evalContext) []InsightItem {
	if !wowClickGate(ctx, landingMinClicks) {
		return nil
	}
	d := ctx.wow[MetricConversionRate]
	if d > cvrDropThreshold {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:conversion-rate-drop",
		Title:    "Conversion rate is dropping",
		Group:    GroupPerformance,
		Severity: severityIf(d <= cvrDropHigh),
		Description: fmt.Sprintf(
			"Conversion rate fell %s week over week (%s → %s).",
			fmtDelta(d), fmtPercent(ctx.prior7.ConversionRate), fmtPercent(ctx.last7.ConversionRate)),
		Recommendation: "Compare converting segments week over week to find where the falloff concentrates: device, geography or audience.",
		Reliability:    ctx.rel.Score(MetricConversionRate),
		Evidence: []string{
			"conversion rate WoW: " + fmtDelta(d),
			"conversions last 7d: " + fmtCount(ctx.last7.Conversions),
			"conversions prior 7d: " + fmtCount(ctx.prior7.Conversions),
		},
	}}
}

func evalCPCSpike(ctx *evalContext) []InsightItem {
	if !wowClickGate(ctx, minWowClicks) {
		return nil
	}
	d := ctx.wow[MetricCPC]
	if d < cpcSpikeRise {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:cpc-spike",
		Title:    "CPC is spiking",
		Group:    GroupPerformance,
		Severity: severityIf(d >= cpcSpikeHigh),
		Description: fmt.Sprintf(
			"Cost per click rose %s week over week (%s → %s).",
			fmtDelta(d), fmtCurrency(ctx.prior7.CPC), fmtCurrency(ctx.last7.CPC)),
		Recommendation: "Check for new competitors in the auction and review recent bid changes; consider bid caps on the affected keywords.",
		Reliability:    ctx.rel.Score(MetricCPC),
		Evidence: []string{
			"cpc WoW: " + fmtDelta(d),
			"cpc last 7d: " + fmtCurrency(ctx.last7.CPC),
			"cpc prior 7d: " + fmtCurrency(ctx.prior7.CPC),
		},
	}}
}

func evalImpressionDecay(ctx *evalContext) []InsightItem {
	if !ctx.hasWoW || ctx.prior7.Impressions < minReliableImpressions {
		return nil
	}
	d := ctx.wow[MetricImpressions]
	if d > impressionDecayDrop {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:impression-decay",
		Title:    "Impressions are decaying",
		Group:    GroupPerformance,
		Severity: severityIf(d <= impressionDecayHigh),
		Description: fmt.Sprintf(
			"Impressions fell %s week over week (%s → %s); reach is shrinking.",
			fmtDelta(d), fmtCount(float64(ctx.prior7.Impressions)), fmtCount(float64(ctx.last7.Impressions))),
		Recommendation: "Look for budget exhaustion, lost impression share to competitors, or disapproved ads reducing eligible inventory.",
		Reliability:    ctx.rel.Score(MetricImpressions),
		Evidence: []string{
			"impressions WoW: " + fmtDelta(d),
			"impressions last 7d: " + fmtCount(float64(ctx.last7.Impressions)),
			"impressions prior 7d: " + fmtCount(float64(ctx.prior7.Impressions)),
		},
	}}
}

func evalCPMSurge(ctx *evalContext) []InsightItem {
	if !wowImpressionGate(ctx, minReliableImpressions) {
		return nil
	}
	d := ctx.wow[MetricCPM]
	if d < cpmSurgeRise {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:cpm-surge",
		Title:    "CPM is surging",
		Group:    GroupPerformance,
		Severity: severityIf(d >= cpmSurgeHigh),
		Description: fmt.Sprintf(
			"Cost per thousand impressions rose %s week over week (%s → %s); inventory is getting more expensive.",
			fmtDelta(d), fmtCurrency(ctx.prior7.CPM), fmtCurrency(ctx.last7.CPM)),
		Recommendation: "Broaden targeting or shift budget toward placements with softer auction pressure.",
		Reliability:    ctx.rel.Score(MetricCPM),
		Evidence: []string{
			"cpm WoW: " + fmtDelta(d),
			"cpm last 7d: " + fmtCurrency(ctx.last7.CPM),
			"cpm prior 7d: " + fmtCurrency(ctx.prior7.CPM),
		},
	}}
}

func evalROASDecline(ctx *evalContext) []InsightItem {
	if !ctx.hasWoW {
		return nil
	}
	if ctx.last7.Conversions < minFinancialConversions || ctx.prior7.Conversions < minFinancialConversions {
		return nil
	}
	if ctx.last7.ConversionValue <= 0 || ctx.prior7.ConversionValue <= 0 {
		return nil
	}
	d := ctx.wow[MetricROAS]
	if d > roasDeclineDrop {
		return nil
	}
	return []InsightItem{{
		ID:       "wow:roas-decline",
		Title:    "ROAS is declining",
		Group:    GroupPerformance,
		Severity: severityIf(d <= roasDeclineHigh),
		Description: fmt.Sprintf(
			"Return on ad spend fell %s week over week (%s → %s).",
			fmtDelta(d), fmtMultiplier(ctx.prior7.ROAS), fmtMultiplier(ctx.last7.ROAS)),
		Recommendation: "Check whether conversion value per conversion dropped or costs rose; the fix differs between the two.",
		Reliability:    ctx.rel.Score(MetricROAS),
		Evidence: []string{
			"roas WoW: " + fmtDelta(d),
			"roas last 7d: " + fmtMultiplier(ctx.last7.ROAS),
			"roas prior 7d: " + fmtMultiplier(ctx.prior7.ROAS),
		},
	}}
}
