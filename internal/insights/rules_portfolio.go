package insights

import "fmt"

// Portfolio tier: shape-of-the-account checks over the per-campaign rollups,
// plus the externally supplied KPI/benchmark targets and the account-wide
// catch-all rules that defer to more specific campaign-level findings.

func evalSpendConcentration(ctx *evalContext) []InsightItem {
	if len(ctx.campaigns) < 2 {
		return nil
	}
	var total float64
	top := ctx.campaigns[0]
	for _, c := range ctx.campaigns {
		total += c.Spend
		if c.Spend > top.Spend {
			top = c
		}
	}
	if total < concentrationMinSpend {
		return nil
	}
	share := safeDiv(top.Spend, total) * 100
	if share < concentrationShare {
		return nil
	}
	return []InsightItem{{
		ID:       "portfolio:spend-concentration:" + top.ID,
		Title:    "Spend is concentrated in one campaign",
		Group:    GroupPerformance,
		Severity: severityIf(share >= concentrationHigh),
		Description: fmt.Sprintf(
			"%q accounts for %s of total spend (%s of %s) across %d campaigns.",
			top.Name, fmtPercent(share), fmtCurrency(top.Spend), fmtCurrency(total), len(ctx.campaigns)),
		Recommendation: "A single campaign carrying most of the budget is a single point of failure; validate the concentration is intentional and the runner-up campaigns are not starved.",
		Reliability:    ctx.rel.Score(MetricSpend),
		Evidence: []string{
			"top campaign share: " + fmtPercent(share),
			"top campaign spend: " + fmtCurrency(top.Spend),
			"total spend: " + fmtCurrency(total),
			fmt.Sprintf("campaigns: %d", len(ctx.campaigns)),
		},
	}}
}

// worstCTRCampaign picks the lowest-CTR campaign among those with enough
// impressions to judge.  Returns ok=false when fewer than two campaigns
// qualify for comparison.
func worstCTRCampaign(campaigns []CampaignRollup) (CampaignRollup, bool) {
	if len(campaigns) < 2 {
		return CampaignRollup{}, false
	}
	var worst CampaignRollup
	found := false
	for _, c := range campaigns {
		if c.Impressions < outlierMinImpressions {
			continue
		}
		if !found || c.CTR < worst.CTR {
			worst = c
			found = true
		}
	}
	return worst, found
}

func evalCampaignCTROutlier(ctx *evalContext) []InsightItem {
	worst, ok := worstCTRCampaign(ctx.campaigns)
	if !ok {
		return nil
	}
	accountCTR := ctx.last30.CTR
	if accountCTR <= 0 || worst.CTR >= accountCTR*outlierCTRFactor {
		return nil
	}
	return []InsightItem{{
		ID:       "portfolio:campaign-ctr-outlier:" + worst.ID,
		Title:    "One campaign is dragging CTR down",
		Group:    GroupPerformance,
		Severity: severityIf(worst.CTR < accountCTR*outlierCTRHighFactor),
		Description: fmt.Sprintf(
			"%q has a CTR of %s against an account-wide %s, on %s impressions.",
			worst.Name, fmtPercent(worst.CTR), fmtPercent(accountCTR), fmtCount(float64(worst.Impressions))),
		Recommendation: "Review this campaign's creative and targeting in isolation before treating low CTR as an account-wide problem.",
		Reliability:    ctx.rel.Score(MetricCTR),
		Evidence: []string{
			"campaign ctr: " + fmtPercent(worst.CTR),
			"account ctr: " + fmtPercent(accountCTR),
			"campaign impressions: " + fmtCount(float64(worst.Impressions)),
		},
	}}
}

func evalLowImpressionShare(ctx *evalContext) []InsightItem {
	share := ctx.last30.SearchImpressionShare
	if share <= 0 || share >= lowShareCeiling {
		return nil
	}
	return []InsightItem{{
		ID:       "portfolio:low-impression-share",
		Title:    "Low search impression share",
		Group:    GroupPerformance,
		Severity: severityIf(share < lowShareHigh),
		Description: fmt.Sprintf(
			"Ads appear in only %s of eligible searches; most of the addressable demand is going to competitors.",
			fmtPercent(share)),
		Recommendation: "Raise budgets or bids on the constrained campaigns, or narrow targeting to defend the queries that matter most.",
		Reliability:    ctx.rel.Score(MetricSearchImpressionShare),
		Evidence: []string{
			"search impression share: " + fmtPercent(share),
			"impressions: " + fmtCount(float64(ctx.last30.Impressions)),
		},
	}}
}

// ---- KPI / benchmark tier ----

type ProgressStatus string

const (
	ProgressOnTrack        ProgressStatus = "on_track"
	ProgressNeedsAttention ProgressStatus = "needs_attention"
	ProgressBehind         ProgressStatus = "behind"
)

// TargetProgress computes percentage progress toward a target, flipped for
// lower-is-better metrics, and classifies it.  The classification works on
// the uncapped value; DisplayProgress caps at 200% for presentation only.
func TargetProgress(def MetricDef, current, target float64) (float64, ProgressStatus) {
	var progress float64
	if def.LowerIsBetter {
		progress = safeDiv(target, current) * 100
	} else {
		progress = safeDiv(current, target) * 100
	}
	switch {
	case progress >= progressOnTrack:
		return progress, ProgressOnTrack
	case progress >= progressAttention:
		return progress, ProgressNeedsAttention
	default:
		return progress, ProgressBehind
	}
}

// DisplayProgress caps progress for UI rendering.
func DisplayProgress(progress float64) float64 {
	if progress > progressDisplayCap {
		return progressDisplayCap
	}
	return progress
}

func targetItem(ctx *evalContext, tier, entityID, name, metricKey string, current, target float64, targetNoun string) []InsightItem {
	def := LookupMetric(metricKey)
	progress, status := TargetProgress(def, current, target)
	if status == ProgressOnTrack {
		// On-track items are surfaced elsewhere as successes, not insights.
		return nil
	}
	slug := "needs-attention"
	sev := SeverityMedium
	if status == ProgressBehind {
		slug = "behind"
		sev = SeverityHigh
	}
	return []InsightItem{{
		ID:       tier + ":" + slug + ":" + entityID,
		Title:    fmt.Sprintf("%s is %s", name, statusLabel(status)),
		Group:    GroupPerformance,
		Severity: sev,
		Description: fmt.Sprintf(
			"%s is at %s against a %s of %s: %s of %s.",
			def.Label, def.Format(current), targetNoun, def.Format(target),
			fmtPercent(DisplayProgress(progress)), targetNoun),
		Recommendation: fmt.Sprintf(
			"Close the gap on %s or revise the %s if it no longer reflects a realistic goal.",
			def.Label, targetNoun),
		Reliability: ctx.rel.Score(def.Key),
		Evidence: []string{
			"current: " + def.Format(current),
			targetNoun + ": " + def.Format(target),
			"progress: " + fmtPercent(DisplayProgress(progress)),
		},
	}}
}

func statusLabel(s ProgressStatus) string {
	if s == ProgressBehind {
		return "behind target"
	}
	return "at risk"
}

func evalKPIProgress(ctx *evalContext) []InsightItem {
	var items []InsightItem
	for _, k := range ctx.kpis {
		current := ctx.last30.Value(LookupMetric(k.Metric).Key)
		items = append(items, targetItem(ctx, "kpi", k.ID, k.Name, k.Metric, current, k.TargetValue, "target")...)
	}
	return items
}

func evalBenchmarkGap(ctx *evalContext) []InsightItem {
	var items []InsightItem
	for _, b := range ctx.benchmarks {
		current := ctx.last30.Value(LookupMetric(b.Metric).Key)
		items = append(items, targetItem(ctx, "benchmark", b.ID, b.Name, b.Metric, current, b.BenchmarkValue, "benchmark")...)
	}
	return items
}

// ---- Account-wide tier ----

func evalAccountLowCTR(ctx *evalContext) []InsightItem {
	w := ctx.last30
	if w.Impressions < minReliableImpressions || w.CTR <= 0 || w.CTR >= lowCTRThreshold {
		return nil
	}
	return []InsightItem{{
		ID:       "account:low-ctr",
		Title:    "Account-wide CTR is low",
		Group:    GroupPerformance,
		Severity: SeverityMedium,
		Description: fmt.Sprintf(
			"CTR over the last %d days is %s on %s impressions, below the %s floor.",
			w.Days, fmtPercent(w.CTR), fmtCount(float64(w.Impressions)), fmtPercent(lowCTRThreshold)),
		Recommendation: "The weakness is broad rather than campaign-specific: revisit messaging and audience fit across the account.",
		Reliability:    ctx.rel.Score(MetricCTR),
		Evidence: []string{
			"ctr: " + fmtPercent(w.CTR),
			"impressions: " + fmtCount(float64(w.Impressions)),
			"clicks: " + fmtCount(float64(w.Clicks)),
		},
	}}
}
