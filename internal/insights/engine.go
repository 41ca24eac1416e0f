package insights

import (
	"sort"

	"github.com/marketpulse/pulse-api/internal/models"
)

// Input is everything one evaluation consumes.  Records may arrive unordered
// and with several entries per date; KPIs and benchmarks come straight from
// the caller's stored definitions.
type Input struct {
	Records    []models.RawMetricRecord
	KPIs       []models.KPIDefinition
	Benchmarks []models.BenchmarkDefinition
}

// Report is the full evaluation output.  Besides the ranked insights it
// exposes the intermediate series and window aggregates, which dashboards
// chart directly.
type Report struct {
	Insights []InsightItem `json:"insights"`

	Daily     []DailyMetric     `json:"daily"`
	Rolling7  []WindowAggregate `json:"rolling_7d"`
	Rolling30 []WindowAggregate `json:"rolling_30d"`

	Last7   WindowAggregate `json:"last_7d"`
	Prior7  WindowAggregate `json:"prior_7d"`
	Last30  WindowAggregate `json:"last_30d"`
	Prior30 WindowAggregate `json:"prior_30d"`

	WoW DeltaSet `json:"wow"`
	MoM DeltaSet `json:"mom"`

	Campaigns     []CampaignRollup `json:"campaigns"`
	AvailableDays int              `json:"available_days"`
}

// Evaluate runs the whole pipeline: normalize, roll up, diff, score, apply
// the rule catalogue and rank.  It is a pure function of its input — no
// clock, no randomness, no shared state — so repeated calls with identical
// input produce byte-identical reports and concurrent callers need no
// coordination.
func Evaluate(in Input) *Report {
	daily := Normalize(in.Records)

	last7 := PeriodRollup(daily, 7, 0)
	prior7 := PeriodRollup(daily, 7, 7)
	last30 := PeriodRollup(daily, 30, 0)
	prior30 := PeriodRollup(daily, 30, 30)

	ctx := &evalContext{
		daily:         daily,
		last7:         last7,
		prior7:        prior7,
		last30:        last30,
		prior30:       prior30,
		wow:           Deltas(last7, prior7),
		mom:           Deltas(last30, prior30),
		hasWoW:        len(daily) >= 14,
		availableDays: len(daily),
		campaigns:     rollupCampaigns(in.Records),
		kpis:          kpiInputs(in.KPIs),
		benchmarks:    benchmarkInputs(in.Benchmarks),
		rel:           newReliabilityScorer(last7, prior7, len(daily)),
	}

	items := runRules(ctx)
	Rank(items)

	return &Report{
		Insights:      items,
		Daily:         daily,
		Rolling7:      TrailingRolling(daily, 7),
		Rolling30:     TrailingRolling(daily, 30),
		Last7:         last7,
		Prior7:        prior7,
		Last30:        last30,
		Prior30:       prior30,
		WoW:           ctx.wow,
		MoM:           ctx.mom,
		Campaigns:     ctx.campaigns,
		AvailableDays: len(daily),
	}
}

// rollupCampaigns aggregates the raw records per campaign over the whole
// evaluated range, for the portfolio tier.  Records with no campaign
// identifier at all are grouped together.
func rollupCampaigns(records []models.RawMetricRecord) []CampaignRollup {
	byID := make(map[string][]models.RawMetricRecord)
	names := make(map[string]string)
	for _, r := range records {
		id := r.Entity()
		byID[id] = append(byID[id], r)
		if r.CampaignName != "" {
			names[id] = r.CampaignName
		} else if _, ok := names[id]; !ok {
			names[id] = id
		}
	}

	out := make([]CampaignRollup, 0, len(byID))
	for id, recs := range byID {
		daily := Normalize(recs)
		out = append(out, CampaignRollup{
			ID:              id,
			Name:            names[id],
			WindowAggregate: aggregate(daily),
		})
	}
	// Deterministic order regardless of map iteration.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func kpiInputs(defs []models.KPIDefinition) []KPIInput {
	out := make([]KPIInput, 0, len(defs))
	for _, d := range defs {
		out = append(out, KPIInput{ID: d.ID, Name: d.Name, Metric: d.Metric, TargetValue: d.TargetValue})
	}
	return out
}

func benchmarkInputs(defs []models.BenchmarkDefinition) []BenchmarkInput {
	out := make([]BenchmarkInput, 0, len(defs))
	for _, d := range defs {
		out = append(out, BenchmarkInput{ID: d.ID, Name: d.Name, Metric: d.Metric, BenchmarkValue: d.BenchmarkValue})
	}
	return out
}
