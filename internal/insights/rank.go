package insights

import "sort"

var groupRank = map[Group]int{
	GroupIntegrity:   0,
	GroupPerformance: 1,
}

var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// Rank orders insights for display: integrity before performance, then high
// before medium before low.  The sort is stable, so among equal pairs the
// catalogue's emission order decides.
func Rank(items []InsightItem) {
	sort.SliceStable(items, func(i, j int) bool {
		gi, gj := groupRank[items[i].Group], groupRank[items[j].Group]
		if gi != gj {
			return gi < gj
		}
		return severityRank[items[i].Severity] < severityRank[items[j].Severity]
	})
}
