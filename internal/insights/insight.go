package insights

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

type Group string

const (
	GroupIntegrity   Group = "integrity"
	GroupPerformance Group = "performance"
)

// InsightItem is one ranked advisory finding.  Items are rebuilt from
// scratch on every evaluation; the ID is derived from rule and context so
// identical input always yields byte-identical output, which is what lets
// UIs key expand/collapse state on it.
type InsightItem struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation"`
	Severity       Severity    `json:"severity"`
	Group          Group       `json:"group"`
	Reliability    Reliability `json:"reliability"`
	Evidence       []string    `json:"evidence"`
}

// severityIf grades a threshold pair: high past the steeper threshold,
// medium otherwise.
func severityIf(high bool) Severity {
	if high {
		return SeverityHigh
	}
	return SeverityMedium
}
