package rules

// Severity is the coarse rank used for sorting and aggregate counts
// (spec.md GLOSSARY).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityRank gives the sort order critical < high < medium < low.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:      1,
	SeverityMedium:    2,
	SeverityLow:       3,
}

func (s Severity) Rank() int { return severityRank[s] }

// Category distinguishes scored technical/on-page rules from unscored
// reported-only ones.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryOnPage    Category = "onpage"
	CategoryReported  Category = "reported"
)

// Issue is one rule firing against one URL (spec.md §3).
type Issue struct {
	Code          string
	Category      Category
	Severity      Severity
	URL           string
	Message       string
	ThresholdNote string
	Weight        int
}
