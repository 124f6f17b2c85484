// Package scorer converts a page's Issues into a numeric score and rolls
// per-page scores up into site-wide metrics. Ground: spec.md §4.6 directly;
// no teacher analogue exists (docs-crawler has no scoring concept), so this
// is built from the spec's formula rather than adapted from reference code.
package scorer

import (
	"math"
	"sort"
	"strconv"

	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/rules"
)

// PageScore is one URL's scored outcome (spec.md §3).
type PageScore struct {
	URL          string
	Base         int
	PenaltyTotal int
	Final        int
	Issues       []rules.Issue
}

// SiteMetrics is the site-wide roll-up (spec.md §4.6).
type SiteMetrics struct {
	TotalCrawledPages      int
	AverageSEOScore        float64
	TotalIssues            int
	CriticalIssuesCount    int
	HighIssuesCount        int
	MediumIssuesCount      int
	LowIssuesCount         int
	StatusCodeDistribution map[string]int
	TechnicalSEOCounts     map[string]int
	OnPageSEOCounts        map[string]int
}

// ScoreRecord computes rec's PageScore from the issues the rule catalog
// produced for it; reported-only issues carry no penalty.
func ScoreRecord(rec crawler.CrawlRecord, issues []rules.Issue) PageScore {
	penalty := 0
	for _, iss := range issues {
		if iss.Category == rules.CategoryReported {
			continue
		}
		penalty += iss.Weight
	}
	final := 100 + penalty
	if final < 20 {
		final = 20
	}
	return PageScore{
		URL:          rec.URL,
		Base:         100,
		PenaltyTotal: penalty,
		Final:        final,
		Issues:       issues,
	}
}

// Aggregate rolls up per-page scores and their issues into SiteMetrics.
func Aggregate(records []crawler.CrawlRecord, scores []PageScore) SiteMetrics {
	m := SiteMetrics{
		TotalCrawledPages:      len(records),
		StatusCodeDistribution: map[string]int{},
		TechnicalSEOCounts:     map[string]int{},
		OnPageSEOCounts:        map[string]int{},
	}

	for _, rec := range records {
		m.StatusCodeDistribution[statusKey(rec)]++
	}

	sum := 0.0
	for _, s := range scores {
		sum += float64(s.Final)
		for _, iss := range s.Issues {
			m.TotalIssues++
			switch iss.Severity {
			case rules.SeverityCritical:
				m.CriticalIssuesCount++
			case rules.SeverityHigh:
				m.HighIssuesCount++
			case rules.SeverityMedium:
				m.MediumIssuesCount++
			case rules.SeverityLow:
				m.LowIssuesCount++
			}
			switch iss.Category {
			case rules.CategoryTechnical:
				m.TechnicalSEOCounts[iss.Code]++
			case rules.CategoryOnPage:
				m.OnPageSEOCounts[iss.Code]++
			}
		}
	}
	if len(scores) > 0 {
		m.AverageSEOScore = round2(sum / float64(len(scores)))
	}
	return m
}

func statusKey(rec crawler.CrawlRecord) string {
	if rec.Fetch.StatusCode > 0 {
		return strconv.Itoa(rec.Fetch.StatusCode)
	}
	switch rec.Fetch.Classification {
	case "timeout":
		return "timeout"
	default:
		return "network_error"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortScores returns scores sorted by URL, lexicographically (spec.md §5
// determinism requirement).
func SortScores(scores []PageScore) []PageScore {
	out := make([]PageScore, len(scores))
	copy(out, scores)
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}
