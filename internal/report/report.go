// Package report shapes the scorer's aggregated data into the two-part
// AuditReport document of spec.md §6, with deterministic sort order
// (URLs lexicographic; issues by severity then code) so two runs against a
// static site yield byte-identical reports (spec.md §5).
package report

import (
	"sort"
	"time"

	"github.com/seoauditor/engine/internal/rules"
	"github.com/seoauditor/engine/internal/scorer"
	"github.com/seoauditor/engine/internal/sitecontext"
)

// Build assembles the final AuditReport from a scored, sorted page list and
// the site-wide metrics, measuring execution time from start to now.
func Build(baseURL string, ctx sitecontext.SiteContext, scores []scorer.PageScore, metrics scorer.SiteMetrics, start time.Time) AuditReport {
	sorted := scorer.SortScores(scores)

	overview := SiteOverview{
		BaseURL:             baseURL,
		TotalCrawledPages:   metrics.TotalCrawledPages,
		AverageSEOScore:     metrics.AverageSEOScore,
		TotalIssues:         metrics.TotalIssues,
		CriticalIssuesCount: metrics.CriticalIssuesCount,
		HighIssuesCount:     metrics.HighIssuesCount,
		MediumIssuesCount:   metrics.MediumIssuesCount,
		LowIssuesCount:      metrics.LowIssuesCount,
	}

	crawlability := Crawlability{
		RobotsTxtExists:  ctx.RobotsExists,
		RobotsTxtContent: ctx.RobotsRawText,
		SitemapExists:    len(ctx.SitemapURLs) > 0,
		SitemapsFound:    sortedKeys(ctx.SitemapURLs),
	}

	var summary IssuesSummary
	technicalIssues := map[string][]IssueView{}
	onpageIssues := map[string][]IssueView{}

	for _, ps := range sorted {
		issues := sortIssues(ps.Issues)
		for _, iss := range issues {
			view := IssueView{URL: iss.URL, Code: iss.Code, Message: iss.Message, Severity: string(iss.Severity)}
			switch iss.Severity {
			case rules.SeverityCritical:
				summary.Critical = append(summary.Critical, view)
			case rules.SeverityHigh:
				summary.High = append(summary.High, view)
			case rules.SeverityMedium:
				summary.Medium = append(summary.Medium, view)
			case rules.SeverityLow:
				summary.Low = append(summary.Low, view)
			}
			switch iss.Category {
			case rules.CategoryTechnical:
				technicalIssues[iss.Code] = append(technicalIssues[iss.Code], view)
			case rules.CategoryOnPage:
				onpageIssues[iss.Code] = append(onpageIssues[iss.Code], view)
			}
		}
	}

	stats := AuditStats{
		SiteOverview:           overview,
		Crawlability:           crawlability,
		StatusCodeDistribution: metrics.StatusCodeDistribution,
		TechnicalSEO:           metrics.TechnicalSEOCounts,
		OnPageSEO:              metrics.OnPageSEOCounts,
	}

	issuesDoc := AuditIssues{
		SiteOverview:  overview,
		Crawlability:  crawlability,
		IssuesSummary: summary,
		TechnicalSEO:  technicalIssues,
		OnPageSEO:     onpageIssues,
	}

	return AuditReport{
		AuditStats:    stats,
		AuditIssues:   issuesDoc,
		ExecutionTime: time.Since(start).Seconds(),
	}
}

// sortIssues orders a page's issues by severity (critical..low) then by
// code, for deterministic output.
func sortIssues(issues []rules.Issue) []rules.Issue {
	out := make([]rules.Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() < out[j].Severity.Rank()
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
