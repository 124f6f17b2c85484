package rules

import (
	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/sitecontext"
)

// Evaluate runs the full fixed-order catalog (technical, then on-page, then
// reported-only) against one CrawlRecord and returns every Issue it fires,
// in catalog order (spec.md §9: "a fixed ordered list of pure functions;
// no runtime registration, no inheritance").
func Evaluate(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	var out []Issue
	for _, categoryRules := range [][]ruleFunc{TechnicalRules, OnPageRules, ReportedRules} {
		for _, rule := range categoryRules {
			out = append(out, rule(rec, ctx)...)
		}
	}
	return out
}
