// Package rules implements the closed, fixed-order rule catalog of
// spec.md §4.5 as pure functions (record, ctx) → []Issue. Ground: spec.md's
// own Design Notes §9 mandate ("model rules as a fixed ordered list of pure
// functions; no runtime registration, no inheritance") — the teacher has no
// analogue (docs-crawler has no scoring stage), so this package is built
// directly from the spec's catalog rather than adapted from teacher code;
// its only borrowed idiom is the teacher's plain-function, no-interface
// style for small stateless checks.
package rules

import (
	"strings"

	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/sitecontext"
)

type ruleFunc func(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue

// TechnicalRules is the fixed, ordered list of technical-category checks.
var TechnicalRules = []ruleFunc{
	ruleNoindexOnIndexable,
	ruleRedirectLoop,
	ruleNotHTTPS,
	ruleCanonical404,
	ruleCanonicalToHomepage,
	ruleServerError5xx,
	ruleRedirectChainEnds404,
	ruleMixedContentJSCSS,
	ruleMetaRobotsConflict,
	ruleCanonicalDifferentURL,
	ruleRedirectChainTooLong,
	ruleRedirect302,
	ruleNofollowDirective,
	ruleMissingStructuredData,
	ruleDuplicateStructuredData,
}

func issue(code string, cat Category, sev Severity, weight int, url, msg, note string) Issue {
	return Issue{Code: code, Category: cat, Severity: sev, URL: url, Message: msg, ThresholdNote: note, Weight: weight}
}

func ruleNoindexOnIndexable(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	if rec.Facts.MetaRobots["noindex"] || rec.Facts.XRobots["noindex"] {
		return []Issue{issue("noindex_on_indexable", CategoryTechnical, SeverityCritical, -15, rec.URL,
			"page is marked noindex", "")}
	}
	return nil
}

func ruleRedirectLoop(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	seen := map[string]bool{}
	for _, hop := range rec.Fetch.RedirectChain {
		if seen[hop.URL] {
			return []Issue{issue("redirect_loop", CategoryTechnical, SeverityCritical, -15, rec.URL,
				"redirect chain revisits a URL it already passed through", "")}
		}
		seen[hop.URL] = true
	}
	return nil
}

func ruleNotHTTPS(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if strings.HasPrefix(strings.ToLower(rec.Fetch.FinalURL), "http://") {
		return []Issue{issue("not_https", CategoryTechnical, SeverityCritical, -15, rec.URL,
			"final URL is served over plain HTTP", "")}
	}
	return nil
}

func ruleCanonical404(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasCanonical {
		return nil
	}
	if status, ok := ctx.StatusByURL[rec.Facts.Canonical]; ok && status == 404 {
		return []Issue{issue("canonical_404", CategoryTechnical, SeverityHigh, -12, rec.URL,
			"canonical URL resolves to a 404", "")}
	}
	return nil
}

func ruleCanonicalToHomepage(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasCanonical {
		return nil
	}
	if rec.Facts.Canonical == ctx.HomepageURL && rec.URL != ctx.HomepageURL {
		return []Issue{issue("canonical_to_homepage", CategoryTechnical, SeverityHigh, -12, rec.URL,
			"canonical points to the homepage instead of this page", "")}
	}
	return nil
}

func ruleServerError5xx(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Fetch.StatusCode >= 500 && rec.Fetch.StatusCode <= 599 {
		return []Issue{issue("server_error_5xx", CategoryTechnical, SeverityHigh, -12, rec.URL,
			"server responded with a 5xx error", "")}
	}
	return nil
}

func ruleRedirectChainEnds404(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	chain := rec.Fetch.RedirectChain
	if len(chain) >= 1 && rec.Fetch.StatusCode == 404 {
		return []Issue{issue("redirect_chain_ends_404", CategoryTechnical, SeverityHigh, -12, rec.URL,
			"redirect chain terminates in a 404", "")}
	}
	return nil
}

func ruleMixedContentJSCSS(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HTTPS || len(rec.Facts.MixedContent) == 0 {
		return nil
	}
	return []Issue{issue("mixed_content_js_css", CategoryTechnical, SeverityHigh, -10, rec.URL,
		"HTTPS page loads non-HTTPS subresources", "")}
}

func ruleMetaRobotsConflict(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	metaIndex := rec.Facts.MetaRobots["index"] || !rec.Facts.MetaRobots["noindex"]
	xIndex := rec.Facts.XRobots["index"] || !rec.Facts.XRobots["noindex"]
	metaStated := rec.Facts.MetaRobots["index"] || rec.Facts.MetaRobots["noindex"]
	xStated := rec.Facts.XRobots["index"] || rec.Facts.XRobots["noindex"]
	if metaStated && xStated && metaIndex != xIndex {
		return []Issue{issue("meta_robots_conflict", CategoryTechnical, SeverityMedium, -6, rec.URL,
			"meta robots and X-Robots-Tag disagree on index/noindex", "")}
	}
	return nil
}

func ruleCanonicalDifferentURL(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasCanonical {
		return nil
	}
	if rec.Facts.Canonical == rec.URL {
		return nil
	}
	// Already covered by the more specific canonical_404/canonical_to_homepage
	// rules; this is the catch-all for everything else.
	if rec.Facts.Canonical == ctx.HomepageURL && rec.URL != ctx.HomepageURL {
		return nil
	}
	if status, ok := ctx.StatusByURL[rec.Facts.Canonical]; ok && status == 404 {
		return nil
	}
	return []Issue{issue("canonical_different_url", CategoryTechnical, SeverityMedium, -6, rec.URL,
		"canonical URL differs from the crawled URL", "")}
}

func ruleRedirectChainTooLong(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if len(rec.Fetch.RedirectChain) > 3 {
		return []Issue{issue("redirect_chain_too_long", CategoryTechnical, SeverityMedium, -6, rec.URL,
			"redirect chain has more than 3 hops", "")}
	}
	return nil
}

func ruleRedirect302(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	for _, hop := range rec.Fetch.RedirectChain {
		if hop.Status == 302 {
			return []Issue{issue("redirect_302", CategoryTechnical, SeverityMedium, -4, rec.URL,
				"redirect chain uses a temporary (302) redirect", "")}
		}
	}
	return nil
}

func ruleNofollowDirective(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	if rec.Facts.MetaRobots["nofollow"] || rec.Facts.XRobots["nofollow"] {
		return []Issue{issue("nofollow_directive", CategoryTechnical, SeverityLow, -3, rec.URL,
			"page declares nofollow", "")}
	}
	return nil
}

func ruleMissingStructuredData(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	if len(rec.Facts.StructuredData) == 0 && rec.Fetch.StatusCode >= 200 && rec.Fetch.StatusCode < 300 {
		return []Issue{issue("missing_structured_data", CategoryTechnical, SeverityLow, -2, rec.URL,
			"no structured data detected on this page", "")}
	}
	return nil
}

func ruleDuplicateStructuredData(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	counts := map[string]int{}
	for _, sd := range rec.Facts.StructuredData {
		counts[sd.TypeLabel]++
	}
	for _, n := range counts {
		if n > 1 {
			return []Issue{issue("duplicate_structured_data", CategoryTechnical, SeverityLow, -2, rec.URL,
				"the same structured-data type appears more than once", "")}
		}
	}
	return nil
}
