// Package sitecontext builds the single-pass, post-crawl join spec.md §3
// calls SiteContext: duplicate title/description maps, the inbound-link
// graph, and the carried-forward sitemap/robots facts. Ground: teacher has
// no direct analogue (docs-crawler has no cross-page join stage); the
// single-pass-after-crawl design follows spec.md's own Concurrency Model
// note verbatim ("build SiteContext in a single pass after the crawl; do
// not attempt online duplicate detection during crawl").
package sitecontext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/pkg/urlutil"
)

// SiteContext is the immutable, once-computed cross-page context the rule
// engine joins against (spec.md §3).
type SiteContext struct {
	BaseHost               string
	HomepageURL            string
	DuplicateTitles        map[string][]string
	DuplicateDescriptions  map[string][]string
	InboundLinks           map[string]int
	StatusByURL            map[string]int
	SitemapURLs            map[string]bool
	RobotsExists           bool
	RobotsRawText          string
	DeclaredSitemaps       []string
	LLMsTxtOK              bool
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace and lowercases s, the comparison key used
// for duplicate title/description detection (spec.md §4.5).
func Normalize(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " "))
}

// Build joins a completed CrawlResult into a SiteContext in one pass.
func Build(result crawler.CrawlResult) SiteContext {
	titleURLs := map[string][]string{}
	descURLs := map[string][]string{}
	inbound := map[string]int{}
	statusByURL := map[string]int{}
	linkedFrom := map[string]map[string]bool{}

	for _, rec := range result.Records {
		statusByURL[rec.URL] = rec.Fetch.StatusCode
		if rec.Facts == nil {
			continue
		}
		if rec.Facts.HasTitle {
			key := Normalize(rec.Facts.Title)
			titleURLs[key] = append(titleURLs[key], rec.URL)
		}
		if rec.Facts.HasMetaDesc {
			key := Normalize(rec.Facts.MetaDescription)
			descURLs[key] = append(descURLs[key], rec.URL)
		}

		for _, link := range rec.Facts.Links {
			if !link.IsInternal {
				continue
			}
			u, err := url.Parse(link.HrefAbsolute)
			if err != nil {
				continue
			}
			target := urlutil.Key(*u)
			if linkedFrom[target] == nil {
				linkedFrom[target] = map[string]bool{}
			}
			linkedFrom[target][rec.URL] = true
		}
	}

	for target, sources := range linkedFrom {
		inbound[target] = len(sources)
	}

	dupTitles := map[string][]string{}
	for k, urls := range titleURLs {
		if len(urls) > 1 {
			dupTitles[k] = urls
		}
	}
	dupDescs := map[string][]string{}
	for k, urls := range descURLs {
		if len(urls) > 1 {
			dupDescs[k] = urls
		}
	}

	sitemapSet := map[string]bool{}
	for _, u := range result.SitemapURLs {
		sitemapSet[u] = true
	}

	return SiteContext{
		BaseHost:              result.BaseHost,
		HomepageURL:           result.HomepageURL,
		DuplicateTitles:       dupTitles,
		DuplicateDescriptions: dupDescs,
		InboundLinks:          inbound,
		StatusByURL:           statusByURL,
		SitemapURLs:           sitemapSet,
		RobotsExists:          result.Robots.Exists,
		RobotsRawText:         result.Robots.RawText,
		DeclaredSitemaps:      result.Robots.DeclaredSitemaps,
		LLMsTxtOK:             result.LLMsTxtOK,
	}
}
