package crawler

import (
	"github.com/seoauditor/engine/internal/fetcher"
	"github.com/seoauditor/engine/internal/parser"
)

// CrawlRecord is one crawled URL's outcome: a fetch always present, facts
// present only for successful HTML responses (spec.md §3).
type CrawlRecord struct {
	URL   string
	Fetch fetcher.Result
	Facts *parser.PageFacts
}

// Robots is the subset of robots.txt facts a CrawlResult carries forward
// into SiteContext (spec.md §3 SiteContext.robots).
type Robots struct {
	Exists           bool
	RawText          string
	DeclaredSitemaps []string
}

// CrawlResult is everything crawl() hands to site-context construction.
type CrawlResult struct {
	BaseHost    string
	HomepageURL string
	Records     []CrawlRecord
	SitemapURLs []string
	Robots      Robots
	LLMsTxtOK   bool
}
