// Package audit is the top-level orchestrator implementing
// audit(url, max_pages?, respect_robots?) → AuditReport, the single
// invocation contract of spec.md §6. It wires every other internal package
// in the data-flow order spec.md §2 describes: Resolver → Crawler →
// Fetcher/Parser → SiteContext → Rule Engine → Scorer/Aggregator → Report
// Builder.
package audit

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/seoauditor/engine/internal/config"
	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/fetcher"
	"github.com/seoauditor/engine/internal/metadata"
	"github.com/seoauditor/engine/internal/report"
	"github.com/seoauditor/engine/internal/robots"
	"github.com/seoauditor/engine/internal/rules"
	"github.com/seoauditor/engine/internal/scorer"
	"github.com/seoauditor/engine/internal/sitecontext"
	"github.com/seoauditor/engine/internal/sitemap"
)

// Request is the validated input to Run.
type Request struct {
	URL           string
	MaxPages      *int
	RespectRobots bool
}

// Engine bundles the configuration and observability sink every run shares.
type Engine struct {
	cfg  config.Config
	sink metadata.MetadataSink
}

// New builds an Engine from cfg (normally config.WithDefault()...Build())
// and sink (normally metadata.NewRecorder(nil)).
func New(cfg config.Config, sink metadata.MetadataSink) *Engine {
	if sink == nil {
		sink = metadata.NopSink{}
	}
	return &Engine{cfg: cfg, sink: sink}
}

// Run validates req, executes the crawl, and returns the final
// report.AuditReport. Per spec.md §7, it returns a ValidationError only for
// input errors; any other failure the crawl itself encounters is absorbed
// into the report (fetch errors, missing robots/sitemap, etc).
func (e *Engine) Run(ctx context.Context, req Request) (report.AuditReport, error) {
	start := time.Now()

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return report.AuditReport{}, &ValidationError{Code: "invalid_url", Message: "url must parse with scheme http or https"}
	}

	cfg := e.cfg
	if req.MaxPages != nil {
		if *req.MaxPages < 1 {
			return report.AuditReport{}, &ValidationError{Code: "invalid_max_pages", Message: "max_pages must be >= 1"}
		}
		cfg.MaxPages = *req.MaxPages
	}
	cfg.RespectRobots = req.RespectRobots

	fetch := fetcher.New(cfg)
	robotsResolver := robots.New(fetch.HTTPClient(), cfg.UserAgent, cfg.MaxBodyBytes)
	sitemapResolver := sitemap.New(fetch.HTTPClient(), cfg.UserAgent, cfg.SitemapMaxDepth, cfg.SitemapMaxURLs)

	crawl := crawler.New(cfg, fetch, robotsResolver, sitemapResolver, e.sink)

	result, err := crawl.Crawl(ctx, normalizeSeed(req.URL))
	if err != nil {
		return report.AuditReport{}, &ValidationError{Code: "invalid_url", Message: err.Error()}
	}

	ctxSite := sitecontext.Build(result)

	scores := make([]scorer.PageScore, 0, len(result.Records))
	for _, rec := range result.Records {
		issues := rules.Evaluate(rec, ctxSite)
		scores = append(scores, scorer.ScoreRecord(rec, issues))
	}

	metrics := scorer.Aggregate(result.Records, scores)

	e.sink.RecordCrawlSummary(ctx, metadata.CrawlSummary{
		TotalPages:  metrics.TotalCrawledPages,
		TotalErrors: countErrors(result.Records),
		Duration:    time.Since(start),
	})

	return report.Build(result.HomepageURL, ctxSite, scores, metrics, start), nil
}

func normalizeSeed(raw string) string {
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

func countErrors(records []crawler.CrawlRecord) int {
	n := 0
	for _, r := range records {
		if r.Fetch.Classification != fetcher.ClassOK {
			n++
		}
	}
	return n
}
