// Package robots resolves a site's robots.txt using
// github.com/temoto/robotstxt, the parser already present in the reference
// corpus's own sitemap-fetching repos (bd9ef6c0 kotylevskiy-go-sitemap-fetcher).
// Ground: teacher's internal/robots.Resolver shape (Resolve(base) →
// {exists, rules, declared sitemaps}), replacing the teacher's hand-rolled
// directive parser with the third-party one per spec.md's domain-stack
// expansion.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// Policy is the parsed robots.txt for one host.
type Policy struct {
	Exists            bool
	RawText           string
	DeclaredSitemaps  []string
	group             *robotstxt.Group
	CrawlDelaySeconds float64
}

// Allowed reports whether path is permitted by the robots.txt group that
// matched the resolver's user agent. A policy that does not exist permits
// everything.
func (p *Policy) Allowed(path string) bool {
	if p == nil || !p.Exists || p.group == nil {
		return true
	}
	return p.group.Test(path)
}

// Resolver fetches and parses robots.txt documents.
type Resolver struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// New builds a Resolver using client (the caller's already-configured HTTP
// client, so the same timeouts/transport apply to robots.txt fetches).
func New(client *http.Client, userAgent string, maxBytes int64) *Resolver {
	return &Resolver{client: client, userAgent: userAgent, maxBytes: maxBytes}
}

// Resolve fetches /robots.txt for base and returns its parsed Policy. A
// missing robots.txt (failed fetch or non-2xx status) is not an error: it is
// represented as Policy{Exists: false}, per spec.md §7 (sitemap/robots errors
// record as absence). A robots.txt that is fetched but cannot be parsed
// yields Exists true with its raw text and no rules.
func (r *Resolver) Resolve(ctx context.Context, base url.URL) Policy {
	robotsURL := base
	robotsURL.Path = "/robots.txt"
	robotsURL.RawQuery = ""
	robotsURL.Fragment = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return Policy{Exists: false}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return Policy{Exists: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Policy{Exists: false}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes))
	if err != nil {
		return Policy{Exists: false}
	}
	// Truncate stored raw text per spec.md §6 (robots_txt_content cap).
	raw := body
	const rawCap = 64 << 10
	if len(raw) > rawCap {
		raw = raw[:rawCap]
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return Policy{Exists: true, RawText: string(raw)}
	}

	group := data.FindGroup(r.userAgent)

	var sitemaps []string
	sitemaps = append(sitemaps, data.Sitemaps...)

	var crawlDelay float64
	if group != nil {
		crawlDelay = group.CrawlDelay.Seconds()
	}

	return Policy{
		Exists:            true,
		RawText:           string(raw),
		DeclaredSitemaps:  sitemaps,
		group:             group,
		CrawlDelaySeconds: crawlDelay,
	}
}

// ProbeLLMsTxt checks whether /llms.txt returns 2xx (spec.md §6 supplement:
// missing_llms_txt).
func (r *Resolver) ProbeLLMsTxt(ctx context.Context, base url.URL) bool {
	return r.probeOK(ctx, base, "/llms.txt")
}

func (r *Resolver) probeOK(ctx context.Context, base url.URL, path string) bool {
	u := base
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", r.userAgent)

	client := r.client
	if client.Timeout == 0 {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
