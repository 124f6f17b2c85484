package rules

import (
	"net/url"
	"strings"

	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/sitecontext"
	"github.com/seoauditor/engine/pkg/urlutil"
)

// ReportedRules is the fixed, ordered list of non-scored, reported-only
// checks (spec.md §4.5). They always carry Weight 0.
var ReportedRules = []ruleFunc{
	ruleURLsContainUnderscore,
	ruleURLsContainUppercase,
	ruleURLsTooLong,
	ruleURLsTooDeep,
	ruleURLsSpecialCharacters,
	ruleMissingViewport,
	ruleMissingCacheControl,
	ruleMissingContentCompression,
	ruleMissingRobotsTxt,
	ruleNoSitemapsFound,
	ruleMissingLLMsTxt,
	ruleStatus404,
}

func reported(code, url, msg string) Issue {
	return issue(code, CategoryReported, SeverityLow, 0, url, msg, "")
}

func parsedURL(rec crawler.CrawlRecord) (url.URL, bool) {
	u, err := url.Parse(rec.URL)
	if err != nil {
		return url.URL{}, false
	}
	return *u, true
}

func ruleURLsContainUnderscore(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	u, ok := parsedURL(rec)
	if !ok || !urlutil.HasUnderscore(u) {
		return nil
	}
	return []Issue{reported("urls_contain_underscore", rec.URL, "URL path contains an underscore")}
}

func ruleURLsContainUppercase(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	u, ok := parsedURL(rec)
	if !ok || !urlutil.HasUppercase(u) {
		return nil
	}
	return []Issue{reported("urls_contain_uppercase", rec.URL, "URL path contains an uppercase character")}
}

func ruleURLsTooLong(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	u, ok := parsedURL(rec)
	if !ok || !urlutil.TooLong(u) {
		return nil
	}
	return []Issue{reported("urls_too_long", rec.URL, "URL is longer than 100 characters")}
}

func ruleURLsTooDeep(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	u, ok := parsedURL(rec)
	if !ok || !urlutil.TooDeep(u) {
		return nil
	}
	return []Issue{reported("urls_too_deep", rec.URL, "URL path has more than 5 segments")}
}

func ruleURLsSpecialCharacters(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	u, ok := parsedURL(rec)
	if !ok || !urlutil.HasSpecialCharacters(u) {
		return nil
	}
	return []Issue{reported("urls_special_characters", rec.URL, "URL contains characters outside [a-z0-9-_./]")}
}

func ruleMissingViewport(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || rec.Facts.ViewportPresent {
		return nil
	}
	return []Issue{reported("missing_viewport", rec.URL, "no viewport meta tag found")}
}

func ruleMissingCacheControl(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if headerPresent(rec.Fetch.ResponseHeaders, "Cache-Control") {
		return nil
	}
	return []Issue{reported("missing_cache_control", rec.URL, "response has no Cache-Control header")}
}

func ruleMissingContentCompression(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if headerPresent(rec.Fetch.ResponseHeaders, "Content-Encoding") {
		return nil
	}
	return []Issue{reported("missing_content_compression", rec.URL, "response was not served compressed")}
}

func ruleMissingRobotsTxt(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.URL != ctx.HomepageURL || ctx.RobotsExists {
		return nil
	}
	return []Issue{reported("missing_robots_txt", rec.URL, "no robots.txt found")}
}

func ruleNoSitemapsFound(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.URL != ctx.HomepageURL || len(ctx.SitemapURLs) > 0 {
		return nil
	}
	return []Issue{reported("no_sitemaps_found", rec.URL, "no sitemap could be discovered")}
}

func ruleMissingLLMsTxt(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.URL != ctx.HomepageURL || ctx.LLMsTxtOK {
		return nil
	}
	return []Issue{reported("missing_llms_txt", rec.URL, "no llms.txt found")}
}

func ruleStatus404(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Fetch.StatusCode != 404 {
		return nil
	}
	return []Issue{reported("status_404", rec.URL, "page returned 404")}
}

func headerPresent(headers map[string][]string, key string) bool {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return true
		}
	}
	return false
}
