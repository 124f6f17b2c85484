package rules

import (
	"strings"

	"github.com/seoauditor/engine/internal/crawler"
	"github.com/seoauditor/engine/internal/sitecontext"
)

// OnPageRules is the fixed, ordered list of on-page-category checks
// (spec.md §4.5).
var OnPageRules = []ruleFunc{
	ruleMissingTitle,
	ruleTitleEmpty,
	ruleMissingMetaDescription,
	ruleMetaDescriptionEmpty,
	ruleNoH1,
	ruleOrphanPage,
	ruleTitleTooShort,
	ruleTitleTooLong,
	ruleDuplicateTitle,
	ruleMultipleH1,
	ruleImagesMissingAlt,
	ruleBrokenInternalLinks,
	ruleMetaDescriptionTooShort,
	ruleMetaDescriptionTooLong,
	ruleH1Other,
	ruleTitleTemplateDefault,
	ruleH1IdenticalToTitle,
	ruleImagesEmptyAlt,
	ruleDuplicateDescription,
	ruleExcessiveInternalLinks,
	ruleLinkWithoutAnchorText,
	ruleInternalLinksOther,
}

var templateDefaultTitles = map[string]bool{
	"home": true, "page": true, "untitled": true, "new page": true,
}

func onpage(code string, sev Severity, weight int, url, msg, note string) Issue {
	return issue(code, CategoryOnPage, sev, weight, url, msg, note)
}

func ruleMissingTitle(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || rec.Facts.HasTitle {
		return nil
	}
	return []Issue{onpage("missing_title", SeverityHigh, -8, rec.URL, "page has no <title> tag", "")}
}

func ruleTitleEmpty(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle {
		return nil
	}
	if strings.TrimSpace(rec.Facts.Title) == "" {
		return []Issue{onpage("title_empty", SeverityHigh, -8, rec.URL, "<title> tag is present but empty", "")}
	}
	return nil
}

func ruleMissingMetaDescription(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || rec.Facts.HasMetaDesc {
		return nil
	}
	return []Issue{onpage("missing_meta_description", SeverityHigh, -6, rec.URL, "page has no meta description", "")}
}

func ruleMetaDescriptionEmpty(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasMetaDesc {
		return nil
	}
	if strings.TrimSpace(rec.Facts.MetaDescription) == "" {
		return []Issue{onpage("meta_description_empty", SeverityHigh, -6, rec.URL, "meta description is present but empty", "")}
	}
	return nil
}

func ruleNoH1(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	if rec.Facts.Headings.Counts[0] == 0 {
		return []Issue{onpage("no_h1", SeverityHigh, -6, rec.URL, "page has no H1 heading", "")}
	}
	return nil
}

func ruleOrphanPage(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.URL == ctx.HomepageURL {
		return nil
	}
	if !ctx.SitemapURLs[rec.URL] {
		return nil
	}
	if ctx.InboundLinks[rec.URL] == 0 {
		return []Issue{onpage("orphan_page", SeverityHigh, -6, rec.URL,
			"page is listed in the sitemap but has no internal inbound links", "")}
	}
	return nil
}

func ruleTitleTooShort(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle {
		return nil
	}
	n := len(strings.TrimSpace(rec.Facts.Title))
	if n > 0 && n < 30 {
		return []Issue{onpage("title_too_short", SeverityMedium, -4, rec.URL, "title is shorter than 30 characters", "")}
	}
	return nil
}

func ruleTitleTooLong(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle {
		return nil
	}
	if len(strings.TrimSpace(rec.Facts.Title)) > 70 {
		return []Issue{onpage("title_too_long", SeverityMedium, -4, rec.URL, "title is longer than 70 characters", "")}
	}
	return nil
}

func ruleDuplicateTitle(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle {
		return nil
	}
	key := sitecontext.Normalize(rec.Facts.Title)
	if urls, ok := ctx.DuplicateTitles[key]; ok && containsURL(urls, rec.URL) {
		return []Issue{onpage("duplicate_title", SeverityMedium, -4, rec.URL, "title duplicates another crawled page", "")}
	}
	return nil
}

func ruleMultipleH1(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	if rec.Facts.Headings.Counts[0] > 1 {
		return []Issue{onpage("multiple_h1", SeverityMedium, -4, rec.URL, "page has more than one H1 heading", "")}
	}
	return nil
}

// ruleImagesMissingAlt emits one Issue per offending non-SVG image lacking
// an alt attribute, capped at 3 per page (spec.md §4.5).
func ruleImagesMissingAlt(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	var out []Issue
	for _, img := range rec.Facts.Images {
		if img.IsSVG || img.HasAlt {
			continue
		}
		out = append(out, onpage("images_missing_alt", SeverityMedium, -4, rec.URL,
			"image is missing an alt attribute: "+img.Src, ""))
		if len(out) == 3 {
			break
		}
	}
	return out
}

func ruleBrokenInternalLinks(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	for _, link := range rec.Facts.Links {
		if !link.IsInternal {
			continue
		}
		if status, ok := ctx.StatusByURL[link.HrefAbsolute]; ok && status >= 400 {
			return []Issue{onpage("broken_internal_links", SeverityMedium, -4, rec.URL,
				"page links to a crawled URL that returned an error status", "")}
		}
	}
	return nil
}

func ruleMetaDescriptionTooShort(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasMetaDesc {
		return nil
	}
	n := len(strings.TrimSpace(rec.Facts.MetaDescription))
	if n > 0 && n < 120 {
		return []Issue{onpage("meta_description_too_short", SeverityMedium, -3, rec.URL,
			"meta description is shorter than 120 characters", "")}
	}
	return nil
}

func ruleMetaDescriptionTooLong(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasMetaDesc {
		return nil
	}
	if len(strings.TrimSpace(rec.Facts.MetaDescription)) > 160 {
		return []Issue{onpage("meta_description_too_long", SeverityMedium, -3, rec.URL,
			"meta description is longer than 160 characters", "")}
	}
	return nil
}

// ruleH1Other is the catch-all for H1 anomalies not covered by no_h1 or
// multiple_h1 — currently empty-text H1 tags.
func ruleH1Other(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || rec.Facts.Headings.Counts[0] != 1 {
		return nil
	}
	texts := rec.Facts.Headings.Texts[0]
	if len(texts) == 0 || strings.TrimSpace(texts[0]) == "" {
		return []Issue{onpage("h1_other", SeverityMedium, -3, rec.URL, "the single H1 has no usable text", "")}
	}
	return nil
}

func ruleTitleTemplateDefault(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle {
		return nil
	}
	title := strings.TrimSpace(rec.Facts.Title)
	if len(title) < 20 && templateDefaultTitles[strings.ToLower(title)] {
		return []Issue{onpage("title_template_default", SeverityLow, -3, rec.URL,
			"title looks like an unedited template placeholder", "")}
	}
	return nil
}

func ruleH1IdenticalToTitle(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasTitle || rec.Facts.Headings.Counts[0] != 1 {
		return nil
	}
	texts := rec.Facts.Headings.Texts[0]
	if len(texts) != 1 {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(texts[0]), strings.TrimSpace(rec.Facts.Title)) {
		return []Issue{onpage("h1_identical_to_title", SeverityLow, -2, rec.URL,
			"the H1 text duplicates the <title> text exactly", "")}
	}
	return nil
}

// ruleImagesEmptyAlt emits one Issue per non-SVG image with alt="", capped
// at 2 per page.
func ruleImagesEmptyAlt(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	var out []Issue
	for _, img := range rec.Facts.Images {
		if img.IsSVG || !img.HasAlt || img.Alt != "" {
			continue
		}
		out = append(out, onpage("images_empty_alt", SeverityLow, -2, rec.URL,
			"image has an empty alt attribute: "+img.Src, ""))
		if len(out) == 2 {
			break
		}
	}
	return out
}

func ruleDuplicateDescription(rec crawler.CrawlRecord, ctx sitecontext.SiteContext) []Issue {
	if rec.Facts == nil || !rec.Facts.HasMetaDesc {
		return nil
	}
	key := sitecontext.Normalize(rec.Facts.MetaDescription)
	if urls, ok := ctx.DuplicateDescriptions[key]; ok && containsURL(urls, rec.URL) {
		return []Issue{onpage("duplicate_description", SeverityLow, -2, rec.URL,
			"meta description duplicates another crawled page", "")}
	}
	return nil
}

func ruleExcessiveInternalLinks(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	count := 0
	for _, l := range rec.Facts.Links {
		if l.IsInternal {
			count++
		}
	}
	if count > 100 {
		return []Issue{onpage("excessive_internal_links", SeverityLow, -2, rec.URL,
			"page has more than 100 internal links", "")}
	}
	return nil
}

func ruleLinkWithoutAnchorText(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	for _, l := range rec.Facts.Links {
		if strings.TrimSpace(l.AnchorText) == "" && l.AriaLabel == "" {
			return []Issue{onpage("link_without_anchor_text", SeverityLow, -2, rec.URL,
				"a link has no anchor text and no aria-label", "")}
		}
	}
	return nil
}

// ruleInternalLinksOther is the catch-all for link anomalies not covered
// above — currently self-referential internal links with a fragment-only
// target, which are link-graph noise rather than a genuine navigation path.
func ruleInternalLinksOther(rec crawler.CrawlRecord, _ sitecontext.SiteContext) []Issue {
	if rec.Facts == nil {
		return nil
	}
	for _, l := range rec.Facts.Links {
		if l.IsInternal && l.HrefAbsolute == rec.URL+"#" {
			return []Issue{onpage("internal_links_other", SeverityLow, -2, rec.URL,
				"page links to itself via a bare fragment", "")}
		}
	}
	return nil
}

func containsURL(urls []string, target string) bool {
	for _, u := range urls {
		if u == target {
			return true
		}
	}
	return false
}
