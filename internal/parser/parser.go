// Package parser turns an HTML body into PageFacts using goquery (the DOM
// query library the teacher's internal/extractor already depends on).
// Ground: teacher's internal/extractor/dom.go traversal idiom, generalized
// from doc-page metadata extraction to the full SEO fact set of spec.md §3.
package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seoauditor/engine/pkg/urlutil"
)

// Parse extracts PageFacts from an HTML body fetched from finalURL, whose
// scheme (https or not) feeds the HTTPS and mixed-content facts.
func Parse(body []byte, finalURL *url.URL, xRobotsHeader string) (PageFacts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return PageFacts{}, err
	}

	facts := PageFacts{
		MetaRobots: map[string]bool{},
		XRobots:    map[string]bool{},
		HTTPS:      finalURL.Scheme == "https",
	}

	if titleSel := doc.Find("title").First(); titleSel.Length() > 0 {
		facts.Title = strings.TrimSpace(titleSel.Text())
		facts.HasTitle = true
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		facts.MetaDescription = strings.TrimSpace(desc)
		facts.HasMetaDesc = true
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if abs, ok := resolve(href, finalURL); ok {
			facts.Canonical = abs
			facts.HasCanonical = true
		}
	}

	if content, ok := doc.Find(`meta[name="robots"]`).First().Attr("content"); ok {
		for _, tok := range splitTokens(content) {
			facts.MetaRobots[tok] = true
		}
	}
	for _, tok := range splitTokens(xRobotsHeader) {
		facts.XRobots[tok] = true
	}

	for level := 1; level <= 6; level++ {
		sel := doc.Find(headingTag(level))
		facts.Headings.Counts[level-1] = sel.Length()
		sel.Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				facts.Headings.Texts[level-1] = append(facts.Headings.Texts[level-1], text)
			}
		})
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		facts.Images = append(facts.Images, Image{
			Src:    src,
			Alt:    alt,
			HasAlt: hasAlt,
			Width:  width,
			Height: height,
			IsSVG:  strings.HasSuffix(strings.ToLower(strings.SplitN(src, "?", 2)[0]), ".svg"),
		})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs, ok := resolve(href, finalURL)
		if !ok {
			return
		}
		rel, _ := s.Attr("rel")
		ariaLabel, _ := s.Attr("aria-label")
		facts.Links = append(facts.Links, Link{
			HrefAbsolute: abs,
			AnchorText:   strings.TrimSpace(s.Text()),
			AriaLabel:    strings.TrimSpace(ariaLabel),
			RelTokens:    splitTokens(rel),
			IsInternal:   isInternal(abs, finalURL),
		})
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		facts.StructuredData = append(facts.StructuredData, StructuredData{
			Kind:      KindJSONLD,
			TypeLabel: jsonLDTypeLabel(s.Text()),
		})
	})
	doc.Find(`[itemscope][itemtype]`).Each(func(_ int, s *goquery.Selection) {
		itemtype, _ := s.Attr("itemtype")
		facts.StructuredData = append(facts.StructuredData, StructuredData{
			Kind:      KindMicrodata,
			TypeLabel: lastPathSegment(itemtype),
		})
	})
	doc.Find(`[typeof]`).Each(func(_ int, s *goquery.Selection) {
		typeOf, _ := s.Attr("typeof")
		facts.StructuredData = append(facts.StructuredData, StructuredData{
			Kind:      KindRDFa,
			TypeLabel: typeOf,
		})
	})

	facts.ViewportPresent = doc.Find(`meta[name="viewport"]`).Length() > 0
	facts.LangAttr, _ = doc.Find("html").First().Attr("lang")
	if charset, ok := doc.Find(`meta[charset]`).First().Attr("charset"); ok {
		facts.Charset = charset
	} else if content, ok := doc.Find(`meta[http-equiv="Content-Type"]`).First().Attr("content"); ok {
		facts.Charset = extractCharsetFromContentType(content)
	}

	if facts.HTTPS {
		facts.MixedContent = findMixedContent(doc)
	}

	return facts, nil
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	default:
		return "h6"
	}
}

func splitTokens(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolve turns href into an absolute, canonicalized URL string, using the
// same urlutil.Resolve/Key pipeline the crawler uses for rec.URL and
// ctx.StatusByURL keys (crawler.go), so facts.Canonical and every
// Link.HrefAbsolute land in the same key space the rule engine joins against.
func resolve(href string, base *url.URL) (string, bool) {
	resolved, ok := urlutil.Resolve(href, *base)
	if !ok {
		return "", false
	}
	return urlutil.Key(resolved), true
}

func isInternal(absURL string, base *url.URL) bool {
	u, err := url.Parse(absURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), base.Hostname())
}

func jsonLDTypeLabel(raw string) string {
	idx := strings.Index(raw, `"@type"`)
	if idx < 0 {
		return ""
	}
	rest := raw[idx+len(`"@type"`):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return ""
	}
	rest = rest[colon+1:]
	quote1 := strings.Index(rest, `"`)
	if quote1 < 0 {
		return ""
	}
	rest = rest[quote1+1:]
	quote2 := strings.Index(rest, `"`)
	if quote2 < 0 {
		return ""
	}
	return rest[:quote2]
}

func lastPathSegment(itemtype string) string {
	itemtype = strings.TrimRight(itemtype, "/")
	idx := strings.LastIndex(itemtype, "/")
	if idx < 0 {
		return itemtype
	}
	return itemtype[idx+1:]
}

func extractCharsetFromContentType(contentType string) string {
	const marker = "charset="
	idx := strings.Index(strings.ToLower(contentType), marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(contentType[idx+len(marker):])
}

// findMixedContent scans img/script/link/iframe src/href attributes on an
// HTTPS page for any absolute http:// subresource (spec.md §3 mixed_content).
func findMixedContent(doc *goquery.Document) []string {
	var found []string
	check := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			v, ok := s.Attr(attr)
			if !ok {
				return
			}
			if strings.HasPrefix(strings.ToLower(v), "http://") {
				found = append(found, v)
			}
		}
	}
	doc.Find("img[src]").Each(check("src"))
	doc.Find("script[src]").Each(check("src"))
	doc.Find(`link[rel="stylesheet"][href]`).Each(check("href"))
	doc.Find("iframe[src]").Each(check("src"))
	return found
}
