package parser

import (
	"net/url"
	"testing"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestParseBasicPage(t *testing.T) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
<title> Welcome to A </title>
<meta name="description" content="A short description.">
<link rel="canonical" href="/">
<meta name="viewport" content="width=device-width">
</head>
<body>
<h1>Welcome</h1>
<img src="/logo.png" alt="logo">
<a href="/about">About</a>
<script type="application/ld+json">{"@type": "Organization"}</script>
</body>
</html>`

	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/"), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if !facts.HasTitle || facts.Title != "Welcome to A" {
		t.Errorf("expected trimmed title, got %q", facts.Title)
	}
	if !facts.HasMetaDesc || facts.MetaDescription != "A short description." {
		t.Errorf("unexpected meta description: %q", facts.MetaDescription)
	}
	if !facts.HasCanonical || facts.Canonical != "https://a.test/" {
		t.Errorf("unexpected canonical: %q", facts.Canonical)
	}
	if facts.Headings.Counts[0] != 1 || facts.Headings.Texts[0][0] != "Welcome" {
		t.Errorf("unexpected H1 extraction: %+v", facts.Headings)
	}
	if len(facts.Images) != 1 || !facts.Images[0].HasAlt {
		t.Errorf("unexpected image extraction: %+v", facts.Images)
	}
	if len(facts.Links) != 1 || facts.Links[0].HrefAbsolute != "https://a.test/about" || !facts.Links[0].IsInternal {
		t.Errorf("unexpected link extraction: %+v", facts.Links)
	}
	if len(facts.StructuredData) != 1 || facts.StructuredData[0].Kind != KindJSONLD || facts.StructuredData[0].TypeLabel != "Organization" {
		t.Errorf("unexpected structured data: %+v", facts.StructuredData)
	}
	if !facts.ViewportPresent {
		t.Error("expected viewport_present true")
	}
	if facts.LangAttr != "en" {
		t.Errorf("unexpected lang attr: %q", facts.LangAttr)
	}
	if !facts.HTTPS {
		t.Error("expected https true for https:// final URL")
	}
}

func TestParseSVGExcludedFromAltChecks(t *testing.T) {
	html := `<html><body><img src="/icon.svg"></body></html>`
	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/"), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(facts.Images) != 1 || !facts.Images[0].IsSVG {
		t.Errorf("expected SVG image flagged is_svg, got %+v", facts.Images)
	}
}

func TestParseMixedContent(t *testing.T) {
	html := `<html><body>
<script src="http://insecure.test/a.js"></script>
<img src="https://secure.test/b.png">
</body></html>`
	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/"), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(facts.MixedContent) != 1 || facts.MixedContent[0] != "http://insecure.test/a.js" {
		t.Errorf("unexpected mixed content: %+v", facts.MixedContent)
	}
}

func TestParseMetaRobotsTokens(t *testing.T) {
	html := `<html><head><meta name="robots" content="NOINDEX, NOFOLLOW"></head></html>`
	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/"), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !facts.MetaRobots["noindex"] || !facts.MetaRobots["nofollow"] {
		t.Errorf("expected lowercased noindex/nofollow tokens, got %+v", facts.MetaRobots)
	}
}

func TestParseCanonicalizesResolvedHrefs(t *testing.T) {
	html := `<html><head><link rel="canonical" href="/about/"></head>
<body><a href="/about/">About</a></body></html>`
	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/about"), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if facts.Canonical != "https://a.test/about" {
		t.Errorf("expected canonical href to be canonicalized (trailing slash stripped) to match "+
			"the crawler's rec.URL key space, got %q", facts.Canonical)
	}
	if len(facts.Links) != 1 || facts.Links[0].HrefAbsolute != "https://a.test/about" {
		t.Errorf("expected resolved link href canonicalized the same way, got %+v", facts.Links)
	}
}

func TestParseExternalLinkNotInternal(t *testing.T) {
	html := `<html><body><a href="https://other.test/page">Other</a></body></html>`
	facts, err := Parse([]byte(html), mustParseURL(t, "https://a.test/"), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(facts.Links) != 1 || facts.Links[0].IsInternal {
		t.Errorf("expected external link marked non-internal: %+v", facts.Links)
	}
}
