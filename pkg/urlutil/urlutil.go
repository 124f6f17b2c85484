// Package urlutil provides pure, stateless URL canonicalization and
// classification helpers shared by the crawler, rule engine, and site
// context builder. Ground: teacher's pkg/urlutil.Canonicalize, extended per
// spec.md §3 to retain the query string (the teacher's docs-crawler domain
// drops query strings entirely; an SEO audit must not, since query-string
// variants are a common duplicate-content source the rule engine needs to
// see as distinct URLs).
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// Canonicalize applies a deterministic normalization to a URL: lowercase
// scheme/host, drop default ports, strip the fragment, and normalize a
// trailing slash on the path (once, idempotently). Query parameters are
// preserved — see package doc.
func Canonicalize(u url.URL) url.URL {
	canon := u
	canon.Scheme = strings.ToLower(canon.Scheme)
	canon.Host = strings.ToLower(canon.Host)

	if host, port := canon.Hostname(), canon.Port(); port != "" {
		if (canon.Scheme == "http" && port == "80") || (canon.Scheme == "https" && port == "443") {
			canon.Host = host
		}
	}

	if canon.Path == "" {
		canon.Path = "/"
	} else if len(canon.Path) > 1 {
		canon.Path = strings.TrimRight(canon.Path, "/")
		if canon.Path == "" {
			canon.Path = "/"
		}
	}

	canon.Fragment = ""
	canon.RawFragment = ""

	return canon
}

// Key returns a comparable string form of a canonicalized URL, suitable for
// use as a map/set key (visited sets, duplicate maps, inbound-link tallies).
func Key(u url.URL) string {
	canon := Canonicalize(u)
	return canon.String()
}

// Resolve turns href (which may be relative) into an absolute URL using
// base as the resolution context.
func Resolve(href string, base url.URL) (url.URL, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return url.URL{}, false
	}
	resolved := base.ResolveReference(ref)
	return *resolved, true
}

// SameHost reports whether u belongs to host (case-insensitive).
func SameHost(u url.URL, host string) bool {
	return strings.EqualFold(u.Hostname(), host)
}

var specialCharPattern = regexp.MustCompile(`[^a-z0-9\-_./]`)

// HasUppercase reports whether the URL's path contains an uppercase ASCII
// letter.
func HasUppercase(u url.URL) bool {
	for _, r := range u.Path {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// HasUnderscore reports whether the URL's path contains an underscore.
func HasUnderscore(u url.URL) bool {
	return strings.Contains(u.Path, "_")
}

// HasSpecialCharacters reports whether the full URL string contains a byte
// outside [a-z0-9-_./] once lowercased.
func HasSpecialCharacters(u url.URL) bool {
	return specialCharPattern.MatchString(strings.ToLower(u.String()))
}

// TooLong reports whether the URL's full string form exceeds 100
// characters, per spec.md's urls_too_long threshold.
func TooLong(u url.URL) bool {
	return len(u.String()) > 100
}

// PathDepth counts non-empty path segments.
func PathDepth(u url.URL) int {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	depth := 0
	for _, s := range segments {
		if s != "" {
			depth++
		}
	}
	return depth
}

// TooDeep reports whether the URL's path has more than 5 segments.
func TooDeep(u url.URL) bool {
	return PathDepth(u) > 5
}
