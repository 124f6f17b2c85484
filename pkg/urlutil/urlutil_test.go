package urlutil

import (
	"net/url"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return *u
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trailing slash removed", "https://a.test/guide/", "https://a.test/guide"},
		{"root stays single slash", "https://a.test/", "https://a.test/"},
		{"fragment removed", "https://a.test/guide#index", "https://a.test/guide"},
		{"query preserved (unlike teacher)", "https://a.test/guide?utm_source=x", "https://a.test/guide?utm_source=x"},
		{"scheme lowercased", "HTTPS://a.test/guide", "https://a.test/guide"},
		{"host lowercased", "https://A.TEST/guide", "https://a.test/guide"},
		{"default https port removed", "https://a.test:443/guide", "https://a.test/guide"},
		{"default http port removed", "http://a.test:80/guide", "http://a.test/guide"},
		{"non-default port kept", "https://a.test:8443/guide", "https://a.test:8443/guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canon := Canonicalize(mustParse(t, tt.input))
			got := canon.String()
			if got != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{"https://a.test/guide/", "HTTP://A.TEST:80/x/y/?q=1#f"}
	for _, in := range inputs {
		once := Canonicalize(mustParse(t, in))
		twice := Canonicalize(once)
		if once.String() != twice.String() {
			t.Errorf("canonicalize not idempotent for %q: %q vs %q", in, once.String(), twice.String())
		}
	}
}

func TestTooLong(t *testing.T) {
	short := mustParse(t, "https://a.test/x")
	if TooLong(short) {
		t.Error("short URL reported as too long")
	}
	long := mustParse(t, "https://a.test/"+strings.Repeat("a", 120))
	if !TooLong(long) {
		t.Error("120-char path not reported as too long")
	}
}

func TestPathDepth(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/", 0},
		{"/a", 1},
		{"/a/b/c", 3},
		{"/a/b/c/d/e/f", 6},
	}
	for _, tt := range tests {
		u := mustParse(t, "https://a.test"+tt.path)
		if got := PathDepth(u); got != tt.want {
			t.Errorf("PathDepth(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
	deep := mustParse(t, "https://a.test/a/b/c/d/e/f")
	if !TooDeep(deep) {
		t.Error("6-segment path not reported as too deep")
	}
	shallow := mustParse(t, "https://a.test/a/b/c/d/e")
	if TooDeep(shallow) {
		t.Error("5-segment path reported as too deep")
	}
}

func TestHasUnderscoreAndUppercase(t *testing.T) {
	if !HasUnderscore(mustParse(t, "https://a.test/my_page")) {
		t.Error("expected underscore detection")
	}
	if !HasUppercase(mustParse(t, "https://a.test/MyPage")) {
		t.Error("expected uppercase detection")
	}
	if HasUppercase(mustParse(t, "https://a.test/my-page")) {
		t.Error("unexpected uppercase detection")
	}
}
