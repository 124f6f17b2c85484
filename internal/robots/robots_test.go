package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func mustBaseURL(t *testing.T, rawURL string) url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	return *u
}

func TestResolveParsesDisallowRulesAndSitemaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("User-agent: *\nDisallow: /private\nSitemap: https://example.test/sitemap.xml\n"))
	}))
	defer srv.Close()

	r := New(srv.Client(), "SEOAuditorBot/1.0", 1<<20)
	policy := r.Resolve(context.Background(), mustBaseURL(t, srv.URL))

	if !policy.Exists {
		t.Fatal("expected policy to exist")
	}
	if policy.Allowed("/private/page") {
		t.Error("expected /private/page to be disallowed")
	}
	if !policy.Allowed("/public") {
		t.Error("expected /public to be allowed")
	}
	if len(policy.DeclaredSitemaps) != 1 || policy.DeclaredSitemaps[0] != "https://example.test/sitemap.xml" {
		t.Errorf("unexpected declared sitemaps: %+v", policy.DeclaredSitemaps)
	}
}

func TestResolveMissingRobotsTxtIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := New(srv.Client(), "SEOAuditorBot/1.0", 1<<20)
	policy := r.Resolve(context.Background(), mustBaseURL(t, srv.URL))

	if policy.Exists {
		t.Error("expected policy.Exists to be false for a 404 robots.txt")
	}
	if !policy.Allowed("/anything") {
		t.Error("an absent policy must permit everything")
	}
}

func TestNilPolicyAllowsEverything(t *testing.T) {
	var p *Policy
	if !p.Allowed("/x") {
		t.Error("nil policy must permit everything")
	}
}

func TestProbeLLMsTxt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/llms.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := New(srv.Client(), "SEOAuditorBot/1.0", 1<<20)
	if !r.ProbeLLMsTxt(context.Background(), mustBaseURL(t, srv.URL)) {
		t.Error("expected llms.txt probe to succeed")
	}
}
