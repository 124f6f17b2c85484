package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seoauditor/engine/internal/config"
)

const homepageHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Home</title><meta name="description" content="A homepage that is exactly long enough to pass every length check comfortably."></head>
<body><h1>Home</h1><a href="/about">About</a></body>
</html>`

const aboutHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>About Us</title><meta name="description" content="An about page that is exactly long enough to pass every length check comfortably."></head>
<body><h1>About</h1><p>No links here.</p></body>
</html>`

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homepageHTML))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(aboutHTML))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/llms.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestRunEndToEndTwoPageSite(t *testing.T) {
	srv := newFixtureServer(t)
	defer srv.Close()

	cfg := config.Default()
	cfg.GlobalDeadline = 10 * time.Second

	engine := New(cfg, nil)
	rep, err := engine.Run(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.AuditStats.SiteOverview.TotalCrawledPages != 2 {
		t.Errorf("expected 2 crawled pages, got %d", rep.AuditStats.SiteOverview.TotalCrawledPages)
	}
	if rep.AuditStats.SiteOverview.AverageSEOScore < 1 {
		t.Errorf("expected a positive average score, got %v", rep.AuditStats.SiteOverview.AverageSEOScore)
	}
}

func TestRunRejectsInvalidURL(t *testing.T) {
	engine := New(config.Default(), nil)
	_, err := engine.Run(context.Background(), Request{URL: "not a url"})
	if err == nil {
		t.Fatal("expected invalid_url validation error")
	}
	ve, ok := err.(*ValidationError)
	if !ok || ve.Code != "invalid_url" {
		t.Errorf("expected *ValidationError{Code: invalid_url}, got %#v", err)
	}
}

func TestRunRejectsInvalidMaxPages(t *testing.T) {
	srv := newFixtureServer(t)
	defer srv.Close()

	bad := 0
	engine := New(config.Default(), nil)
	_, err := engine.Run(context.Background(), Request{URL: srv.URL, MaxPages: &bad})
	if err == nil {
		t.Fatal("expected invalid_max_pages validation error")
	}
	ve, ok := err.(*ValidationError)
	if !ok || ve.Code != "invalid_max_pages" {
		t.Errorf("expected *ValidationError{Code: invalid_max_pages}, got %#v", err)
	}
}

func TestRunRespectsMaxPagesOverride(t *testing.T) {
	srv := newFixtureServer(t)
	defer srv.Close()

	one := 1
	engine := New(config.Default(), nil)
	rep, err := engine.Run(context.Background(), Request{URL: srv.URL, MaxPages: &one})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.AuditStats.SiteOverview.TotalCrawledPages != 1 {
		t.Errorf("expected max_pages=1 to cap the crawl at 1 page, got %d", rep.AuditStats.SiteOverview.TotalCrawledPages)
	}
}
