package fetcher

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seoauditor/engine/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.RetryMaxAttempts = 1
	cfg.ConnectTimeout = 2 * time.Second
	cfg.OverallTimeout = 2 * time.Second
	return cfg
}

func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(t.Context(), srv.URL)

	if res.Classification != ClassOK || res.StatusCode != 200 {
		t.Fatalf("expected ClassOK/200, got %+v", res)
	}
	if len(res.Body) == 0 {
		t.Error("expected a non-empty body")
	}
}

func TestFetch404Classification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(t.Context(), srv.URL)

	if res.StatusCode != 404 {
		t.Fatalf("expected status 404, got %+v", res)
	}
	if res.Err == nil {
		t.Error("expected a non-retryable classified error for 404")
	}
}

func TestFetchCapturesRedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(t.Context(), srv.URL+"/start")

	if res.Classification != ClassOK {
		t.Fatalf("expected final hop to classify OK, got %+v", res)
	}
	if len(res.RedirectChain) != 1 || res.RedirectChain[0].Status != http.StatusMovedPermanently {
		t.Errorf("expected 1 recorded redirect hop, got %+v", res.RedirectChain)
	}
}

func TestFetchDetectsRedirectLoop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/a", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(t.Context(), srv.URL+"/a")

	if res.Classification != ClassLoop {
		t.Errorf("expected ClassLoop, got %+v", res)
	}
}

func TestFetchRetriesTransientFailureThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			// Simulate a dropped connection by hijacking and closing raw.
			hj, ok := w.(http.Hijacker)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.RetryMaxAttempts = 2
	cfg.RetryInitialBackoff = time.Millisecond

	f := New(cfg)
	res := f.Fetch(t.Context(), srv.URL)

	if res.Classification != ClassOK {
		t.Errorf("expected eventual success after retry, got %+v (attempts=%d)", res, attempts)
	}
}
