// Package fetcher performs a single HTTP GET with redirect tracing,
// classification of the terminal state, charset-aware body decoding, and a
// bounded body read. Ground: teacher's internal/fetcher.Fetcher (the
// Fetch(ctx, url) shape, CheckRedirect-based chain capture, one-retry-via-
// pkg/retry policy) generalized from docs-page-fetching to SEO-audit
// fetching per spec.md §4.1. Charset decoding uses golang.org/x/net/html/charset,
// the BOM-aware decoder the corpus's own sitemap/HTML parsers rely on.
package fetcher

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/seoauditor/engine/internal/config"
	"github.com/seoauditor/engine/pkg/failure"
	"github.com/seoauditor/engine/pkg/retry"
)

// Fetcher issues GETs against the configured policy (timeouts, redirect
// cap, body cap, user agent).
type Fetcher struct {
	cfg    config.Config
	client *http.Client
}

// New builds a Fetcher whose http.Client enforces cfg's connect/overall
// timeouts and redirect cap.
func New(cfg config.Config) *Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.OverallTimeout,
	}

	f := &Fetcher{cfg: cfg}
	client.CheckRedirect = f.checkRedirect
	f.client = client
	return f
}

// chainState is threaded through CheckRedirect via the request context
// (http.Client reuses one CheckRedirect across the whole redirect
// sequence, so state must be captured per-request, not global).
type chainState struct {
	hops []Hop
	seen map[string]bool
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	state, _ := req.Context().Value(chainStateKey{}).(*chainState)
	if state == nil {
		return nil
	}

	prev := via[len(via)-1]
	status := prev.Response.StatusCode
	key := prev.URL.String()
	state.hops = append(state.hops, Hop{URL: key, Status: status})

	if state.seen[key] {
		return errLoop
	}
	state.seen[key] = true

	if len(via) >= f.cfg.RedirectCap {
		return errTooManyRedirects
	}
	return nil
}

var (
	errLoop             = errors.New("redirect loop detected")
	errTooManyRedirects = errors.New("too many redirects")
)

// HTTPClient exposes the fetcher's configured client so the robots and
// sitemap resolvers share its transport, timeouts, and connection pool
// instead of building their own.
func (f *Fetcher) HTTPClient() *http.Client {
	return f.client
}

// Fetch performs a GET against target, following redirects per policy, and
// returns a fully classified Result. It never returns a Go error for a
// normal fetch failure — failures are represented in Result.Classification
// and Result.Err, since a failed fetch must not abort the overall audit
// (spec.md §7).
func (f *Fetcher) Fetch(ctx context.Context, target string) Result {
	param := retry.NewParam(f.cfg.RetryInitialBackoff, 2.0, 5*time.Second, f.cfg.RetryMaxAttempts)
	result, classErr := retry.Do(ctx, param, func() (Result, failure.ClassifiedError) {
		res, fetchErr := f.fetchOnce(ctx, target)
		if fetchErr == nil {
			return res, nil
		}
		return res, fetchErr
	})
	if classErr != nil {
		result.Err = classErr
	}
	return result
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) (Result, *FetchError) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, &FetchError{URL: target, Class: ClassRefused, Inner: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	state := &chainState{seen: map[string]bool{}}
	ctx2 := context.WithValue(req.Context(), chainStateKey{}, state)
	req = req.WithContext(ctx2)

	resp, err := f.client.Do(req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		class := classifyTransportError(err)
		return Result{RedirectChain: state.hops, ElapsedMS: elapsed, Classification: class},
			&FetchError{URL: target, Class: class, Inner: err}
	}
	defer resp.Body.Close()

	body, truncated, err := readCapped(resp.Body, f.cfg.MaxBodyBytes)
	if err != nil {
		return Result{RedirectChain: state.hops, ElapsedMS: elapsed, Classification: ClassTimeout},
			&FetchError{URL: target, Class: ClassTimeout, Inner: err}
	}

	decoded := decodeBody(body, resp.Header.Get("Content-Type"))

	class := classifyStatus(resp.StatusCode, len(state.hops))

	res := Result{
		FinalURL:        resp.Request.URL.String(),
		StatusCode:      resp.StatusCode,
		ResponseHeaders: map[string][]string(resp.Header),
		Body:            decoded,
		BodyTruncated:   truncated,
		RedirectChain:   state.hops,
		ElapsedMS:       elapsed,
		Classification:  class,
	}

	if class != ClassOK {
		return res, &FetchError{URL: target, Class: class, Inner: nil}
	}
	return res, nil
}

type chainStateKey struct{}

func classifyStatus(status int, hopCount int) Classification {
	switch {
	case status >= 200 && status < 300:
		return ClassOK
	case hopCount > 0 && status >= 400 && status < 500:
		return ClassRedirectEnds4xx
	case hopCount > 0 && status >= 500:
		return ClassRedirectEnds5xx
	case status >= 400 && status < 500:
		return ClassRedirectEnds4xx
	default:
		return ClassRedirectEnds5xx
	}
}

func classifyTransportError(err error) Classification {
	if errors.Is(err, errLoop) || strings.Contains(err.Error(), errLoop.Error()) {
		return ClassLoop
	}
	if errors.Is(err, errTooManyRedirects) || strings.Contains(err.Error(), errTooManyRedirects.Error()) {
		return ClassTooManyRedirects
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ClassDNSError
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if strings.Contains(urlErr.Err.Error(), "certificate") || strings.Contains(urlErr.Err.Error(), "tls") {
			return ClassTLSError
		}
	}
	if strings.Contains(err.Error(), "connection refused") {
		return ClassRefused
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return ClassTimeout
	}
	return ClassRefused
}

func readCapped(r io.Reader, capBytes int64) ([]byte, bool, error) {
	limited := io.LimitReader(r, capBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > capBytes {
		return data[:capBytes], true, nil
	}
	return data, false, nil
}

// decodeBody converts body to UTF-8 using the response's declared charset
// (falling back to content sniffing, then UTF-8), per spec.md §4.1.
func decodeBody(body []byte, contentType string) []byte {
	reader, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return body
	}
	return decoded
}
