// Package config is the audit engine's builder-pattern configuration layer.
// Ground: teacher's internal/config (WithDefault(...).With*(...).Build(),
// JSON file loading via WithConfigFile, a private configDTO with omitempty
// fields for partial overlay). The shape is kept; the fields are replaced
// with the audit domain's knobs (spec.md §4, §5).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds every tunable of a single audit run. All fields have
// spec-mandated defaults (see Default()); a config file or CLI flags may
// override a subset.
type Config struct {
	MaxPages            int
	RespectRobots       bool
	Concurrency         int
	PerHostRPS          float64
	ConnectTimeout      time.Duration
	OverallTimeout      time.Duration
	RedirectCap         int
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	UserAgent           string
	MaxBodyBytes        int64
	SitemapMaxDepth     int
	SitemapMaxURLs      int
	GlobalDeadline      time.Duration // 0 means unbounded
}

// configDTO mirrors Config but with every field optional, for JSON overlay.
type configDTO struct {
	MaxPages            *int     `json:"max_pages,omitempty"`
	RespectRobots       *bool    `json:"respect_robots,omitempty"`
	Concurrency         *int     `json:"concurrency,omitempty"`
	PerHostRPS          *float64 `json:"per_host_rps,omitempty"`
	ConnectTimeoutMS    *int     `json:"connect_timeout_ms,omitempty"`
	OverallTimeoutMS    *int     `json:"overall_timeout_ms,omitempty"`
	RedirectCap         *int     `json:"redirect_cap,omitempty"`
	RetryMaxAttempts    *int     `json:"retry_max_attempts,omitempty"`
	RetryInitialBackoffMS *int   `json:"retry_initial_backoff_ms,omitempty"`
	UserAgent           *string  `json:"user_agent,omitempty"`
	MaxBodyBytes        *int64   `json:"max_body_bytes,omitempty"`
	SitemapMaxDepth     *int     `json:"sitemap_max_depth,omitempty"`
	SitemapMaxURLs      *int     `json:"sitemap_max_urls,omitempty"`
	GlobalDeadlineMS    *int     `json:"global_deadline_ms,omitempty"`
}

// Default returns the spec-mandated defaults (spec.md §4.1, §4.2, §4.4,
// §4.7).
func Default() Config {
	return Config{
		MaxPages:            9999,
		RespectRobots:       false,
		Concurrency:         10,
		PerHostRPS:          2,
		ConnectTimeout:      10 * time.Second,
		OverallTimeout:      30 * time.Second,
		RedirectCap:         10,
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 500 * time.Millisecond,
		UserAgent:           "SEOAuditorBot/1.0 (+https://github.com/seoauditor/engine)",
		MaxBodyBytes:        10 << 20,
		SitemapMaxDepth:     5,
		SitemapMaxURLs:      50000,
		GlobalDeadline:      0,
	}
}

// Builder assembles a Config through chained With* calls, starting from a
// base (normally Default()).
type Builder struct {
	cfg Config
	err error
}

// WithDefault starts a Builder from the spec defaults.
func WithDefault() *Builder {
	return &Builder{cfg: Default()}
}

// WithConfigFile overlays JSON fields from path onto the builder's config.
// A missing file is not an error (config files are optional); a malformed
// file is recorded and surfaced by Build.
func (b *Builder) WithConfigFile(path string) *Builder {
	if b.err != nil || path == "" {
		return b
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b
		}
		b.err = fmt.Errorf("config: read %s: %w", path, err)
		return b
	}
	var dto configDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		b.err = fmt.Errorf("config: parse %s: %w", path, err)
		return b
	}
	b.applyDTO(dto)
	return b
}

func (b *Builder) applyDTO(dto configDTO) {
	if dto.MaxPages != nil {
		b.cfg.MaxPages = *dto.MaxPages
	}
	if dto.RespectRobots != nil {
		b.cfg.RespectRobots = *dto.RespectRobots
	}
	if dto.Concurrency != nil {
		b.cfg.Concurrency = *dto.Concurrency
	}
	if dto.PerHostRPS != nil {
		b.cfg.PerHostRPS = *dto.PerHostRPS
	}
	if dto.ConnectTimeoutMS != nil {
		b.cfg.ConnectTimeout = time.Duration(*dto.ConnectTimeoutMS) * time.Millisecond
	}
	if dto.OverallTimeoutMS != nil {
		b.cfg.OverallTimeout = time.Duration(*dto.OverallTimeoutMS) * time.Millisecond
	}
	if dto.RedirectCap != nil {
		b.cfg.RedirectCap = *dto.RedirectCap
	}
	if dto.RetryMaxAttempts != nil {
		b.cfg.RetryMaxAttempts = *dto.RetryMaxAttempts
	}
	if dto.RetryInitialBackoffMS != nil {
		b.cfg.RetryInitialBackoff = time.Duration(*dto.RetryInitialBackoffMS) * time.Millisecond
	}
	if dto.UserAgent != nil {
		b.cfg.UserAgent = *dto.UserAgent
	}
	if dto.MaxBodyBytes != nil {
		b.cfg.MaxBodyBytes = *dto.MaxBodyBytes
	}
	if dto.SitemapMaxDepth != nil {
		b.cfg.SitemapMaxDepth = *dto.SitemapMaxDepth
	}
	if dto.SitemapMaxURLs != nil {
		b.cfg.SitemapMaxURLs = *dto.SitemapMaxURLs
	}
	if dto.GlobalDeadlineMS != nil {
		b.cfg.GlobalDeadline = time.Duration(*dto.GlobalDeadlineMS) * time.Millisecond
	}
}

// WithMaxPages overrides the page budget (CLI flag overlay point).
func (b *Builder) WithMaxPages(n int) *Builder {
	if n > 0 {
		b.cfg.MaxPages = n
	}
	return b
}

// WithRespectRobots overrides the robots-respect flag.
func (b *Builder) WithRespectRobots(v bool) *Builder {
	b.cfg.RespectRobots = v
	return b
}

// WithConcurrency overrides the worker-pool size.
func (b *Builder) WithConcurrency(n int) *Builder {
	if n > 0 {
		b.cfg.Concurrency = n
	}
	return b
}

// WithPerHostRPS overrides the default per-host request rate.
func (b *Builder) WithPerHostRPS(rps float64) *Builder {
	if rps > 0 {
		b.cfg.PerHostRPS = rps
	}
	return b
}

// WithGlobalDeadline overrides the whole-audit wall-clock budget (0 means
// unbounded).
func (b *Builder) WithGlobalDeadline(d time.Duration) *Builder {
	b.cfg.GlobalDeadline = d
	return b
}

// Build returns the assembled Config, or the first error encountered while
// building it.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if b.cfg.MaxPages < 1 {
		return Config{}, fmt.Errorf("config: max_pages must be >= 1")
	}
	if b.cfg.Concurrency < 1 {
		return Config{}, fmt.Errorf("config: concurrency must be >= 1")
	}
	return b.cfg, nil
}
