// Package metadata is the audit engine's observability sink. Every other
// package reports through the MetadataSink interface rather than logging
// directly, so that a run's structured log stream is centralized and
// swappable in tests. Ground: teacher's internal/metadata.Recorder, adapted
// to log/slog (the ambient logging choice recorded in DESIGN.md — no
// repository in the reference corpus pulls in a dedicated logging library
// for a crawler binary; slog is the idiomatic stdlib answer Go 1.21+ code
// reaches for, and the teacher's own Recorder doc comments describe exactly
// this shape: leveled, attributed, sink-style recording).
package metadata

import (
	"context"
	"log/slog"
)

// MetadataSink is implemented by anything that wants to observe a crawl:
// production code uses Recorder (backed by slog); tests can substitute a
// fake that collects calls for assertions.
type MetadataSink interface {
	RecordFetch(ctx context.Context, url string, statusCode int, durationMS int64)
	RecordError(ctx context.Context, url string, cause ErrorCause, detail string)
	RecordRobots(ctx context.Context, host string, exists bool, crawlDelaySeconds float64)
	RecordCrawlSummary(ctx context.Context, summary CrawlSummary)
}

// Recorder is the production MetadataSink, writing structured log lines via
// log/slog.
type Recorder struct {
	log *slog.Logger
}

// NewRecorder wraps logger, or slog.Default() if logger is nil.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{log: logger}
}

func (r *Recorder) RecordFetch(ctx context.Context, url string, statusCode int, durationMS int64) {
	r.log.LogAttrs(ctx, slog.LevelInfo, "fetch",
		slog.String("url", url),
		slog.Int("status_code", statusCode),
		slog.Int64("duration_ms", durationMS),
	)
}

func (r *Recorder) RecordError(ctx context.Context, url string, cause ErrorCause, detail string) {
	r.log.LogAttrs(ctx, slog.LevelWarn, "fetch_error",
		slog.String("url", url),
		slog.String("cause", cause.String()),
		slog.String("detail", detail),
	)
}

func (r *Recorder) RecordRobots(ctx context.Context, host string, exists bool, crawlDelaySeconds float64) {
	r.log.LogAttrs(ctx, slog.LevelDebug, "robots",
		slog.String("host", host),
		slog.Bool("exists", exists),
		slog.Float64("crawl_delay_seconds", crawlDelaySeconds),
	)
}

func (r *Recorder) RecordCrawlSummary(ctx context.Context, summary CrawlSummary) {
	r.log.LogAttrs(ctx, slog.LevelInfo, "crawl_summary",
		slog.Int("total_pages", summary.TotalPages),
		slog.Int("total_errors", summary.TotalErrors),
		slog.Duration("duration", summary.Duration),
	)
}

// NopSink discards everything; useful as a zero-value default.
type NopSink struct{}

func (NopSink) RecordFetch(context.Context, string, int, int64)          {}
func (NopSink) RecordError(context.Context, string, ErrorCause, string)  {}
func (NopSink) RecordRobots(context.Context, string, bool, float64)      {}
func (NopSink) RecordCrawlSummary(context.Context, CrawlSummary)         {}
