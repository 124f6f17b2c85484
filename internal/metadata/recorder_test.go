package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRecorderRecordFetchLogsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := NewRecorder(logger)

	r.RecordFetch(context.Background(), "https://a.test/", 200, 42)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON log line: %v", err)
	}
	if line["url"] != "https://a.test/" {
		t.Errorf("expected url field, got %+v", line)
	}
	if line["status_code"] != float64(200) {
		t.Errorf("expected status_code=200, got %+v", line)
	}
}

func TestRecorderRecordCrawlSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := NewRecorder(logger)

	r.RecordCrawlSummary(context.Background(), CrawlSummary{TotalPages: 5, TotalErrors: 1, Duration: time.Second})

	out := buf.String()
	if !strings.Contains(out, "crawl_summary") {
		t.Errorf("expected crawl_summary log line, got %q", out)
	}
}

func TestNopSinkDoesNothing(t *testing.T) {
	var s MetadataSink = NopSink{}
	s.RecordFetch(context.Background(), "https://a.test/", 200, 1)
	s.RecordError(context.Background(), "https://a.test/", CauseNetworkFailure, "boom")
	s.RecordRobots(context.Background(), "a.test", true, 0)
	s.RecordCrawlSummary(context.Background(), CrawlSummary{})
}
