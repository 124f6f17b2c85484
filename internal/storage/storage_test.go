package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/seoauditor/engine/internal/report"
)

func TestWriteProducesDeterministicFilenameAndContent(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir)

	rep := report.AuditReport{}
	rep.AuditStats.SiteOverview.BaseURL = "https://example.test/"
	rep.AuditStats.SiteOverview.TotalCrawledPages = 3

	path, err := sink.Write(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("expected file under %q, got %q", dir, path)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("expected written file to be readable: %v", readErr)
	}
	var roundTrip report.AuditReport
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if roundTrip.AuditStats.SiteOverview.TotalCrawledPages != 3 {
		t.Errorf("unexpected round-tripped content: %+v", roundTrip)
	}

	path2, err := sink.Write(rep)
	if err != nil {
		t.Fatalf("unexpected error on second write: %v", err)
	}
	if path != path2 {
		t.Errorf("expected identical content to hash to the same filename: %q vs %q", path, path2)
	}
}

func TestSanitizeHostReplacesNonAlphanumerics(t *testing.T) {
	got := sanitizeHost("https://a.test/path?q=1")
	for _, r := range got {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			t.Errorf("unexpected character %q in sanitized host %q", r, got)
		}
	}
}
