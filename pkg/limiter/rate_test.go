package limiter

import (
	"context"
	"testing"
	"time"
)

func TestWaitAllowsFirstRequestImmediately(t *testing.T) {
	h := NewHostLimiter(2)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	if err := h.Wait(ctx, "a.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("first request should not be throttled")
	}
}

func TestSetCrawlDelayOnlyTightensRate(t *testing.T) {
	h := NewHostLimiter(2)
	h.SetCrawlDelay("a.test", 10*time.Second)
	b := h.bucket("a.test")
	if b.Limit() >= 2 {
		t.Errorf("expected crawl-delay to reduce the limit below default, got %v", b.Limit())
	}

	// A looser crawl-delay than the default must not loosen the bucket.
	h2 := NewHostLimiter(2)
	h2.SetCrawlDelay("b.test", 100*time.Millisecond)
	b2 := h2.bucket("b.test")
	if b2.Limit() > 2 {
		t.Errorf("crawl-delay looser than default should not raise the limit, got %v", b2.Limit())
	}
}

func TestBackoffAndReset(t *testing.T) {
	h := NewHostLimiter(2)
	h.Backoff("a.test")
	afterBackoff := h.bucket("a.test").Limit()
	if afterBackoff >= 2 {
		t.Errorf("expected backoff to reduce rate below default, got %v", afterBackoff)
	}

	h.ResetBackoff("a.test")
	afterReset := h.bucket("a.test").Limit()
	if afterReset != 2 {
		t.Errorf("expected reset to restore default rate 2, got %v", afterReset)
	}
}
