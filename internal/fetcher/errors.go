package fetcher

import (
	"fmt"

	"github.com/seoauditor/engine/pkg/failure"
)

// FetchError wraps a transport-level failure with the classification the
// rule engine needs (spec.md §4.1); it is always recoverable — a failed
// fetch never aborts the overall audit (spec.md §7).
type FetchError struct {
	URL   string
	Class Classification
	Inner error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher: %s: %s: %v", e.URL, e.Class, e.Inner)
}

func (e *FetchError) Unwrap() error { return e.Inner }

func (e *FetchError) Severity() failure.Severity { return failure.SeverityRecoverable }

// IsRetryable reports whether the classification is worth a single retry
// (transient network errors only; HTTP status errors are never retried,
// per spec.md §4.1).
func (e *FetchError) IsRetryable() bool {
	switch e.Class {
	case ClassTimeout, ClassDNSError, ClassRefused:
		return true
	default:
		return false
	}
}
