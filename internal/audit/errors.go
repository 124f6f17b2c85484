package audit

import "github.com/seoauditor/engine/pkg/failure"

// ValidationError covers the two input-error cases spec.md §6/§7 name:
// invalid_url and invalid_max_pages. These never start a crawl.
type ValidationError struct {
	Code    string // "invalid_url" | "invalid_max_pages"
	Message string
}

func (e *ValidationError) Error() string { return e.Code + ": " + e.Message }

func (e *ValidationError) Severity() failure.Severity { return failure.SeverityFatal }
