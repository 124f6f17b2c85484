package retry

import (
	"fmt"

	"github.com/seoauditor/engine/pkg/failure"
)

type ErrorCause string

const (
	ErrZeroAttempts     ErrorCause = "zero attempts"
	ErrExhaustedRetries ErrorCause = "exhausted retries"
)

// Error reports that a retried call never succeeded within its attempt
// budget. The last underlying error is preserved for logging.
type Error struct {
	Cause    ErrorCause
	LastErr  error
	Attempts int
}

func (e *Error) Error() string {
	return fmt.Sprintf("retry: %s after %d attempt(s): %v", e.Cause, e.Attempts, e.LastErr)
}

func (e *Error) Unwrap() error {
	return e.LastErr
}

// Severity reports exhausted retries as recoverable: the caller (the
// fetcher) records the error on its result instead of aborting.
func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
