// Package retry provides a generic retry-with-backoff wrapper used by the
// fetcher. Backoff scheduling itself is
// delegated to github.com/cenkalti/backoff/v4 (promoted here from an
// indirect dependency of ilkeraydogdu-KolajAi and leofalp-aigo/pgmemory in
// the reference corpus); this package only adds the retryable/fatal
// distinction pipeline stages need.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/seoauditor/engine/pkg/failure"
)

// Retryable is implemented by errors that know whether a retry is worth
// attempting. Errors that don't implement it are treated as non-retryable.
type Retryable interface {
	IsRetryable() bool
}

// Do executes fn up to param.MaxAttempts times, retrying only when the
// returned error is Retryable and reports true. Backoff between attempts is
// exponential, bounded by param.MaxInterval.
func Do[T any](ctx context.Context, param Param, fn func() (T, failure.ClassifiedError)) (T, failure.ClassifiedError) {
	var zero T
	if param.MaxAttempts < 1 {
		return zero, &Error{Cause: ErrZeroAttempts, Attempts: 0}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = param.InitialInterval
	bo.Multiplier = param.Multiplier
	bo.MaxInterval = param.MaxInterval
	bo.MaxElapsedTime = 0 // bounded by attempt count instead of wall clock

	withCtx := backoff.WithContext(bo, ctx)

	var lastErr failure.ClassifiedError
	var result T
	attempts := 0

	operation := func() error {
		attempts++
		value, err := fn()
		result = value // keep the latest value even on error, so a classified
		// terminal result (e.g. a 404 response) survives for the caller to
		// inspect rather than being discarded as a zero value.
		if err == nil {
			return nil
		}
		lastErr = err
		if r, ok := err.(Retryable); ok && r.IsRetryable() && attempts < param.MaxAttempts {
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(operation, withCtx)
	if err == nil {
		return result, nil
	}

	if lastErr != nil && !isRetryExhausted(lastErr, attempts, param.MaxAttempts) {
		// Non-retryable failure on its first/only applicable attempt: surface
		// the underlying classified error directly rather than masking it.
		return result, lastErr
	}

	return result, &Error{Cause: ErrExhaustedRetries, LastErr: lastErr, Attempts: attempts}
}

func isRetryExhausted(err failure.ClassifiedError, attempts, maxAttempts int) bool {
	r, ok := err.(Retryable)
	return ok && r.IsRetryable() && attempts >= maxAttempts
}

// Sleep is a small seam so tests can substitute a non-blocking sleeper; kept
// separate from the backoff library's internal timer so call sites that
// need a single delay (rate limiting, not retries) don't need to pull in
// the backoff package.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func (RealSleeper) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
