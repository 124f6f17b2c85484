package retry

import "time"

// Param holds the parameters for retry logic. These are supplied by the
// caller (normally derived from config.Config) and are not known by the
// retry handler internally.
type Param struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
}

func NewParam(initialInterval time.Duration, multiplier float64, maxInterval time.Duration, maxAttempts int) Param {
	return Param{
		MaxAttempts:     maxAttempts,
		InitialInterval: initialInterval,
		Multiplier:      multiplier,
		MaxInterval:     maxInterval,
	}
}

// Result carries the outcome of a retried call, including how many attempts
// it took. Mirrors the shape of a single call's return but adds attempt
// bookkeeping useful to metadata recording.
type Result[T any] struct {
	Value    T
	Err      error
	Attempts int
}
