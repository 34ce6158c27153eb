package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is returned when the cache backend cannot be reached. Runners
// log it and carry on without the cache.
var ErrBackend = errors.New("cache backend unavailable")

// RetryableError marks a transient backend failure, such as a Redis
// timeout, that a [Backoff] should try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Attempts int           // Total calls, including the first
	Delay    time.Duration // Wait before the second call
}

// defaultBackoff is used by [RetryWithBackoff].
var defaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// RetryWithBackoff calls fn with the default backoff of 3 attempts
// starting at 100ms.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, fails with an error not marked
// [Retryable], or runs out of attempts. The last error is returned. ctx
// ends the wait between attempts early.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
