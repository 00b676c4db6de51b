// Package httputil retries transient failures from remote image services.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The generation client wraps
// network errors and 5xx responses with this type; anything else (bad
// request, blocked content, decode failures) aborts immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how one remote call is retried.
type Policy struct {
	// Attempts is the total number of tries, minimum 1.
	Attempts int
	// Delay is the initial backoff, doubled after each failed attempt.
	Delay time.Duration
}

// DefaultPolicy suits interactive generation calls, where a second try
// usually clears a hiccup but the user is still waiting at a prompt.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do runs fn under the policy. Only errors wrapped in [RetryableError] are
// retried; other errors return immediately. Returns the last error when
// every attempt fails, or ctx.Err() if the context is cancelled while
// backing off.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
