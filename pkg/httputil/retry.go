package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Defaults used by [RetryWithBackoff].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// MaxDelay caps both the doubled backoff and any Retry-After a server
	// asks for. The Sheets API answers quota errors with waits of a minute
	// or more; a CLI user would rather see the error.
	MaxDelay = 20 * time.Second
)

// RetryableError marks a transient failure (network error, 5xx, 429).
// After is the wait the server asked for, or zero to use the backoff.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retry calls fn up to attempts times. Only errors wrapped in
// [RetryableError] are retried; anything else is returned at once.
//
// The delay doubles after each failure, capped at [MaxDelay]. When the
// error carries a longer After, that wait is used instead. Returns the last
// error if every attempt fails, or ctx.Err() if ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := min(max(delay, re.After), MaxDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			delay = min(delay*2, MaxDelay)
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with [DefaultAttempts] and [DefaultDelay].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultAttempts, DefaultDelay, fn)
}

// ParseRetryAfter reads a Retry-After header value, given either as
// seconds or as an HTTP date relative to now. Unparsable or past values
// give zero.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
