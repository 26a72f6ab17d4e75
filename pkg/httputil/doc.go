// Package httputil provides HTTP utilities for the data source clients.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError].
// Clients wrap transient failures in that type:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Any other error is returned immediately. The delay doubles after each
// failed attempt up to [MaxDelay]. A Retry-After header, read with
// [ParseRetryAfter] into [RetryableError.After], stretches the wait:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchValues(ctx)
//	})
//
// [RetryWithBackoff] uses the defaults: 3 attempts, starting at 1 second.
//
// Response caching lives in [cache], which every client shares.
//
// [cache]: github.com/matzehuels/cardstage/pkg/cache
package httputil
