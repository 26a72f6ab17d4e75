// Package integrations provides HTTP clients for the external services
// cardstage reads from.
//
// # Overview
//
// The [Client] type provides shared HTTP functionality used by every
// service client:
//
//   - default and per-request headers (bearer tokens, API keys)
//   - JSON decoding
//   - status mapping to [ErrNotFound], [ErrUnauthorized] and [ErrNetwork]
//   - retries of transient failures via [httputil.RetryWithBackoff]
//   - response caching through a [cache.Cache]
//   - HTTP observability hooks
//
// Service-specific clients live in subpackages and embed [Client]:
//
//   - [google]: OAuth sign-in, the OIDC profile and Sheets values
//
// [google]: github.com/matzehuels/cardstage/pkg/integrations/google
// [cache.Cache]: github.com/matzehuels/cardstage/pkg/cache.Cache
// [httputil.RetryWithBackoff]: github.com/matzehuels/cardstage/pkg/httputil.RetryWithBackoff
package integrations
