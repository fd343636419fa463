// Package middleware exposes HTTP client adapters that attach goSession credentials
// to outgoing requests.
//
// # Transports
//
//   - [NewTransport] — injects the current bearer token and retries once after a refresh on 401.
//   - [NewStaticTransport] — bearer injection only, no refresh-retry.
//
// Each transport wraps a base [http.RoundTripper], reads the access token from the
// manager, and sets the Authorization header unless the caller already did.
//
// # Architecture boundaries
//
// This package translates manager state into HTTP request headers. It does NOT
// implement authentication logic itself — token lifecycle decisions are delegated
// to [goSession.Manager].
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the manager).
//   - Persist tokens (the token store handles I/O).
//   - Retry more than once per request.
package middleware
