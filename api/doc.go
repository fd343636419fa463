// Package api defines the Auth API collaborator contract consumed by the
// session manager, the wire types shared with the backend, and a default
// net/http implementation of that contract.
//
// Every backend response uses the uniform envelope
//
//	{"success": true,  "data": {...}}
//	{"success": false, "error": {"code": "...", "message": "..."}}
//
// which [HTTPClient] decodes before any payload is interpreted. Envelope
// failures surface as [*APIError] so callers can branch on the wire code;
// transport failures are normalized to [CodeNetworkError] or
// [CodeTimeoutError].
//
// # Architecture boundaries
//
//   - This package owns wire shapes and HTTP plumbing only.
//   - No session state lives here; the manager in the root package owns state.
//   - No retries: retry policy belongs to the caller.
//
// # What this package must NOT do
//
//   - Persist tokens (that is the tokenstore package's job).
//   - Verify token signatures (the client holds no keys).
package api
