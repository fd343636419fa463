// Package tokenstore is the token store bridge: it persists the session's
// token pair in client storage and answers the cheap liveness probes the
// session manager asks between refreshes.
//
// Three implementations ship with the module:
//
//   - [Memory] — mutex-guarded map, for tests and ephemeral processes.
//   - [File] — encrypted at rest (HKDF-derived key, AES-GCM), for desktop
//     and CLI sessions that survive restarts.
//   - [Redis] — shared storage for daemon fleets that present one session.
//
// Expiry checks decode the JWT exp claim without verifying the signature;
// the client holds no keys, and a forged expiry only causes an extra
// round-trip that the backend rejects.
//
// # What this package must NOT do
//
//   - Call the Auth API. Stores never refresh tokens on their own.
//   - Verify token signatures or trust any other claim than exp.
package tokenstore
