// Package goSession provides the client-side counterpart to a token-based
// auth backend: a session manager that exchanges credentials for a token
// pair, persists it through a pluggable token store, schedules proactive
// refreshes, and answers permission and role queries locally.
//
// The package is designed for concurrent host applications: Manager methods
// are safe to call from multiple goroutines after construction through
// [Builder.Build]. State transitions are serialized behind one mutex;
// collaborator I/O (Auth API, token store) runs outside it, and completions
// of superseded calls are discarded rather than applied.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Manager], [Builder], [Config],
// and value types (SessionInfo, AuthError, MetricsSnapshot, etc.). The Auth
// API contract lives in api/, token persistence in tokenstore/, and the
// wildcard permission matcher in permission/.
//
// # What this package must NOT do
//
//   - Render UI or decide navigation targets beyond the single
//     redirect-to-login signal given to the [Navigator].
//   - Retry failed API calls; retry policy belongs to the host.
//   - Expose raw HTTP or storage details in its public API.
//
// # Lifecycle contract
//
// A Manager starts Uninitialized. Initialize resolves it to Authenticated
// or Unauthenticated and never leaves it in between, whatever the
// collaborators do. Exactly one refresh timer is armed at any time; logout
// and Close disarm it.
package goSession
