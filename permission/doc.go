// Package permission evaluates permission and role strings the way the auth
// backend grants them: exact membership plus a trailing wildcard segment.
//
// # Wildcard rule
//
// A held permission ending in ":*" authorizes any query whose prefix up to
// the last ":" equals the held prefix. "posts:*" grants "posts:read" and
// "posts:delete" but not "posts:comments:read"; the wildcard spans exactly
// one trailing segment.
//
// # Architecture boundaries
//
// This package is pure string evaluation with no I/O. The session manager's
// access-control methods delegate here.
//
// # What this package must NOT do
//
//   - Access the network or any store.
//   - Import the root goSession package, api, or tokenstore.
//   - Grow implicit super-user semantics; "system:*" is just another prefix.
package permission
