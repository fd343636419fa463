// Package internal contains helper utilities that are intentionally private to
// goSession, currently the key-derivation and AEAD primitives shared by the
// encrypted on-disk stores.
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSession API.
//   - Be imported by any package outside the goSession module.
package internal
