// Package compliance keeps the client-side consent, data-retention, and
// export-request records that regulated deployments have to carry around.
//
// Three record keepers ship with the module:
//
//   - [ConsentManager] — per-category consent grants.
//   - [RetentionManager] — retention policies and scheduled deletions.
//   - [ExportManager] — user data export requests.
//
// Each keeper loads its records once on Initialize, mutates in memory, and
// writes the full record set back through a small [Storage] on every change.
// Persisted enums decode with an explicit fallback value: an unknown consent
// type, retention category, or export status from a newer (or older) writer
// becomes the package's Unknown value instead of failing the whole load.
//
// # What this package must NOT do
//
//   - Call the Auth API or block session flows. The session manager never
//     depends on this package.
//   - Enforce policies. Keepers record decisions; enforcement is the host
//     application's job.
package compliance
