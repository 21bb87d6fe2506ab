// Package diagnostic collects structured warnings, errors and notes produced
// while loading type metadata from Go source.
//
// Key capabilities:
//   - Package errors that degraded a load to a partial one
//   - Declarations and members skipped as unsupported
//   - Severity-ordered listing and a combined error
package diagnostic
