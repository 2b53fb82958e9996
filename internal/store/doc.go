// Package store persists published content and its fingerprints in SQLite.
//
// It is the reference implementation of the read and write contracts the
// candidate adapter consumes: filtered candidate queries, exact content hash
// lookups, sample sequence loads and hash attachment after acceptance.
//
// Primary entry points:
//   - Open / Close: database lifecycle, schema creation and version check
//   - Insert / Get / Remove / Prune: item management used by ingest and the CLI
//   - FindByContentHash / FindCandidates / Samples: candidates.Store
//   - AttachHashes: candidates.HashWriter
//   - Stats: per-type counters for operators
package store
