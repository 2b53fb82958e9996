// Package content defines the shared data model of the duplicate and
// copyright matcher: published items with their stored fingerprints, the
// verdict returned for a submission, and the error taxonomy every matching
// stage reports through.
//
// Items are immutable once published except for the post-hoc attachment of
// computed hashes (content hash, thumbnail dHash, frame and audio sample
// sequences). Verdicts are computed per submission and never persisted.
//
// Errors fall into three kinds:
//   - RetrievalError: the candidate store was unreachable or a query failed
//   - HashComputationError: an image or fingerprint sequence could not be used
//   - ErrInputTooShort: a defined skip outcome, not a failure
//
// The matcher treats the first two as fail-open conditions and converts them
// into the neutral verdict after logging.
package content
