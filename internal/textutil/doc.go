// Package textutil normalizes user-authored text and measures lexical overlap
// between documents.
//
// The primary use cases are:
//   - Reducing HTML-bearing bodies to lowercase plain words (Normalize, Words)
//   - Building overlapping word n-gram sets ("shingles") from token lists
//   - Scoring two documents with Jaccard or the overlap coefficient
//
// Normalization is idempotent: block tags become spaces, other tags are
// dropped, the common entities are decoded, text is NFKC folded and
// lowercased, and everything except letters, digits and whitespace is
// removed. Malformed markup never produces an error.
//
// Profiles precompute the shingle sets of one document so a submission can
// be compared against many candidates without re-tokenizing it.
package textutil
