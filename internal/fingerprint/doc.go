// Package fingerprint computes content-addressed digests used for exact
// duplicate detection.
//
// The digest is a SHA-256 hash over normalized text, so two bodies that differ
// only in markup, case, punctuation or spacing share a fingerprint. A digest
// hit short-circuits the more expensive shingle comparison.
//
// Primary entry points:
//   - Text: digest of already normalized text
//   - Body: normalizes raw HTML-bearing text and returns its digest and word count
//   - CanonicalURL: the URL spelling used for literal video-URL equality
package fingerprint
