// Package candidates bounds the comparison set a submission is checked
// against.
//
// The Adapter turns a submission's shape (type, author, word count, URL) into
// Query values for a Store, applying the rolling publication window, the
// asymmetric word-count range and per-query limits. It performs no similarity
// computation. Store failures come back as content.RetrievalError so the
// router can fail open on them.
//
// SampleCache keeps frame and audio sequences of protected items in memory;
// those sequences are immutable once attached, so they can be reused across
// submissions without coordination.
package candidates
