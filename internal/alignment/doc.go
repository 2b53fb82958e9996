// Package alignment finds a protected media segment embedded at an arbitrary
// offset inside a longer submission by aligning two indexed sequences of
// 64-bit perceptual hashes (video frames or audio chunks).
//
// Every source/candidate pair within a Hamming threshold is a match. Matches
// are grouped by index offset (source index minus candidate index); a group
// is a temporally aligned run of the embedded segment. Within each group the
// longest run of consecutive source indices and the number of distinct
// matched indices (coverage) are measured, and the group with the longest run
// wins, ties going to greater coverage.
//
// Similarity is coverage over the candidate length, so a short protected clip
// fully embedded in a long submission scores 100%. A Policy decides whether
// the best group is a match: either the run reaches MinRun samples or the
// coverage reaches MinCoveragePercent.
//
// Cost is O(|source| × |candidate|) per candidate; callers bound the pool.
package alignment
