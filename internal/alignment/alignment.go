package alignment

import (
	"math"
	"slices"

	"dupecheck/internal/content"
	"dupecheck/internal/imagehash"
)

// Policy configures one alignment domain.
type Policy struct {
	// MaxDistance is the largest Hamming distance counted as a sample match.
	MaxDistance int
	// MinRun is the number of consecutive matched samples that alone flags a
	// match (the "N-second rule").
	MinRun int
	// MinCoveragePercent is the recovered share of the candidate that alone
	// flags a match (the majority-coverage rule).
	MinCoveragePercent int
}

// FramePolicy returns the defaults for sampled video frames.
func FramePolicy() Policy {
	return Policy{MaxDistance: 17, MinRun: 4, MinCoveragePercent: 80}
}

// AudioPolicy returns the defaults for audio chunk fingerprints.
func AudioPolicy() Policy {
	return Policy{MaxDistance: 17, MinRun: 4, MinCoveragePercent: 80}
}

// Result describes the best aligned group.
type Result struct {
	// Offset is source index minus candidate index for the winning group.
	Offset int
	// LongestRun is the longest run of consecutive matched source indices.
	LongestRun int
	// Coverage is the number of distinct matched source indices in the group.
	Coverage int
	// CandidateLength is the number of samples in the candidate sequence.
	CandidateLength int
	// Percent is round(Coverage / CandidateLength * 100).
	Percent int
	// Matched reports whether the policy flags the result.
	Matched bool
}

// Exact reports a complete recovery of the candidate sequence.
func (r Result) Exact() bool {
	return r.CandidateLength > 0 && r.Coverage >= r.CandidateLength
}

// Align aligns source against candidate under p. Empty inputs produce a zero
// Result that never matches.
func Align(source, candidate []content.Sample, p Policy) Result {
	res := Result{CandidateLength: len(candidate)}
	if len(source) == 0 || len(candidate) == 0 {
		return res
	}

	groups := make(map[int][]int)
	for _, s := range source {
		for _, c := range candidate {
			if imagehash.Distance(s.Hash, c.Hash) > p.MaxDistance {
				continue
			}
			offset := s.Index - c.Index
			groups[offset] = append(groups[offset], s.Index)
		}
	}
	if len(groups) == 0 {
		return res
	}

	offsets := make([]int, 0, len(groups))
	for offset := range groups {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)

	bestRun, bestCoverage, bestOffset := -1, -1, 0
	for _, offset := range offsets {
		run, coverage := measure(groups[offset])
		if run > bestRun || (run == bestRun && coverage > bestCoverage) {
			bestRun, bestCoverage, bestOffset = run, coverage, offset
		}
	}

	res.Offset = bestOffset
	res.LongestRun = bestRun
	res.Coverage = min(bestCoverage, len(candidate))
	res.Percent = percent(res.Coverage, len(candidate))
	res.Matched = p.flags(res)
	return res
}

func (p Policy) flags(r Result) bool {
	if r.Coverage == 0 {
		return false
	}
	if p.MinRun > 0 && r.LongestRun >= p.MinRun {
		return true
	}
	return p.MinCoveragePercent > 0 && r.Percent >= p.MinCoveragePercent
}

// measure returns the longest run of consecutive integers and the number of
// distinct values in indices. indices is sorted in place.
func measure(indices []int) (int, int) {
	slices.Sort(indices)
	indices = slices.Compact(indices)
	longest, current := 1, 1
	for i := 1; i < len(indices); i++ {
		if indices[i] == indices[i-1]+1 {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
	}
	return longest, len(indices)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return content.ClampPercent(int(math.Round(float64(part) / float64(whole) * 100)))
}
