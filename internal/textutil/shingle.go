package textutil

import "strings"

// ShingleSet is the set of distinct word n-grams of a document.
type ShingleSet map[string]struct{}

// Shingles builds the set of overlapping k-word shingles of words. A list of
// n words yields at most max(0, n-k+1) shingles; k below 1 is treated as 1.
func Shingles(words []string, k int) ShingleSet {
	if k < 1 {
		k = 1
	}
	count := len(words) - k + 1
	if count <= 0 {
		return ShingleSet{}
	}
	set := make(ShingleSet, count)
	for i := 0; i < count; i++ {
		if k == 1 {
			set[words[i]] = struct{}{}
			continue
		}
		set[strings.Join(words[i:i+k], " ")] = struct{}{}
	}
	return set
}

// Len returns the number of distinct shingles.
func (s ShingleSet) Len() int { return len(s) }

func intersection(a, b ShingleSet) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	shared := 0
	for key := range a {
		if _, ok := b[key]; ok {
			shared++
		}
	}
	return shared
}
