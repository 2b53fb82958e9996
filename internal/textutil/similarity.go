package textutil

import "math"

// Jaccard computes |A ∩ B| / |A ∪ B|. Returns 0 when either set is empty.
func Jaccard(a, b ShingleSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := intersection(a, b)
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// Overlap computes the overlap coefficient |A ∩ B| / min(|A|, |B|).
// Returns 0 when either set is empty.
func Overlap(a, b ShingleSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return float64(intersection(a, b)) / float64(min(len(a), len(b)))
}

// Percent rounds a [0,1] similarity to the nearest whole percent.
func Percent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

// Method names the measure that produced a Score.
type Method string

const (
	MethodNone    Method = "none"
	MethodOverlap Method = "overlap_k1"
	MethodJaccard Method = "jaccard_k1"
	MethodTrigram Method = "jaccard_kn"
)

// Options tunes document comparison.
type Options struct {
	// ShingleSize is the structural n-gram size used for longer texts.
	ShingleSize int
	// MinShingles is the smallest set size considered comparable.
	MinShingles int
	// ShortTextWords selects the overlap coefficient when either document has
	// fewer words than this.
	ShortTextWords int
}

// DefaultOptions returns the tuned comparison defaults.
func DefaultOptions() Options {
	return Options{ShingleSize: 3, MinShingles: 2, ShortTextWords: 30}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ShingleSize < 1 {
		o.ShingleSize = d.ShingleSize
	}
	if o.MinShingles < 1 {
		o.MinShingles = d.MinShingles
	}
	if o.ShortTextWords < 0 {
		o.ShortTextWords = d.ShortTextWords
	}
	return o
}

// Profile holds the precomputed shingle sets of one document.
type Profile struct {
	words    int
	unigrams ShingleSet
	ngrams   ShingleSet
	opts     Options
}

// NewProfile builds the shingle sets of words.
func NewProfile(words []string, opts Options) Profile {
	opts = opts.normalized()
	return Profile{
		words:    len(words),
		unigrams: Shingles(words, 1),
		ngrams:   Shingles(words, opts.ShingleSize),
		opts:     opts,
	}
}

// WordCount returns the number of words the profile was built from.
func (p Profile) WordCount() int { return p.words }

// Score is the outcome of comparing two profiles.
type Score struct {
	Similarity float64
	Percent    int
	Method     Method
	// Comparable is false when either document is too small to measure; such
	// pairs are treated as no match rather than as zero similarity.
	Comparable bool
}

// Compare scores p against q. Short documents use the overlap coefficient of
// their word sets; longer ones take the larger of single-word and n-gram
// Jaccard so both isolated substitutions and structural copying register.
func Compare(p, q Profile) Score {
	opts := p.opts
	if min(p.words, q.words) < opts.ShortTextWords {
		if !comparable(p.unigrams, q.unigrams, opts.MinShingles) {
			return Score{Method: MethodNone}
		}
		sim := Overlap(p.unigrams, q.unigrams)
		return Score{Similarity: sim, Percent: Percent(sim), Method: MethodOverlap, Comparable: true}
	}

	best := Score{Method: MethodNone}
	if comparable(p.unigrams, q.unigrams, opts.MinShingles) {
		sim := Jaccard(p.unigrams, q.unigrams)
		best = Score{Similarity: sim, Method: MethodJaccard, Comparable: true}
	}
	if comparable(p.ngrams, q.ngrams, opts.MinShingles) {
		sim := Jaccard(p.ngrams, q.ngrams)
		if !best.Comparable || sim > best.Similarity {
			best = Score{Similarity: sim, Method: MethodTrigram, Comparable: true}
		}
	}
	best.Percent = Percent(best.Similarity)
	return best
}

// CompareWords is a convenience wrapper around NewProfile and Compare.
func CompareWords(a, b []string, opts Options) Score {
	return Compare(NewProfile(a, opts), NewProfile(b, opts))
}

func comparable(a, b ShingleSet, minShingles int) bool {
	return len(a) >= minShingles && len(b) >= minShingles
}
