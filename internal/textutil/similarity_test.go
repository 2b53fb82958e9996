package textutil

import (
	"math"
	"strings"
	"testing"
)

func words(s string) []string { return Words(Normalize(s)) }

func TestShinglesCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		k    int
		want int
	}{
		{"trigrams", "a b c d e", 3, 3},
		{"exact length", "a b c", 3, 1},
		{"too short", "a b", 3, 0},
		{"empty", "", 1, 0},
		{"unigrams dedupe", "a a b", 1, 2},
		{"zero k treated as one", "a b", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shingles(Words(tt.text), tt.k).Len(); got != tt.want {
				t.Fatalf("Shingles(%q, %d) = %d, want %d", tt.text, tt.k, got, tt.want)
			}
		})
	}
}

func TestJaccardProperties(t *testing.T) {
	a := Shingles(words("the quick brown fox jumps"), 1)
	b := Shingles(words("the slow brown cat jumps"), 1)
	empty := ShingleSet{}

	if Jaccard(a, b) != Jaccard(b, a) {
		t.Fatal("Jaccard must be symmetric")
	}
	if Jaccard(a, a) != 1.0 {
		t.Fatalf("Jaccard(A,A) = %v", Jaccard(a, a))
	}
	if Jaccard(a, empty) != 0 || Jaccard(empty, a) != 0 {
		t.Fatal("Jaccard against empty set must be 0")
	}
	// shared: the brown jumps (3); union 7
	if got := Jaccard(a, b); math.Abs(got-3.0/7.0) > 1e-9 {
		t.Fatalf("Jaccard = %v, want 3/7", got)
	}
}

func TestOverlapCoefficient(t *testing.T) {
	a := Shingles(words("alpha beta gamma"), 1)
	b := Shingles(words("alpha beta gamma delta epsilon zeta"), 1)
	if got := Overlap(a, b); got != 1.0 {
		t.Fatalf("Overlap subset = %v, want 1", got)
	}
	if Overlap(a, ShingleSet{}) != 0 {
		t.Fatal("Overlap against empty must be 0")
	}
}

func TestCompareShortTextsUseOverlap(t *testing.T) {
	a := words("one two three four five six seven eight nine ten eleven twelve")
	b := words("one two three four five six seven eight nine ten eleven thirteen")
	score := CompareWords(a, b, DefaultOptions())
	if !score.Comparable {
		t.Fatal("expected comparable score")
	}
	if score.Method != MethodOverlap {
		t.Fatalf("expected overlap method, got %s", score.Method)
	}
	if score.Similarity <= 0.8 {
		t.Fatalf("overlap = %v, want > 0.8", score.Similarity)
	}
	if score.Percent != 92 {
		t.Fatalf("percent = %d, want 92", score.Percent)
	}
}

func TestCompareLongTextsTakeMaxOfScales(t *testing.T) {
	base := strings.Fields(strings.Repeat("lorem ipsum dolor sit amet consectetur adipiscing elit sed do ", 4))
	for i := range base {
		base[i] = base[i] + string(rune('a'+i%26))
	}
	shuffled := append([]string(nil), base...)
	for i, j := 0, len(shuffled)-1; i < j; i, j = i+1, j-1 {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	score := CompareWords(base, shuffled, DefaultOptions())
	if score.Method != MethodJaccard {
		t.Fatalf("reversed word order should be carried by single-word jaccard, got %s", score.Method)
	}
	if score.Percent != 100 {
		t.Fatalf("percent = %d, want 100", score.Percent)
	}

	same := CompareWords(base, base, DefaultOptions())
	if same.Percent != 100 {
		t.Fatalf("identical texts percent = %d", same.Percent)
	}
}

func TestCompareIncomparable(t *testing.T) {
	score := CompareWords(words("hello"), words("hello"), DefaultOptions())
	if score.Comparable {
		t.Fatal("single-word texts must be incomparable")
	}
	if score.Percent != 0 {
		t.Fatalf("incomparable percent = %d", score.Percent)
	}
	if CompareWords(nil, words("a b c"), DefaultOptions()).Comparable {
		t.Fatal("empty text must be incomparable")
	}
}

func TestPercentRounds(t *testing.T) {
	tests := map[float64]int{0.794: 79, 0.7951: 80, 0.0: 0, 1.0: 100, 0.8999: 90}
	for in, want := range tests {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %d, want %d", in, got, want)
		}
	}
}
