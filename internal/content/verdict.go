package content

// MatchStrength grades how close the best match is.
type MatchStrength string

const (
	StrengthNone     MatchStrength = "none"
	StrengthModerate MatchStrength = "moderate"
	StrengthHigh     MatchStrength = "high"
	StrengthExact    MatchStrength = "exact"
)

// Category says which enforcement path a flagged verdict belongs to.
type Category string

const (
	CategoryNone      Category = "none"
	CategoryDuplicate Category = "duplicate"
	CategoryCopyright Category = "copyright"
)

// Signal names the check that produced a verdict.
type Signal string

const (
	SignalNone        Signal = ""
	SignalTextExact   Signal = "text_exact"
	SignalTextShingle Signal = "text_shingle"
	SignalImage       Signal = "image"
	SignalFrames      Signal = "frames"
	SignalAudio       Signal = "audio"
	SignalVideoURL    Signal = "video_url"
	SignalClipCaption Signal = "clip_caption"
)

// Verdict is the outcome of evaluating one submission.
type Verdict struct {
	Flagged           bool          `json:"flagged"`
	Strength          MatchStrength `json:"match_strength"`
	SimilarityPercent int           `json:"similarity_percent"`
	MatchedItemID     string        `json:"matched_item_id,omitempty"`
	MatchedAuthorID   string        `json:"matched_author_id,omitempty"`
	Category          Category      `json:"category"`
	Reason            string        `json:"reason"`
	Signal            Signal        `json:"signal,omitempty"`
	LongestRun        int           `json:"longest_run,omitempty"`
}

// Neutral returns the non-flagged verdict.
func Neutral(reason string) Verdict {
	return Verdict{
		Strength: StrengthNone,
		Category: CategoryNone,
		Reason:   reason,
	}
}

// Match builds a flagged verdict against item.
func Match(item *Item, category Category, strength MatchStrength, percent int, signal Signal, reason string) Verdict {
	v := Verdict{
		Flagged:           true,
		Strength:          strength,
		SimilarityPercent: ClampPercent(percent),
		Category:          category,
		Reason:            reason,
		Signal:            signal,
	}
	if item != nil {
		v.MatchedItemID = item.ID
		v.MatchedAuthorID = item.AuthorID
	}
	return v
}

// Stronger reports whether v should replace other when several signals fire
// for one submission. Flagged beats unflagged, then the higher similarity
// wins; on equal similarity copyright wins over duplicate. Remaining ties keep
// other, so the earlier signal is retained.
func (v Verdict) Stronger(other Verdict) bool {
	if v.Flagged != other.Flagged {
		return v.Flagged
	}
	if v.SimilarityPercent != other.SimilarityPercent {
		return v.SimilarityPercent > other.SimilarityPercent
	}
	return v.Category == CategoryCopyright && other.Category != CategoryCopyright
}

// Strongest folds verdicts with Stronger, starting from the neutral verdict.
func Strongest(fallback string, verdicts ...Verdict) Verdict {
	best := Neutral(fallback)
	for _, v := range verdicts {
		if v.Stronger(best) {
			best = v
		}
	}
	return best
}

// ClampPercent bounds p to [0, 100].
func ClampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
