package matcher

import (
	"context"
	"fmt"

	"dupecheck/internal/content"
	"dupecheck/internal/textutil"
)

// checkPost applies the post rules. Posts below the minimum length are a
// defined skip and never reach the exact-hash lookup.
func (r *Router) checkPost(ctx context.Context, p *prepared) (content.Verdict, error) {
	if n := p.wordCount(); n < r.policy.PostMinWords {
		return content.Neutral("post is too short to compare"), tooShort(content.TypePost, n, r.policy.PostMinWords)
	}
	return r.checkText(ctx, p, content.TypePost, content.CategoryCopyright)
}

// checkText compares the submission body against stored items of kind: exact
// hash first, then shingle similarity against the general and protected
// candidate sets. protectedCategory is the category assigned when only the
// protected-candidate rule fires.
func (r *Router) checkText(ctx context.Context, p *prepared, kind content.ContentType, protectedCategory content.Category) (content.Verdict, error) {
	src := p.source(kind)
	exact, err := r.candidates.ExactMatch(ctx, src, p.hash)
	if err != nil {
		return content.Neutral(""), err
	}
	if exact != nil {
		return exactText(exact), nil
	}

	general, err := r.candidates.TextCandidates(ctx, src, false)
	if err != nil {
		return content.Neutral(""), err
	}
	protected, err := r.candidates.TextCandidates(ctx, src, true)
	if err != nil {
		return content.Neutral(""), err
	}

	opts := r.policy.textOptions()
	best := content.Neutral(fmt.Sprintf("no similar %s text found", kind))
	seen := make(map[string]struct{}, len(general)+len(protected))
	for _, batch := range [][]content.Item{general, protected} {
		for i := range batch {
			item := &batch[i]
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}

			if item.ContentHash != "" && item.ContentHash == p.hash {
				return exactText(item), nil
			}
			score := textutil.Compare(p.profile, textutil.NewProfile(textutil.Prepare(item.Body).Words, opts))
			if !score.Comparable {
				continue
			}
			if v, ok := r.textRule(p, item, score.Percent, protectedCategory); ok && v.Stronger(best) {
				best = v
			}
		}
	}
	return best, nil
}

func exactText(item *content.Item) content.Verdict {
	return content.Match(item, content.CategoryDuplicate, content.StrengthExact, 100, content.SignalTextExact,
		fmt.Sprintf("body is identical to %s %s", item.Type, item.ID))
}

func (r *Router) textRule(p *prepared, item *content.Item, percent int, protectedCategory content.Category) (content.Verdict, bool) {
	category := content.CategoryNone
	switch {
	case percent >= r.policy.DuplicatePercent:
		category = content.CategoryDuplicate
	case p.wordCount() >= r.policy.LongTextWords && percent >= r.policy.LongTextDuplicatePercent:
		category = content.CategoryDuplicate
	case item.Protected && percent >= r.policy.CopyrightPercent:
		category = protectedCategory
	default:
		return content.Verdict{}, false
	}
	reason := fmt.Sprintf("body is %d%% similar to %s %s", percent, item.Type, item.ID)
	if item.Protected {
		reason = fmt.Sprintf("body is %d%% similar to protected %s %s", percent, item.Type, item.ID)
	}
	return content.Match(item, category, strength(percent), percent, content.SignalTextShingle, reason), true
}
