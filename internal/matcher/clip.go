package matcher

import (
	"context"
	"fmt"

	"dupecheck/internal/content"
	"dupecheck/internal/textutil"
)

// checkClip compares the caption against clips cut from the same video.
// Clips only ever flag as duplicates.
func (r *Router) checkClip(ctx context.Context, p *prepared) (content.Verdict, error) {
	if p.url == "" {
		return content.Neutral("clip has no video url"), nil
	}
	same, err := r.candidates.SameURLCandidates(ctx, p.source(content.TypeClip))
	if err != nil {
		return content.Neutral(""), err
	}

	opts := r.policy.textOptions()
	best := content.Neutral("no similar clip from the same video")
	for i := range same {
		item := &same[i]
		score := textutil.Compare(p.profile, textutil.NewProfile(textutil.Prepare(item.Body).Words, opts))
		if !score.Comparable || score.Percent < r.policy.ClipCaptionPercent {
			continue
		}
		v := content.Match(item, content.CategoryDuplicate, strength(score.Percent), score.Percent, content.SignalClipCaption,
			fmt.Sprintf("caption is %d%% similar to clip %s of the same video", score.Percent, item.ID))
		if v.Stronger(best) {
			best = v
		}
	}
	return best, nil
}
