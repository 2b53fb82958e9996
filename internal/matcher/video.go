package matcher

import (
	"context"
	"fmt"
	"math"

	"dupecheck/internal/alignment"
	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
	"dupecheck/internal/imagehash"
	"dupecheck/internal/logging"
)

// checkVideo runs every signal available for the submission and keeps the
// strongest. A short description only skips the text signal.
func (r *Router) checkVideo(ctx context.Context, p *prepared) (content.Verdict, error) {
	var verdicts []content.Verdict

	if n := p.wordCount(); n >= r.policy.VideoMinWords {
		v, err := r.checkText(ctx, p, content.TypeVideo, content.CategoryDuplicate)
		if err != nil {
			return content.Neutral(""), err
		}
		verdicts = append(verdicts, v)
	} else {
		logging.WithContext(ctx, r.logger).Debug("video text signal skipped",
			logging.Signal(content.SignalTextShingle),
			logging.Int("word_count", n),
		)
	}

	if p.imageHash == nil && len(p.Frames) == 0 && len(p.Audio) == 0 && p.url == "" {
		return content.Strongest("no matching video found", verdicts...), nil
	}

	protected, err := r.candidates.ProtectedCandidates(ctx, p.source(content.TypeVideo))
	if err != nil {
		return content.Neutral(""), err
	}
	if len(protected) > 0 {
		verdicts = append(verdicts, r.imageSignal(p, protected))
		for _, seq := range []struct {
			kind   content.SampleKind
			source []content.Sample
			policy alignment.Policy
			signal content.Signal
		}{
			{content.SampleFrame, p.Frames, r.policy.framePolicy(), content.SignalFrames},
			{content.SampleAudio, p.Audio, r.policy.audioPolicy(), content.SignalAudio},
		} {
			if len(seq.source) == 0 {
				continue
			}
			samples, err := r.candidates.Samples(ctx, seq.kind, protected)
			if err != nil {
				return content.Neutral(""), err
			}
			verdicts = append(verdicts, sequenceSignal(seq.source, protected, samples, seq.policy, seq.signal))
		}
		verdicts = append(verdicts, r.urlSignal(p, protected))
	}
	return content.Strongest("no matching video found", verdicts...), nil
}

func (r *Router) imageSignal(p *prepared, protected []content.Item) content.Verdict {
	best := content.Neutral("")
	if p.imageHash == nil {
		return best
	}
	for i := range protected {
		item := &protected[i]
		if item.ImageHash == nil {
			continue
		}
		cmp := imagehash.Compare(*p.imageHash, *item.ImageHash, r.policy.ImageMaxDistance)
		if !cmp.Match {
			continue
		}
		st := content.StrengthHigh
		if cmp.Exact {
			st = content.StrengthExact
		}
		v := content.Match(item, content.CategoryCopyright, st, cmp.Percent, content.SignalImage,
			fmt.Sprintf("thumbnail is %d bits from protected video %s", cmp.Distance, item.ID))
		if v.Stronger(best) {
			best = v
		}
	}
	return best
}

func sequenceSignal(source []content.Sample, protected []content.Item, samples map[string][]content.Sample, policy alignment.Policy, signal content.Signal) content.Verdict {
	best := content.Neutral("")
	for i := range protected {
		item := &protected[i]
		seq := samples[item.ID]
		if len(seq) == 0 {
			continue
		}
		res := alignment.Align(source, seq, policy)
		if !res.Matched {
			continue
		}
		st := strength(res.Percent)
		if res.Exact() {
			st = content.StrengthExact
		}
		v := content.Match(item, content.CategoryCopyright, st, res.Percent, signal,
			fmt.Sprintf("%d%% of protected video %s %s recovered at offset %d (run of %d)", res.Percent, item.ID, signal, res.Offset, res.LongestRun))
		v.LongestRun = res.LongestRun
		if v.Stronger(best) {
			best = v
		}
	}
	return best
}

// urlSignal flags a protected video with the same canonical URL and, when
// both durations are known, a duration within the tolerance.
func (r *Router) urlSignal(p *prepared, protected []content.Item) content.Verdict {
	if p.url == "" {
		return content.Neutral("")
	}
	for i := range protected {
		item := &protected[i]
		if item.VideoURL == "" || fingerprint.CanonicalURL(item.VideoURL) != p.url {
			continue
		}
		if p.VideoDuration > 0 && item.VideoDuration > 0 && math.Abs(p.VideoDuration-item.VideoDuration) > r.policy.DurationTolerance {
			continue
		}
		return content.Match(item, content.CategoryCopyright, content.StrengthExact, 100, content.SignalVideoURL,
			fmt.Sprintf("video url matches protected video %s", item.ID))
	}
	return content.Neutral("")
}
