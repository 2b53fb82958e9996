package matcher

import (
	"dupecheck/internal/alignment"
	"dupecheck/internal/config"
	"dupecheck/internal/content"
	"dupecheck/internal/textutil"
)

// Policy centralizes the thresholds the router applies.
type Policy struct {
	PostMinWords             int
	VideoMinWords            int
	LongTextWords            int
	DuplicatePercent         int
	LongTextDuplicatePercent int
	CopyrightPercent         int
	ClipCaptionPercent       int
	ImageMaxDistance         int
	FrameMaxDistance         int
	AudioMaxDistance         int
	MinRun                   int
	MinCoveragePercent       int
	ShortTextWords           int
	ShingleSize              int
	MinShingles              int
	DurationTolerance        float64
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		PostMinWords:             10,
		VideoMinWords:            10,
		LongTextWords:            50,
		DuplicatePercent:         90,
		LongTextDuplicatePercent: 80,
		CopyrightPercent:         75,
		ClipCaptionPercent:       90,
		ImageMaxDistance:         12,
		FrameMaxDistance:         17,
		AudioMaxDistance:         17,
		MinRun:                   4,
		MinCoveragePercent:       80,
		ShortTextWords:           30,
		ShingleSize:              3,
		MinShingles:              2,
		DurationTolerance:        1,
	}
}

// PolicyFromConfig converts the [matching] section.
func PolicyFromConfig(m config.Matching) Policy {
	return Policy{
		PostMinWords:             m.PostMinWords,
		VideoMinWords:            m.VideoMinWords,
		LongTextWords:            m.LongTextWords,
		DuplicatePercent:         m.DuplicatePercent,
		LongTextDuplicatePercent: m.LongTextDuplicatePercent,
		CopyrightPercent:         m.CopyrightPercent,
		ClipCaptionPercent:       m.ClipCaptionPercent,
		ImageMaxDistance:         m.ImageMaxDistance,
		FrameMaxDistance:         m.FrameMaxDistance,
		AudioMaxDistance:         m.AudioMaxDistance,
		MinRun:                   m.MinRun,
		MinCoveragePercent:       m.MinCoveragePercent,
		ShortTextWords:           m.ShortTextWords,
		ShingleSize:              m.ShingleSize,
		MinShingles:              m.MinShingles,
		DurationTolerance:        m.DurationToleranceSeconds,
	}.normalized()
}

func validPercent(p int) bool { return p > 0 && p <= 100 }

func validDistance(d int) bool { return d >= 0 && d <= 64 }

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.PostMinWords <= 0 {
		p.PostMinWords = d.PostMinWords
	}
	if p.VideoMinWords <= 0 {
		p.VideoMinWords = d.VideoMinWords
	}
	if p.LongTextWords <= 0 {
		p.LongTextWords = d.LongTextWords
	}
	if !validPercent(p.DuplicatePercent) {
		p.DuplicatePercent = d.DuplicatePercent
	}
	if !validPercent(p.LongTextDuplicatePercent) {
		p.LongTextDuplicatePercent = d.LongTextDuplicatePercent
	}
	if !validPercent(p.CopyrightPercent) {
		p.CopyrightPercent = d.CopyrightPercent
	}
	if !validPercent(p.ClipCaptionPercent) {
		p.ClipCaptionPercent = d.ClipCaptionPercent
	}
	if !validPercent(p.MinCoveragePercent) {
		p.MinCoveragePercent = d.MinCoveragePercent
	}
	if !validDistance(p.ImageMaxDistance) {
		p.ImageMaxDistance = d.ImageMaxDistance
	}
	if !validDistance(p.FrameMaxDistance) {
		p.FrameMaxDistance = d.FrameMaxDistance
	}
	if !validDistance(p.AudioMaxDistance) {
		p.AudioMaxDistance = d.AudioMaxDistance
	}
	if p.MinRun <= 0 {
		p.MinRun = d.MinRun
	}
	if p.ShortTextWords < 0 {
		p.ShortTextWords = d.ShortTextWords
	}
	if p.ShingleSize <= 0 {
		p.ShingleSize = d.ShingleSize
	}
	if p.MinShingles <= 0 {
		p.MinShingles = d.MinShingles
	}
	if p.DurationTolerance < 0 {
		p.DurationTolerance = d.DurationTolerance
	}
	return p
}

func (p Policy) textOptions() textutil.Options {
	return textutil.Options{ShingleSize: p.ShingleSize, MinShingles: p.MinShingles, ShortTextWords: p.ShortTextWords}
}

func (p Policy) framePolicy() alignment.Policy {
	return alignment.Policy{MaxDistance: p.FrameMaxDistance, MinRun: p.MinRun, MinCoveragePercent: p.MinCoveragePercent}
}

func (p Policy) audioPolicy() alignment.Policy {
	return alignment.Policy{MaxDistance: p.AudioMaxDistance, MinRun: p.MinRun, MinCoveragePercent: p.MinCoveragePercent}
}

// highPercent is the similarity from which a flagged fuzzy signal grades
// as high rather than moderate.
const highPercent = 90

func strength(percent int) content.MatchStrength {
	if percent >= highPercent {
		return content.StrengthHigh
	}
	return content.StrengthModerate
}
