package matcher

import (
	"fmt"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
	"dupecheck/internal/imagehash"
	"dupecheck/internal/textutil"
)

// Submission is the content being published plus everything already
// extracted from it. Body is the HTML-bearing text only; titles are not
// compared.
type Submission struct {
	ItemID        string              `json:"item_id,omitempty"`
	AuthorID      string              `json:"author_id"`
	Type          content.ContentType `json:"content_type"`
	Body          string              `json:"body"`
	ImageHash     *content.Hash       `json:"image_hash,omitempty"`
	Image         []byte              `json:"image,omitempty"`
	VideoURL      string              `json:"video_url,omitempty"`
	VideoDuration float64             `json:"video_duration,omitempty"`
	Frames        []content.Sample    `json:"frame_hashes,omitempty"`
	Audio         []content.Sample    `json:"audio_hashes,omitempty"`
	// ExcludeItemID skips one stored item, typically the submission's own
	// earlier version during an edit-in-place re-check.
	ExcludeItemID string `json:"exclude_item_id,omitempty"`
}

// prepared is a Submission with its derived fingerprints.
type prepared struct {
	Submission
	doc       textutil.Document
	hash      string
	profile   textutil.Profile
	imageHash *content.Hash
	url       string
}

// prepare normalizes text, resolves the image hash and validates sample
// sequences. Failures are HashComputationErrors.
func (r *Router) prepare(sub Submission) (*prepared, error) {
	kind, err := content.ParseContentType(string(sub.Type))
	if err != nil {
		return nil, fmt.Errorf("prepare submission: %w", err)
	}
	sub.Type = kind
	p := &prepared{Submission: sub}
	p.doc = textutil.Prepare(sub.Body)
	p.hash = fingerprint.Text(p.doc.Text)
	p.profile = textutil.NewProfile(p.doc.Words, r.policy.textOptions())
	p.url = fingerprint.CanonicalURL(sub.VideoURL)

	switch {
	case sub.ImageHash != nil:
		h := *sub.ImageHash
		p.imageHash = &h
	case len(sub.Image) > 0:
		h, err := imagehash.DecodeBytes(sub.Image)
		if err != nil {
			return nil, err
		}
		p.imageHash = &h
	}

	if err := content.ValidateSamples(content.SampleFrame, sub.Frames); err != nil {
		return nil, err
	}
	if err := content.ValidateSamples(content.SampleAudio, sub.Audio); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *prepared) wordCount() int {
	return len(p.doc.Words)
}

func (p *prepared) source(t content.ContentType) candidates.Source {
	return candidates.Source{
		Type:          t,
		AuthorID:      p.AuthorID,
		ExcludeItemID: p.ExcludeItemID,
		WordCount:     p.wordCount(),
		VideoURL:      p.url,
	}
}
