package matcher

import (
	"context"
	"errors"
	"fmt"

	"dupecheck/internal/content"
	"dupecheck/internal/logging"
)

// Record computes the fingerprints of an accepted submission and attaches
// them to the stored item itemID. It runs after the verdict and is not
// transactional with it; errors are returned rather than suppressed.
func (r *Router) Record(ctx context.Context, itemID string, sub Submission) (content.Hashes, error) {
	if r.writer == nil {
		return content.Hashes{}, errors.New("record hashes: no hash writer configured")
	}
	if itemID == "" {
		return content.Hashes{}, errors.New("record hashes: item id is required")
	}
	sub.ItemID = itemID
	ctx = annotate(ctx, sub)

	p, err := r.prepare(sub)
	if err != nil {
		return content.Hashes{}, fmt.Errorf("record hashes for %s: %w", itemID, err)
	}
	hashes := content.Hashes{
		ContentHash: p.hash,
		WordCount:   p.wordCount(),
		ImageHash:   p.imageHash,
		Frames:      p.Frames,
		Audio:       p.Audio,
	}
	if err := r.writer.AttachHashes(ctx, itemID, hashes); err != nil {
		return hashes, fmt.Errorf("record hashes for %s: %w", itemID, err)
	}
	r.candidates.Invalidate(itemID)

	logging.WithContext(ctx, r.logger).Info("hashes recorded",
		logging.Int("word_count", hashes.WordCount),
		logging.Bool("image_hash", hashes.ImageHash != nil),
		logging.Int("frame_samples", len(hashes.Frames)),
		logging.Int("audio_samples", len(hashes.Audio)),
	)
	return hashes, nil
}
