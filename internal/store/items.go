package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
)

// Insert stores a new item together with any sample sequences it carries.
// A missing ID is generated, a zero PublishedAt defaults to now and the
// status defaults to published. The content hash and word count are always
// derived from Body; image and sample fingerprints are stored as given and
// callers compute them through the matcher's Record.
func (s *Store) Insert(ctx context.Context, item content.Item) (*content.Item, error) {
	if strings.TrimSpace(item.AuthorID) == "" {
		return nil, errors.New("insert item: author id is required")
	}
	kind, err := content.ParseContentType(string(item.Type))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	item.Type = kind
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = content.StatusPublished
	}
	if item.PublishedAt.IsZero() {
		item.PublishedAt = s.now()
	}
	item.VideoURL = fingerprint.CanonicalURL(item.VideoURL)
	item.ContentHash, item.WordCount = fingerprint.Body(item.Body)
	for _, sk := range []content.SampleKind{content.SampleFrame, content.SampleAudio} {
		if err := content.ValidateSamples(sk, item.Samples(sk)); err != nil {
			return nil, fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}

	timestamp := formatTime(s.now())
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO content_items (
	            id, author_id, content_type, body, word_count, is_protected, status,
	            published_at, content_hash, image_hash, video_url, video_duration,
	            created_at, updated_at
	        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.AuthorID,
			item.Type,
			item.Body,
			item.WordCount,
			boolToInt(item.Protected),
			item.Status,
			formatTime(item.PublishedAt),
			nullableString(item.ContentHash),
			nullableHash(item.ImageHash),
			nullableString(item.VideoURL),
			item.VideoDuration,
			timestamp,
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
		return replaceAllSamples(ctx, tx, item.ID, item.FrameHashes, item.AudioHashes)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, item.ID)
}

// Get fetches an item and its sample sequences. Unknown IDs return
// content.ErrItemNotFound.
func (s *Store) Get(ctx context.Context, id string) (*content.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM content_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get item %s: %w", id, content.ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	for _, kind := range []content.SampleKind{content.SampleFrame, content.SampleAudio} {
		samples, err := s.Samples(ctx, kind, []string{id})
		if err != nil {
			return nil, err
		}
		if kind == content.SampleFrame {
			item.FrameHashes = samples[id]
		} else {
			item.AudioHashes = samples[id]
		}
	}
	return item, nil
}

// Remove marks an item removed so it is never returned as a candidate again.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE content_items SET status = ?, updated_at = ? WHERE id = ?`,
		content.StatusRemoved,
		formatTime(s.now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("remove item %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove item %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("remove item %s: %w", id, content.ErrItemNotFound)
	}
	return nil
}

// Prune deletes items published before cutoff along with their samples and
// returns the number of items deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE published_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune items: %w", err)
	}
	return res.RowsAffected()
}
