package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
)

var (
	_ candidates.Store      = (*Store)(nil)
	_ candidates.HashWriter = (*Store)(nil)
)

// candidateFilter renders q as a WHERE clause. Only published items match.
func candidateFilter(q candidates.Query) (string, []any) {
	clauses := []string{"status = ?"}
	args := []any{content.StatusPublished}
	if q.ContentType != "" {
		clauses = append(clauses, "content_type = ?")
		args = append(args, q.ContentType)
	}
	if q.ExcludeAuthorID != "" {
		clauses = append(clauses, "author_id <> ?")
		args = append(args, q.ExcludeAuthorID)
	}
	if q.ExcludeItemID != "" {
		clauses = append(clauses, "id <> ?")
		args = append(args, q.ExcludeItemID)
	}
	if q.HasWordRange() {
		clauses = append(clauses, "word_count BETWEEN ? AND ?")
		args = append(args, q.MinWords, q.MaxWords)
	}
	if !q.PublishedAfter.IsZero() {
		clauses = append(clauses, "published_at > ?")
		args = append(args, formatTime(q.PublishedAfter))
	}
	if q.ProtectedOnly {
		clauses = append(clauses, "is_protected = 1")
	}
	if q.VideoURL != "" {
		clauses = append(clauses, "video_url = ?")
		args = append(args, q.VideoURL)
	}
	return strings.Join(clauses, " AND "), args
}

// FindByContentHash returns the newest published item with the given exact
// content hash that satisfies q, or nil.
func (s *Store) FindByContentHash(ctx context.Context, hash string, q candidates.Query) (*content.Item, error) {
	if hash == "" {
		return nil, nil
	}
	where, args := candidateFilter(q)
	args = append(args, hash)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE `+where+` AND content_hash = ?
         ORDER BY published_at DESC, id LIMIT 1`,
		args...,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by content hash: %w", err)
	}
	return item, nil
}

// FindCandidates returns up to q.Limit published items newest first. Sample
// sequences are not loaded.
func (s *Store) FindCandidates(ctx context.Context, q candidates.Query) ([]content.Item, error) {
	where, args := candidateFilter(q)
	query := `SELECT ` + itemColumns + ` FROM content_items WHERE ` + where + ` ORDER BY published_at DESC, id`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Samples returns the sequences of kind for ids ordered by index.
func (s *Store) Samples(ctx context.Context, kind content.SampleKind, ids []string) (map[string][]content.Sample, error) {
	table, err := sampleTable(kind)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]content.Sample)
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT item_id, idx, hash FROM `+table+` WHERE item_id IN (`+makePlaceholders(len(ids))+`) ORDER BY item_id, idx`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load %s samples: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID string
			index  int
			hash   int64
		)
		if err := rows.Scan(&itemID, &index, &hash); err != nil {
			return nil, fmt.Errorf("scan %s sample: %w", kind, err)
		}
		out[itemID] = append(out[itemID], content.Sample{Index: index, Hash: content.Hash(uint64(hash))})
	}
	return out, rows.Err()
}

// AttachHashes writes the fingerprints of an accepted item, replacing any
// previously stored sequences.
func (s *Store) AttachHashes(ctx context.Context, itemID string, hashes content.Hashes) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE content_items
             SET content_hash = ?, word_count = ?, image_hash = ?, updated_at = ?
             WHERE id = ?`,
			nullableString(hashes.ContentHash),
			hashes.WordCount,
			nullableHash(hashes.ImageHash),
			formatTime(s.now()),
			itemID,
		)
		if err != nil {
			return fmt.Errorf("attach hashes to %s: %w", itemID, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("attach hashes to %s: %w", itemID, err)
		} else if affected == 0 {
			return fmt.Errorf("attach hashes to %s: %w", itemID, content.ErrItemNotFound)
		}
		return replaceAllSamples(ctx, tx, itemID, hashes.Frames, hashes.Audio)
	})
}

func replaceAllSamples(ctx context.Context, tx *sql.Tx, itemID string, frames, audio []content.Sample) error {
	if err := replaceSamples(ctx, tx, itemID, content.SampleFrame, frames); err != nil {
		return err
	}
	return replaceSamples(ctx, tx, itemID, content.SampleAudio, audio)
}

func replaceSamples(ctx context.Context, tx *sql.Tx, itemID string, kind content.SampleKind, samples []content.Sample) error {
	table, err := sampleTable(kind)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clear %s samples for %s: %w", kind, itemID, err)
	}
	if len(samples) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (item_id, idx, hash) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", kind, err)
	}
	defer stmt.Close()
	for _, sample := range samples {
		if _, err := stmt.ExecContext(ctx, itemID, sample.Index, int64(uint64(sample.Hash))); err != nil {
			return fmt.Errorf("insert %s sample %d for %s: %w", kind, sample.Index, itemID, err)
		}
	}
	return nil
}
