package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"dupecheck/internal/content"
)

// TypeStats counts the items of one content type.
type TypeStats struct {
	Type      content.ContentType `json:"content_type"`
	Published int                 `json:"published"`
	Protected int                 `json:"protected"`
	Removed   int                 `json:"removed"`
}

// Stats summarises the database for operators.
type Stats struct {
	Types        []TypeStats
	FrameSamples int
	AudioSamples int
}

// Total returns the number of stored items regardless of status.
func (s Stats) Total() int {
	total := 0
	for _, t := range s.Types {
		total += t.Published + t.Removed
	}
	return total
}

// Stats returns item counts grouped by content type. Protected counts only
// published items.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content_type, status, is_protected, COUNT(1) FROM content_items
         GROUP BY content_type, status, is_protected`)
	if err != nil {
		return Stats{}, fmt.Errorf("content stats: %w", err)
	}
	defer rows.Close()

	byType := make(map[content.ContentType]*TypeStats)
	for rows.Next() {
		var (
			kind      content.ContentType
			status    content.Status
			protected int
			count     int
		)
		if err := rows.Scan(&kind, &status, &protected, &count); err != nil {
			return Stats{}, err
		}
		entry, ok := byType[kind]
		if !ok {
			entry = &TypeStats{Type: kind}
			byType[kind] = entry
		}
		switch status {
		case content.StatusPublished:
			entry.Published += count
			if protected != 0 {
				entry.Protected += count
			}
		default:
			entry.Removed += count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, entry := range byType {
		stats.Types = append(stats.Types, *entry)
	}
	slices.SortFunc(stats.Types, func(a, b TypeStats) int {
		return cmp.Compare(a.Type, b.Type)
	})

	for table, dst := range map[string]*int{"frame_hashes": &stats.FrameSamples, "audio_hashes": &stats.AudioSamples} {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table).Scan(dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return stats, nil
}
