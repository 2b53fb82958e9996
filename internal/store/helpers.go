package store

import (
	"database/sql"
	"errors"
	"time"

	"dupecheck/internal/content"
)

const itemColumns = "id, author_id, content_type, body, word_count, is_protected, status, published_at, content_hash, image_hash, video_url, video_duration"

// timeLayout is fixed width so stored timestamps order lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*content.Item, error) {
	var (
		id            string
		authorID      string
		contentType   string
		body          string
		wordCount     int
		protected     int
		status        string
		publishedRaw  string
		contentHash   sql.NullString
		imageHash     sql.NullInt64
		videoURL      sql.NullString
		videoDuration float64
	)

	if err := scanner.Scan(
		&id,
		&authorID,
		&contentType,
		&body,
		&wordCount,
		&protected,
		&status,
		&publishedRaw,
		&contentHash,
		&imageHash,
		&videoURL,
		&videoDuration,
	); err != nil {
		return nil, err
	}

	item := &content.Item{
		ID:            id,
		AuthorID:      authorID,
		Type:          content.ContentType(contentType),
		Body:          body,
		WordCount:     wordCount,
		Protected:     protected != 0,
		Status:        content.Status(status),
		ContentHash:   contentHash.String,
		VideoURL:      videoURL.String,
		VideoDuration: videoDuration,
	}
	if imageHash.Valid {
		h := content.Hash(uint64(imageHash.Int64))
		item.ImageHash = &h
	}
	if published, err := parseTimeString(publishedRaw); err == nil {
		item.PublishedAt = published
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// nullableHash stores the 64 hash bits in a signed SQLite INTEGER.
func nullableHash(value *content.Hash) any {
	if value == nil {
		return nil
	}
	return int64(uint64(*value))
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func sampleTable(kind content.SampleKind) (string, error) {
	switch kind {
	case content.SampleFrame:
		return "frame_hashes", nil
	case content.SampleAudio:
		return "audio_hashes", nil
	default:
		return "", errors.New("unknown sample kind " + string(kind))
	}
}
