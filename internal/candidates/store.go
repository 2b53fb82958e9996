package candidates

import (
	"context"
	"time"

	"dupecheck/internal/content"
)

// Query filters the published items a Store returns. Zero values disable the
// corresponding filter.
type Query struct {
	ContentType     content.ContentType
	ExcludeAuthorID string
	ExcludeItemID   string
	// MinWords and MaxWords bound word_count inclusively when MaxWords > 0.
	MinWords       int
	MaxWords       int
	PublishedAfter time.Time
	ProtectedOnly  bool
	VideoURL       string
	Limit          int
}

// HasWordRange reports whether the word-count filter applies.
func (q Query) HasWordRange() bool {
	return q.MaxWords > 0
}

// Store is the read contract consumed from the persistent store. Only items
// with status published are ever returned.
type Store interface {
	// FindByContentHash returns the newest item whose exact content hash is
	// hash, or nil when none matches q.
	FindByContentHash(ctx context.Context, hash string, q Query) (*content.Item, error)
	// FindCandidates returns up to q.Limit items ordered newest first.
	FindCandidates(ctx context.Context, q Query) ([]content.Item, error)
	// Samples returns the sequences of kind for ids, each ordered by index.
	// Items without samples are absent from the map.
	Samples(ctx context.Context, kind content.SampleKind, ids []string) (map[string][]content.Sample, error)
}

// HashWriter is the write contract used once an item has been accepted.
type HashWriter interface {
	AttachHashes(ctx context.Context, itemID string, hashes content.Hashes) error
}
