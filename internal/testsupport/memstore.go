package testsupport

import (
	"context"
	"slices"
	"sync"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
)

// MemoryStore is an in-memory candidates.Store and candidates.HashWriter that
// applies the same filters as the SQLite store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	items   []content.Item
	queries []candidates.Query
	loads   int

	// Err, when set, is returned from every read.
	Err error
}

// NewMemoryStore seeds a store with items.
func NewMemoryStore(items ...content.Item) *MemoryStore {
	s := &MemoryStore{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item, defaulting its status to published.
func (s *MemoryStore) Add(item content.Item) {
	if item.Status == "" {
		item.Status = content.StatusPublished
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Queries returns the candidate queries issued so far.
func (s *MemoryStore) Queries() []candidates.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

// SampleLoads counts Samples calls.
func (s *MemoryStore) SampleLoads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Item returns the stored item with id.
func (s *MemoryStore) Item(id string) (content.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return content.Item{}, false
}

func matches(item content.Item, q candidates.Query) bool {
	switch {
	case item.Status != content.StatusPublished:
		return false
	case q.ContentType != "" && item.Type != q.ContentType:
		return false
	case q.ExcludeAuthorID != "" && item.AuthorID == q.ExcludeAuthorID:
		return false
	case q.ExcludeItemID != "" && item.ID == q.ExcludeItemID:
		return false
	case q.HasWordRange() && (item.WordCount < q.MinWords || item.WordCount > q.MaxWords):
		return false
	case !q.PublishedAfter.IsZero() && !item.PublishedAt.After(q.PublishedAfter):
		return false
	case q.ProtectedOnly && !item.Protected:
		return false
	case q.VideoURL != "" && item.VideoURL != q.VideoURL:
		return false
	}
	return true
}

func (s *MemoryStore) filter(q candidates.Query) []content.Item {
	var out []content.Item
	for _, item := range s.items {
		if matches(item, q) {
			out = append(out, item)
		}
	}
	slices.SortStableFunc(out, func(a, b content.Item) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// FindByContentHash implements candidates.Store.
func (s *MemoryStore) FindByContentHash(ctx context.Context, hash string, q candidates.Query) (*content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q.Limit = 0
	for _, item := range s.filter(q) {
		if item.ContentHash == hash {
			return &item, nil
		}
	}
	return nil, nil
}

// FindCandidates implements candidates.Store. Sample sequences are stripped
// so callers must load them through Samples.
func (s *MemoryStore) FindCandidates(ctx context.Context, q candidates.Query) ([]content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.filter(q)
	for i := range out {
		out[i].FrameHashes = nil
		out[i].AudioHashes = nil
	}
	return out, nil
}

// Samples implements candidates.Store.
func (s *MemoryStore) Samples(ctx context.Context, kind content.SampleKind, ids []string) (map[string][]content.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string][]content.Sample)
	for _, item := range s.items {
		if !slices.Contains(ids, item.ID) {
			continue
		}
		if seq := item.Samples(kind); len(seq) > 0 {
			out[item.ID] = slices.Clone(seq)
		}
	}
	return out, nil
}

// AttachHashes implements candidates.HashWriter.
func (s *MemoryStore) AttachHashes(ctx context.Context, itemID string, h content.Hashes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		item := &s.items[i]
		item.ContentHash = h.ContentHash
		item.WordCount = h.WordCount
		item.ImageHash = h.ImageHash
		item.FrameHashes = h.Frames
		item.AudioHashes = h.Audio
		return nil
	}
	return content.ErrItemNotFound
}
