package candidates

import (
	"context"
	"fmt"
	"time"

	"dupecheck/internal/content"
)

// Limits caps every query the adapter issues.
type Limits struct {
	WindowDays     int
	TextLimit      int
	ProtectedLimit int
	ClipLimit      int
}

// DefaultLimits returns the production caps: a 90-day window, 200 text
// candidates, 300 protected items and 50 same-URL clips.
func DefaultLimits() Limits {
	return Limits{WindowDays: 90, TextLimit: 200, ProtectedLimit: 300, ClipLimit: 50}
}

func (l Limits) normalized() Limits {
	def := DefaultLimits()
	if l.WindowDays <= 0 {
		l.WindowDays = def.WindowDays
	}
	if l.TextLimit <= 0 {
		l.TextLimit = def.TextLimit
	}
	if l.ProtectedLimit <= 0 {
		l.ProtectedLimit = def.ProtectedLimit
	}
	if l.ClipLimit <= 0 {
		l.ClipLimit = def.ClipLimit
	}
	return l
}

// Source describes the submission candidates are fetched for.
type Source struct {
	Type          content.ContentType
	AuthorID      string
	ExcludeItemID string
	WordCount     int
	VideoURL      string
}

// Adapter builds bounded queries against a Store.
type Adapter struct {
	store  Store
	limits Limits
	cache  *SampleCache
	now    func() time.Time
}

// NewAdapter wraps store. cache may be nil.
func NewAdapter(store Store, limits Limits, cache *SampleCache) *Adapter {
	return &Adapter{store: store, limits: limits.normalized(), cache: cache, now: time.Now}
}

// WithClock replaces the time source used for the publication window.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	if now != nil {
		a.now = now
	}
	return a
}

// Limits returns the effective caps.
func (a *Adapter) Limits() Limits {
	return a.limits
}

func (a *Adapter) base(src Source) Query {
	return Query{
		ContentType:     src.Type,
		ExcludeAuthorID: src.AuthorID,
		ExcludeItemID:   src.ExcludeItemID,
		PublishedAfter:  a.now().AddDate(0, 0, -a.limits.WindowDays),
	}
}

// WordRange returns the asymmetric fuzzy-match range for a source of n words:
// half to double.
func WordRange(n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	return n / 2, n * 2
}

// ExactMatch looks up an item of the same type with an identical content
// hash. No word-count range applies.
func (a *Adapter) ExactMatch(ctx context.Context, src Source, hash string) (*content.Item, error) {
	if hash == "" {
		return nil, nil
	}
	q := a.base(src)
	q.Limit = 1
	item, err := a.store.FindByContentHash(ctx, hash, q)
	if err != nil {
		return nil, content.Retrieval("find by content hash", err)
	}
	return item, nil
}

// TextCandidates returns same-type items within the word-count range of the
// source. protectedOnly restricts the set to protected items and uses the
// protected cap.
func (a *Adapter) TextCandidates(ctx context.Context, src Source, protectedOnly bool) ([]content.Item, error) {
	q := a.base(src)
	q.MinWords, q.MaxWords = WordRange(src.WordCount)
	q.ProtectedOnly = protectedOnly
	q.Limit = a.limits.TextLimit
	if protectedOnly {
		q.Limit = a.limits.ProtectedLimit
	}
	items, err := a.store.FindCandidates(ctx, q)
	if err != nil {
		return nil, content.Retrieval(fmt.Sprintf("find %s text candidates", src.Type), err)
	}
	return items, nil
}

// ProtectedCandidates returns protected items of the source type regardless
// of length, for visual and sequence checks.
func (a *Adapter) ProtectedCandidates(ctx context.Context, src Source) ([]content.Item, error) {
	q := a.base(src)
	q.ProtectedOnly = true
	q.Limit = a.limits.ProtectedLimit
	items, err := a.store.FindCandidates(ctx, q)
	if err != nil {
		return nil, content.Retrieval(fmt.Sprintf("find protected %s candidates", src.Type), err)
	}
	return items, nil
}

// SameURLCandidates returns items of the source type that reference the same
// video URL.
func (a *Adapter) SameURLCandidates(ctx context.Context, src Source) ([]content.Item, error) {
	if src.VideoURL == "" {
		return nil, nil
	}
	q := a.base(src)
	q.VideoURL = src.VideoURL
	q.Limit = a.limits.ClipLimit
	items, err := a.store.FindCandidates(ctx, q)
	if err != nil {
		return nil, content.Retrieval("find same-url candidates", err)
	}
	return items, nil
}

// Samples returns the sequences of kind for items, consulting the cache
// before the store. Sequences already present on an item are used as is.
func (a *Adapter) Samples(ctx context.Context, kind content.SampleKind, items []content.Item) (map[string][]content.Sample, error) {
	out := make(map[string][]content.Sample, len(items))
	var missing []string
	for i := range items {
		item := &items[i]
		if seq := item.Samples(kind); len(seq) > 0 {
			out[item.ID] = seq
			continue
		}
		if seq, ok := a.cache.Get(kind, item.ID); ok {
			out[item.ID] = seq
			continue
		}
		missing = append(missing, item.ID)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := a.store.Samples(ctx, kind, missing)
	if err != nil {
		return nil, content.Retrieval(fmt.Sprintf("load %s samples", kind), err)
	}
	for id, seq := range loaded {
		if len(seq) == 0 {
			continue
		}
		out[id] = seq
		a.cache.Set(kind, id, seq)
	}
	return out, nil
}

// Invalidate drops cached sequences for id. Call it after attaching hashes.
func (a *Adapter) Invalidate(id string) {
	a.cache.Delete(content.SampleFrame, id)
	a.cache.Delete(content.SampleAudio, id)
}
