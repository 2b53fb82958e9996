package matcher_test

import (
	"fmt"
	"strings"
	"time"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
	"dupecheck/internal/matcher"
	"dupecheck/internal/testsupport"
)

var now = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

// words returns n distinct tokens prefixed with tag.
func words(tag string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", tag, i)
	}
	return out
}

// replaceTail swaps the last k tokens of base for fresh ones.
func replaceTail(base []string, k int) []string {
	out := append([]string(nil), base...)
	for i := len(out) - k; i < len(out); i++ {
		out[i] = fmt.Sprintf("other%d", i)
	}
	return out
}

func text(tokens []string) string {
	return strings.Join(tokens, " ")
}

func item(id, author string, kind content.ContentType, body string) content.Item {
	hash, wc := fingerprint.Body(body)
	return content.Item{
		ID:          id,
		AuthorID:    author,
		Type:        kind,
		Body:        body,
		WordCount:   wc,
		ContentHash: hash,
		Status:      content.StatusPublished,
		PublishedAt: now.Add(-24 * time.Hour),
	}
}

func protected(i content.Item) content.Item {
	i.Protected = true
	return i
}

func newRouter(store *testsupport.MemoryStore, opts ...matcher.Option) *matcher.Router {
	adapter := candidates.NewAdapter(store, candidates.DefaultLimits(), nil).WithClock(func() time.Time { return now })
	return matcher.New(adapter, opts...)
}

func hashPtr(h content.Hash) *content.Hash { return &h }
