package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
	"dupecheck/internal/store"
	"dupecheck/internal/testsupport"
)

var now = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func hashPtr(h content.Hash) *content.Hash { return &h }

// body returns n distinct words.
func body(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenStore(t, cfg).WithClock(func() time.Time { return now })
}

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("path = %q, want %q", st.Path(), cfg.DatabasePath())
	}
	if _, err := st.Insert(context.Background(), content.Item{ID: "a", AuthorID: "bob", Type: content.TypePost}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if _, err := reopened.Get(context.Background(), "a"); err != nil {
		t.Fatalf("item lost across reopen: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	_ = st.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestInsertDefaultsAndRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	stored, err := st.Insert(ctx, content.Item{
		AuthorID:      "studio",
		Type:          "moment",
		Body:          "caption",
		Protected:     true,
		ImageHash:     hashPtr(0xFFFF_FFFF_FFFF_FFFF),
		VideoURL:      "HTTPS://Video.Example.com/Watch/42/",
		VideoDuration: 12.5,
		FrameHashes:   []content.Sample{{Index: 0, Hash: 1}, {Index: 2, Hash: 0x8000_0000_0000_0000}},
		AudioHashes:   []content.Sample{{Index: 5, Hash: 7}},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.ID == "" || stored.Status != content.StatusPublished || !stored.PublishedAt.Equal(now) {
		t.Fatalf("defaults not applied: %+v", stored)
	}
	if stored.Type != content.TypeClip || stored.VideoURL != "https://video.example.com/Watch/42" {
		t.Fatalf("type or url not normalized: %+v", stored)
	}
	if stored.ImageHash == nil || *stored.ImageHash != 0xFFFF_FFFF_FFFF_FFFF {
		t.Fatalf("image hash lost high bit: %v", stored.ImageHash)
	}
	if len(stored.FrameHashes) != 2 || stored.FrameHashes[1].Hash != 0x8000_0000_0000_0000 || len(stored.AudioHashes) != 1 {
		t.Fatalf("samples not stored: %+v %+v", stored.FrameHashes, stored.AudioHashes)
	}
	if !stored.Protected || stored.VideoDuration != 12.5 {
		t.Fatalf("fields lost: %+v", stored)
	}
}

func TestInsertDerivesTextFingerprintFromBody(t *testing.T) {
	st := openStore(t)
	text := body(60)

	stored, err := st.Insert(context.Background(), content.Item{
		AuthorID:    "bob",
		Type:        content.TypePost,
		Body:        "<p>" + text + "</p>",
		WordCount:   3,
		ContentHash: "bogus",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	wantHash, wantWords := fingerprint.Body(text)
	if stored.WordCount != wantWords || wantWords != 60 || stored.ContentHash != wantHash {
		t.Fatalf("stored word_count=%d content_hash=%q, want %d %q", stored.WordCount, stored.ContentHash, wantWords, wantHash)
	}

	got, err := st.FindCandidates(context.Background(), candidates.Query{ContentType: content.TypePost, MinWords: 50, MaxWords: 70})
	if err != nil || len(got) != 1 || got[0].ID != stored.ID {
		t.Fatalf("item not reachable by word range: %+v (%v)", got, err)
	}

	empty := testsupport.MustInsert(t, st, content.Item{AuthorID: "bob", Type: content.TypeVideo, ContentHash: "stale", WordCount: 9})
	if empty.ContentHash != "" || empty.WordCount != 0 {
		t.Fatalf("empty body must clear text fingerprint: %+v", empty)
	}
}

func TestInsertValidation(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	cases := map[string]content.Item{
		"missing author": {Type: content.TypePost},
		"unknown type":   {AuthorID: "a", Type: "podcast"},
		"bad samples":    {AuthorID: "a", Type: content.TypeVideo, FrameHashes: []content.Sample{{Index: 3}, {Index: 3}}},
	}
	for name, item := range cases {
		if _, err := st.Insert(ctx, item); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	testsupport.MustInsert(t, st, content.Item{ID: "dup", AuthorID: "a", Type: content.TypePost})
	if _, err := st.Insert(ctx, content.Item{ID: "dup", AuthorID: "a", Type: content.TypePost}); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestGetUnknownItem(t *testing.T) {
	st := openStore(t)
	if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, content.ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindCandidatesFilters(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	day := 24 * time.Hour
	seed := []content.Item{
		{ID: "p1", AuthorID: "bob", Type: content.TypePost, Body: body(40), PublishedAt: now.Add(-1 * day)},
		{ID: "p2", AuthorID: "carol", Type: content.TypePost, Body: body(80), PublishedAt: now.Add(-2 * day), Protected: true},
		{ID: "p3", AuthorID: "alice", Type: content.TypePost, Body: body(40), PublishedAt: now.Add(-3 * day)},
		{ID: "p4", AuthorID: "bob", Type: content.TypePost, Body: body(200), PublishedAt: now.Add(-4 * day)},
		{ID: "old", AuthorID: "bob", Type: content.TypePost, Body: body(40), PublishedAt: now.Add(-120 * day)},
		{ID: "gone", AuthorID: "bob", Type: content.TypePost, Body: body(40), PublishedAt: now.Add(-1 * day), Status: content.StatusRemoved},
		{ID: "v1", AuthorID: "bob", Type: content.TypeVideo, Body: body(40), PublishedAt: now.Add(-1 * day)},
	}
	for _, item := range seed {
		testsupport.MustInsert(t, st, item)
	}

	ids := func(items []content.Item) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.ID
		}
		return out
	}
	window := now.Add(-90 * day)
	cases := []struct {
		name  string
		query candidates.Query
		want  []string
	}{
		{"type and window newest first", candidates.Query{ContentType: content.TypePost, PublishedAfter: window}, []string{"p1", "p2", "p3", "p4"}},
		{"exclude author", candidates.Query{ContentType: content.TypePost, ExcludeAuthorID: "alice", PublishedAfter: window}, []string{"p1", "p2", "p4"}},
		{"word range", candidates.Query{ContentType: content.TypePost, MinWords: 20, MaxWords: 80}, []string{"p1", "p2", "p3", "old"}},
		{"protected only", candidates.Query{ContentType: content.TypePost, ProtectedOnly: true}, []string{"p2"}},
		{"exclude item and limit", candidates.Query{ContentType: content.TypePost, ExcludeItemID: "p1", Limit: 2}, []string{"p2", "p3"}},
		{"other type", candidates.Query{ContentType: content.TypeVideo}, []string{"v1"}},
	}
	for _, tc := range cases {
		got, err := st.FindCandidates(ctx, tc.query)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if g := ids(got); len(g) != len(tc.want) || !equal(g, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, g, tc.want)
		}
	}
}

func equal(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return len(a) == len(b)
}

func TestFindCandidatesByVideoURL(t *testing.T) {
	st := openStore(t)
	testsupport.MustInsert(t, st, content.Item{ID: "c1", AuthorID: "bob", Type: content.TypeClip, VideoURL: "https://example.com/v/1/"})
	testsupport.MustInsert(t, st, content.Item{ID: "c2", AuthorID: "bob", Type: content.TypeClip, VideoURL: "https://example.com/v/2"})

	got, err := st.FindCandidates(context.Background(), candidates.Query{ContentType: content.TypeClip, VideoURL: "https://example.com/v/1"})
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	if got[0].FrameHashes != nil {
		t.Fatal("candidates must not carry samples")
	}
}

func TestFindByContentHash(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	testsupport.MustInsert(t, st, content.Item{ID: "older", AuthorID: "bob", Type: content.TypePost, Body: "<p>Same story</p>", PublishedAt: now.Add(-48 * time.Hour)})
	testsupport.MustInsert(t, st, content.Item{ID: "newer", AuthorID: "carol", Type: content.TypePost, Body: "same STORY", PublishedAt: now.Add(-24 * time.Hour)})
	hash, _ := fingerprint.Body("same story")

	got, err := st.FindByContentHash(ctx, hash, candidates.Query{ContentType: content.TypePost})
	if err != nil || got == nil || got.ID != "newer" {
		t.Fatalf("expected newest match, got %+v (%v)", got, err)
	}
	got, err = st.FindByContentHash(ctx, hash, candidates.Query{ContentType: content.TypePost, ExcludeAuthorID: "carol"})
	if err != nil || got == nil || got.ID != "older" {
		t.Fatalf("expected author filter, got %+v (%v)", got, err)
	}
	if got, err := st.FindByContentHash(ctx, "zzz", candidates.Query{}); err != nil || got != nil {
		t.Fatalf("expected no match, got %+v (%v)", got, err)
	}
	if got, err := st.FindByContentHash(ctx, "", candidates.Query{}); err != nil || got != nil {
		t.Fatalf("empty hash must never match, got %+v (%v)", got, err)
	}
}

func TestSamplesAndAttachHashes(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	testsupport.MustInsert(t, st, content.Item{ID: "v1", AuthorID: "bob", Type: content.TypeVideo, FrameHashes: []content.Sample{{Index: 0, Hash: 9}}})
	testsupport.MustInsert(t, st, content.Item{ID: "v2", AuthorID: "bob", Type: content.TypeVideo})

	err := st.AttachHashes(ctx, "v2", content.Hashes{
		ContentHash: "h2",
		WordCount:   12,
		ImageHash:   hashPtr(42),
		Frames:      []content.Sample{{Index: 3, Hash: 30}, {Index: 1, Hash: 10}},
		Audio:       []content.Sample{{Index: 0, Hash: 5}},
	})
	if err != nil {
		t.Fatalf("AttachHashes: %v", err)
	}

	frames, err := st.Samples(ctx, content.SampleFrame, []string{"v1", "v2", "missing"})
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(frames) != 2 || len(frames["v1"]) != 1 || len(frames["v2"]) != 2 {
		t.Fatalf("unexpected frames: %+v", frames)
	}
	if frames["v2"][0].Index != 1 || frames["v2"][1].Index != 3 {
		t.Fatalf("samples not ordered by index: %+v", frames["v2"])
	}

	item, err := st.Get(ctx, "v2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.ContentHash != "h2" || item.WordCount != 12 || item.ImageHash == nil || *item.ImageHash != 42 || len(item.AudioHashes) != 1 {
		t.Fatalf("hashes not attached: %+v", item)
	}

	if err := st.AttachHashes(ctx, "v2", content.Hashes{ContentHash: "h3"}); err != nil {
		t.Fatalf("AttachHashes replace: %v", err)
	}
	item, _ = st.Get(ctx, "v2")
	if item.ImageHash != nil || len(item.FrameHashes) != 0 || len(item.AudioHashes) != 0 {
		t.Fatalf("previous hashes not replaced: %+v", item)
	}

	if err := st.AttachHashes(ctx, "missing", content.Hashes{}); !errors.Is(err, content.ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := st.Samples(ctx, "depth", []string{"v1"}); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func TestRemoveAndPrune(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	testsupport.MustInsert(t, st, content.Item{ID: "keep", AuthorID: "bob", Type: content.TypePost, PublishedAt: now.Add(-24 * time.Hour)})
	testsupport.MustInsert(t, st, content.Item{ID: "drop", AuthorID: "bob", Type: content.TypeVideo, PublishedAt: now.Add(-200 * 24 * time.Hour),
		FrameHashes: []content.Sample{{Index: 0, Hash: 1}}})

	if err := st.Remove(ctx, "keep"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := st.Remove(ctx, "nope"); !errors.Is(err, content.ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got, _ := st.FindCandidates(ctx, candidates.Query{ContentType: content.TypePost}); len(got) != 0 {
		t.Fatalf("removed item still a candidate: %+v", got)
	}

	n, err := st.Prune(ctx, now.Add(-90*24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if _, err := st.Get(ctx, "drop"); !errors.Is(err, content.ErrItemNotFound) {
		t.Fatalf("pruned item still present: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.FrameSamples != 0 {
		t.Fatalf("samples not cascaded: %+v", stats)
	}
}

func TestStats(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	testsupport.MustInsert(t, st, content.Item{AuthorID: "a", Type: content.TypePost})
	testsupport.MustInsert(t, st, content.Item{AuthorID: "a", Type: content.TypePost, Protected: true})
	testsupport.MustInsert(t, st, content.Item{AuthorID: "a", Type: content.TypePost, Protected: true, Status: content.StatusRemoved})
	testsupport.MustInsert(t, st, content.Item{AuthorID: "a", Type: content.TypeVideo,
		FrameHashes: []content.Sample{{Index: 0}, {Index: 1}}, AudioHashes: []content.Sample{{Index: 0}}})

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total() != 4 || len(stats.Types) != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	post := stats.Types[0]
	if post.Type != content.TypePost || post.Published != 2 || post.Protected != 1 || post.Removed != 1 {
		t.Fatalf("unexpected post stats: %+v", post)
	}
	if stats.FrameSamples != 2 || stats.AudioSamples != 1 {
		t.Fatalf("unexpected sample counts: %+v", stats)
	}
}
