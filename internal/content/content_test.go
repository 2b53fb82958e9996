package content_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"dupecheck/internal/content"
)

func TestHashTextRoundTrip(t *testing.T) {
	h := content.Hash(0x00ff00ff00ff00ff)
	data, err := json.Marshal(struct {
		H content.Hash `json:"h"`
	}{h})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"h":"00ff00ff00ff00ff"}` {
		t.Fatalf("unexpected encoding %s", data)
	}
	var decoded struct {
		H content.Hash `json:"h"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.H != h {
		t.Fatalf("got %v want %v", decoded.H, h)
	}
}

func TestParseHashRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "zz", "0x"} {
		if _, err := content.ParseHash(input); err == nil {
			t.Errorf("ParseHash(%q) expected error", input)
		}
	}
	if h, err := content.ParseHash("0xFF"); err != nil || h != 0xff {
		t.Fatalf("ParseHash(0xFF) = %v, %v", h, err)
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		input string
		want  content.ContentType
		ok    bool
	}{
		{"post", content.TypePost, true},
		{" Video ", content.TypeVideo, true},
		{"moment", content.TypeClip, true},
		{"clip", content.TypeClip, true},
		{"podcast", "", false},
	}
	for _, tt := range tests {
		got, err := content.ParseContentType(tt.input)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseContentType(%q) err = %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseContentType(%q) = %q want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateSamples(t *testing.T) {
	ok := []content.Sample{{Index: 0}, {Index: 1}, {Index: 5}}
	if err := content.ValidateSamples(content.SampleFrame, ok); err != nil {
		t.Fatalf("expected valid sequence, got %v", err)
	}
	for name, bad := range map[string][]content.Sample{
		"duplicate":  {{Index: 1}, {Index: 1}},
		"decreasing": {{Index: 3}, {Index: 2}},
	} {
		err := content.ValidateSamples(content.SampleAudio, bad)
		if !errors.Is(err, content.ErrHashComputation) {
			t.Fatalf("%s: expected hash computation error, got %v", name, err)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("candidates: %w", content.Retrieval("find candidates", cause))
	if !errors.Is(err, content.ErrRetrieval) || !errors.Is(err, cause) {
		t.Fatalf("retrieval error lost its markers: %v", err)
	}
	if kind := content.ErrorKind(err); kind != "retrieval" {
		t.Fatalf("ErrorKind = %q", kind)
	}
	if content.Retrieval("noop", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}

	hashErr := content.HashComputation("thumbnail", cause)
	if !errors.Is(hashErr, content.ErrHashComputation) {
		t.Fatalf("expected hash computation marker: %v", hashErr)
	}
	if kind := content.ErrorKind(hashErr); kind != "hash_computation" {
		t.Fatalf("ErrorKind = %q", kind)
	}
	if kind := content.ErrorKind(content.ErrInputTooShort); kind != "input_too_short" {
		t.Fatalf("ErrorKind = %q", kind)
	}
	if kind := content.ErrorKind(cause); kind != "internal" {
		t.Fatalf("ErrorKind = %q", kind)
	}
}

func TestStrongestPrefersHigherSimilarityThenCopyright(t *testing.T) {
	dup := content.Verdict{Flagged: true, SimilarityPercent: 92, Category: content.CategoryDuplicate}
	copyright := content.Verdict{Flagged: true, SimilarityPercent: 92, Category: content.CategoryCopyright}
	weaker := content.Verdict{Flagged: true, SimilarityPercent: 81, Category: content.CategoryCopyright}

	got := content.Strongest("clean", weaker, dup, copyright)
	if got.Category != content.CategoryCopyright || got.SimilarityPercent != 92 {
		t.Fatalf("unexpected strongest verdict: %+v", got)
	}

	got = content.Strongest("clean", content.Neutral("a"), content.Neutral("b"))
	if got.Flagged || got.Reason != "clean" {
		t.Fatalf("expected fallback neutral verdict, got %+v", got)
	}

	unflaggedHigh := content.Verdict{SimilarityPercent: 99}
	if unflaggedHigh.Stronger(weaker) {
		t.Fatal("unflagged verdict must never beat a flagged one")
	}
}
