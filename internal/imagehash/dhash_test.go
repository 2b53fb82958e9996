package imagehash_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"dupecheck/internal/content"
	"dupecheck/internal/imagehash"
)

func grayImage(w, h int, fn func(u, v float64) float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := float64(x) / float64(w-1)
			v := float64(y) / float64(h-1)
			val := math.Max(0, math.Min(255, fn(u, v)))
			img.SetGray(x, y, color.Gray{Y: uint8(val)})
		}
	}
	return img
}

func wave(u, v float64) float64 {
	return 128 + 90*math.Sin(3*math.Pi*u+0.4)*math.Cos(2*math.Pi*v)
}

func mustHash(t *testing.T, img image.Image) content.Hash {
	t.Helper()
	h, err := imagehash.DHash(img)
	if err != nil {
		t.Fatalf("DHash: %v", err)
	}
	return h
}

func TestDHashGradientSetsEveryBit(t *testing.T) {
	leftBright := grayImage(180, 160, func(u, _ float64) float64 { return 255 * (1 - u) })
	if got := mustHash(t, leftBright); got != content.Hash(math.MaxUint64) {
		t.Fatalf("expected all bits set, got %v", got)
	}
	rightBright := grayImage(180, 160, func(u, _ float64) float64 { return 255 * u })
	if got := mustHash(t, rightBright); got != 0 {
		t.Fatalf("expected no bits set, got %v", got)
	}
}

func TestDHashToleratesResizeAndBrightness(t *testing.T) {
	original := mustHash(t, grayImage(900, 800, wave))
	resized := mustHash(t, grayImage(300, 267, wave))
	brighter := mustHash(t, grayImage(900, 800, func(u, v float64) float64 { return wave(u, v) + 20 }))

	if d := imagehash.Distance(original, resized); d > 12 {
		t.Fatalf("resized distance = %d, want <= 12", d)
	}
	if d := imagehash.Distance(original, brighter); d > 2 {
		t.Fatalf("brightness distance = %d, want <= 2", d)
	}
}

func TestDHashMirrorIsNotTolerated(t *testing.T) {
	img := grayImage(180, 160, func(u, _ float64) float64 { return 255 * (1 - u) })
	mirrored := grayImage(180, 160, func(u, _ float64) float64 { return 255 * u })
	if d := imagehash.Distance(mustHash(t, img), mustHash(t, mirrored)); d != 64 {
		t.Fatalf("mirrored gradient distance = %d, want 64", d)
	}
}

func TestDecodePNG(t *testing.T) {
	img := grayImage(90, 80, wave)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	decoded, err := imagehash.DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if decoded != mustHash(t, img) {
		t.Fatalf("decoded hash %v differs from direct hash", decoded)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not an image"),
	} {
		_, err := imagehash.DecodeBytes(data)
		if !errors.Is(err, content.ErrHashComputation) {
			t.Fatalf("%s: expected hash computation error, got %v", name, err)
		}
	}
	if _, err := imagehash.DHash(image.NewGray(image.Rect(0, 0, 0, 0))); !errors.Is(err, content.ErrHashComputation) {
		t.Fatalf("expected error for empty image, got %v", err)
	}
}

func TestHammingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := content.Hash(rng.Uint64())
		b := content.Hash(rng.Uint64())
		if imagehash.Distance(a, a) != 0 {
			t.Fatal("distance to self must be 0")
		}
		ab, ba := imagehash.Distance(a, b), imagehash.Distance(b, a)
		if ab != ba {
			t.Fatalf("distance not symmetric: %d vs %d", ab, ba)
		}
		if ab < 0 || ab > 64 {
			t.Fatalf("distance out of range: %d", ab)
		}
	}
}

func TestCompareThreshold(t *testing.T) {
	base := content.Hash(0)
	tests := []struct {
		name     string
		other    content.Hash
		match    bool
		exact    bool
		percent  int
		distance int
	}{
		{"identical", 0, true, true, 100, 0},
		{"twelve bits", content.Hash(1<<12 - 1), true, false, 81, 12},
		{"thirteen bits", content.Hash(1<<13 - 1), false, false, 80, 13},
		{"inverted", content.Hash(math.MaxUint64), false, false, 0, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := imagehash.Compare(base, tt.other, 12)
			if got.Match != tt.match || got.Exact != tt.exact || got.Percent != tt.percent || got.Distance != tt.distance {
				t.Fatalf("Compare = %+v", got)
			}
		})
	}
}
