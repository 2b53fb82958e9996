package imagehash

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"math/bits"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"dupecheck/internal/content"
)

const (
	gridWidth  = 9
	gridHeight = 8
	// HashBits is the width of a dHash.
	HashBits = 64
)

var errEmptyImage = errors.New("image has no pixels")

// DHash computes the difference hash of img.
func DHash(img image.Image) (content.Hash, error) {
	if img == nil {
		return 0, content.HashComputation("image", errEmptyImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, content.HashComputation("image", errEmptyImage)
	}

	grid := image.NewGray(image.Rect(0, 0, gridWidth, gridHeight))
	draw.BiLinear.Scale(grid, grid.Bounds(), img, bounds, draw.Src, nil)

	var hash uint64
	for row := 0; row < gridHeight; row++ {
		for col := 0; col < gridWidth-1; col++ {
			left := grid.GrayAt(col, row).Y
			right := grid.GrayAt(col+1, row).Y
			if left > right {
				hash |= 1 << uint(row*8+col)
			}
		}
	}
	return content.Hash(hash), nil
}

// Decode reads an encoded image and returns its difference hash.
func Decode(r io.Reader) (content.Hash, error) {
	if r == nil {
		return 0, content.HashComputation("image", errEmptyImage)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return 0, content.HashComputation("image", fmt.Errorf("decode: %w", err))
	}
	hash, err := DHash(img)
	if err != nil {
		return 0, content.HashComputation(format+" image", err)
	}
	return hash, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (content.Hash, error) {
	if len(data) == 0 {
		return 0, content.HashComputation("image", errEmptyImage)
	}
	return Decode(bytes.NewReader(data))
}

// Distance counts differing bits between a and b; the result is in [0, 64].
func Distance(a, b content.Hash) int {
	return bits.OnesCount64(uint64(a) ^ uint64(b))
}

// Similarity converts a Hamming distance into a whole percent.
func Similarity(distance int) int {
	distance = min(max(distance, 0), HashBits)
	return int(math.Round((1 - float64(distance)/HashBits) * 100))
}

// Comparison is the result of comparing two hashes under a threshold.
type Comparison struct {
	Distance int
	Percent  int
	Match    bool
	Exact    bool
}

// Compare evaluates a against b, matching when the distance is at most
// threshold.
func Compare(a, b content.Hash, threshold int) Comparison {
	d := Distance(a, b)
	return Comparison{
		Distance: d,
		Percent:  Similarity(d),
		Match:    d <= threshold,
		Exact:    d == 0,
	}
}
