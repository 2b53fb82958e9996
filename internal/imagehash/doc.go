// Package imagehash computes 64-bit difference hashes (dHash) for raster
// images and compares them by Hamming distance.
//
// The source image is resampled to a 9×8 grayscale grid; each of the 8 rows
// contributes 8 bits, bit row*8+col being set when the left pixel of a pair
// is strictly brighter than its right neighbour. The hash tolerates resizing,
// recompression and uniform colour or brightness shifts. It is NOT invariant
// to crops, overlays, rotation or mirroring; a mirrored image inverts most
// bits.
//
// JPEG, PNG, GIF and WebP inputs are decoded. Decode failures are reported as
// content.HashComputationError so callers can fail open.
package imagehash
