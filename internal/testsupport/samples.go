package testsupport

import (
	"math/bits"
	"math/rand"

	"dupecheck/internal/content"
)

// minSeparation keeps generated hashes well outside any match threshold of
// each other so fixtures never align by accident.
const minSeparation = 24

// SampleGenerator produces mutually distant fingerprint hashes from a fixed
// seed so alignment fixtures are deterministic.
type SampleGenerator struct {
	rng    *rand.Rand
	issued []uint64
}

// NewSampleGenerator seeds a generator.
func NewSampleGenerator(seed int64) *SampleGenerator {
	return &SampleGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Hash returns a hash at least minSeparation bits away from every hash the
// generator issued before.
func (g *SampleGenerator) Hash() content.Hash {
	for {
		candidate := g.rng.Uint64()
		ok := true
		for _, prev := range g.issued {
			if bits.OnesCount64(candidate^prev) < minSeparation {
				ok = false
				break
			}
		}
		if ok {
			g.issued = append(g.issued, candidate)
			return content.Hash(candidate)
		}
	}
}

// Sequence returns n samples indexed from start.
func (g *SampleGenerator) Sequence(start, n int) []content.Sample {
	out := make([]content.Sample, n)
	for i := range out {
		out[i] = content.Sample{Index: start + i, Hash: g.Hash()}
	}
	return out
}

// Embed returns a copy of host with clip's hashes written over the samples
// starting at position at. Indices of host are kept.
func Embed(host, clip []content.Sample, at int) []content.Sample {
	out := append([]content.Sample(nil), host...)
	for i, s := range clip {
		if at+i >= len(out) {
			break
		}
		out[at+i].Hash = s.Hash
	}
	return out
}

// Perturb flips the lowest n bits of every hash in samples.
func Perturb(samples []content.Sample, n int) []content.Sample {
	mask := uint64(1)<<uint(n) - 1
	out := append([]content.Sample(nil), samples...)
	for i := range out {
		out[i].Hash = content.Hash(uint64(out[i].Hash) ^ mask)
	}
	return out
}
