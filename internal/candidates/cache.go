package candidates

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"dupecheck/internal/content"
)

// sampleCost approximates the bytes held per cached sample.
const sampleCost = 16

// SampleCache is a bounded in-process cache of fingerprint sequences keyed by
// kind and item ID. A nil *SampleCache is valid and caches nothing.
type SampleCache struct {
	cache *ristretto.Cache[string, []content.Sample]
}

// NewSampleCache sizes the cache for roughly entries sequences of a few
// hundred samples each. entries <= 0 disables caching and returns nil.
func NewSampleCache(entries int) (*SampleCache, error) {
	if entries <= 0 {
		return nil, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, []content.Sample]{
		NumCounters: int64(entries) * 10,
		MaxCost:     int64(entries) * 512 * sampleCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create sample cache: %w", err)
	}
	return &SampleCache{cache: cache}, nil
}

func cacheKey(kind content.SampleKind, id string) string {
	return string(kind) + ":" + id
}

// Get returns a cached sequence.
func (c *SampleCache) Get(kind content.SampleKind, id string) ([]content.Sample, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(cacheKey(kind, id))
}

// Set stores seq. Empty sequences are never cached so a later attachment is
// always picked up.
func (c *SampleCache) Set(kind content.SampleKind, id string, seq []content.Sample) {
	if c == nil || len(seq) == 0 {
		return
	}
	c.cache.Set(cacheKey(kind, id), seq, int64(len(seq)*sampleCost))
}

// Delete drops a cached sequence.
func (c *SampleCache) Delete(kind content.SampleKind, id string) {
	if c == nil {
		return
	}
	c.cache.Del(cacheKey(kind, id))
}

// Wait blocks until buffered writes are applied.
func (c *SampleCache) Wait() {
	if c == nil {
		return
	}
	c.cache.Wait()
}

// Close releases the cache's goroutines.
func (c *SampleCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
