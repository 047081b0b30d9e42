package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultEmbeddingCacheSize is the default number of embeddings to cache.
const DefaultEmbeddingCacheSize = 1000

// CachedEmbedder wraps an Embedder with LRU caching to avoid recomputing an
// embedding for text it has already seen under the same Kind. Repeated
// queries (a user re-running a search, or a document re-chunked the same
// way) are the common case this saves a round trip for.
type CachedEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float64]
}

// NewCachedEmbedder wraps inner with an LRU cache of cacheSize entries. A
// non-positive cacheSize uses DefaultEmbeddingCacheSize.
func NewCachedEmbedder(inner Embedder, cacheSize int) *CachedEmbedder {
	if cacheSize <= 0 {
		cacheSize = DefaultEmbeddingCacheSize
	}
	cache, _ := lru.New[string, []float64](cacheSize)
	return &CachedEmbedder{inner: inner, cache: cache}
}

// cacheKey hashes text, kind and model together so that a document embedding
// is never served back for a query lookup (or vice versa) and a cache built
// under one model is never reused after a model change.
func (c *CachedEmbedder) cacheKey(text string, kind Kind) string {
	combined := string(kind) + "\x00" + c.inner.Model() + "\x00" + text
	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:])
}

// Embed implements Embedder.
func (c *CachedEmbedder) Embed(ctx context.Context, text string, kind Kind) ([]float64, error) {
	key := c.cacheKey(text, kind)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text, kind)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// EmbedBatch implements Embedder, checking the cache per-text and only
// forwarding the misses to inner.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string, kind Kind) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float64, len(texts))
	missIndices := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vec, ok := c.cache.Get(c.cacheKey(text, kind)); ok {
			results[i] = vec
		} else {
			missIndices = append(missIndices, i)
			missTexts = append(missTexts, text)
		}
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := c.inner.EmbedBatch(ctx, missTexts, kind)
	if err != nil {
		return nil, err
	}

	for j, idx := range missIndices {
		results[idx] = fresh[j]
		c.cache.Add(c.cacheKey(texts[idx], kind), fresh[j])
	}
	return results, nil
}

// Dimensions implements Embedder.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Model implements Embedder.
func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}
