package embed

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// MockEmbedder produces deterministic, content-derived vectors without any
// network dependency: the same text and Kind always hash to the same
// pseudo-random vector of independent standard-normal components (not
// normalized to unit length). It exists for local development and tests
// where exercising a real provider isn't the point, so Dimensions and Model
// behave like a real Embedder but no HTTP request is ever made.
type MockEmbedder struct {
	dimensions int
	model      string
}

// NewMockEmbedder returns a MockEmbedder producing vectors of the given
// dimension.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 32
	}
	return &MockEmbedder{dimensions: dimensions, model: "mock-deterministic"}
}

// Embed implements Embedder.
func (m *MockEmbedder) Embed(_ context.Context, text string, kind Kind) ([]float64, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(string(kind) + "\x00" + text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, m.dimensions)
	for i := range vec {
		vec[i] = rng.NormFloat64()
	}
	return vec, nil
}

// EmbedBatch implements Embedder.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string, kind Kind) ([][]float64, error) {
	results := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text, kind)
		if err != nil {
			return nil, err
		}
		results[i] = vec
	}
	return results, nil
}

// Dimensions implements Embedder.
func (m *MockEmbedder) Dimensions() int {
	return m.dimensions
}

// Model implements Embedder.
func (m *MockEmbedder) Model() string {
	return m.model
}
