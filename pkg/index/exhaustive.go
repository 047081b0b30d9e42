package index

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/math/vector"
	"github.com/orneryd/ragdb/pkg/ragerr"
)

// Exhaustive stores (id, vector) pairs in a map and answers KNNSearch by
// scanning every entry, scoring with guarded cosine similarity. It is exact:
// the ids it returns are always the true top-k by similarity. Complexity is
// O(1) for Add/Remove and O(N·D) per query, where N is the number of
// indexed vectors and D their dimension.
//
// Thread-safe via a single RWMutex: Add/Remove take the write lock,
// KNNSearch takes the read lock (concurrent searches don't block each
// other).
type Exhaustive struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[uuid.UUID][]float64
}

// NewExhaustive returns an empty Exhaustive index. Its dimension is fixed by
// the first successful Add.
func NewExhaustive() *Exhaustive {
	return &Exhaustive{vectors: make(map[uuid.UUID][]float64)}
}

// Add implements Index.
func (e *Exhaustive) Add(id uuid.UUID, vec []float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dimension == 0 {
		e.dimension = len(vec)
	} else if len(vec) != e.dimension {
		return ragerr.DimensionMismatch(e.dimension, len(vec))
	}

	stored := make([]float64, len(vec))
	copy(stored, vec)
	e.vectors[id] = stored
	return nil
}

// Remove implements Index.
func (e *Exhaustive) Remove(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.vectors, id)
}

// Len implements Index.
func (e *Exhaustive) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vectors)
}

// ScoreIsDistance implements Index: Exhaustive reports cosine similarity,
// where a larger score is more similar.
func (e *Exhaustive) ScoreIsDistance() bool {
	return false
}

// KNNSearch implements Index using a size-k min-heap keyed by similarity, so
// that only the k best candidates are retained while scanning all N entries.
func (e *Exhaustive) KNNSearch(query []float64, k int) ([]Neighbor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if k <= 0 || len(e.vectors) == 0 {
		return nil, nil
	}

	h := make(similarityMinHeap, 0, k)
	heap.Init(&h)
	for id, vec := range e.vectors {
		sim := vector.GuardedCosineSimilarity(vec, query)
		if h.Len() < k {
			heap.Push(&h, Neighbor{ID: id, Score: sim})
		} else if sim > h[0].Score {
			heap.Pop(&h)
			heap.Push(&h, Neighbor{ID: id, Score: sim})
		}
	}

	return sortDescending(h), nil
}

// similarityMinHeap is a container/heap min-heap over Neighbor.Score, used to
// keep the k highest-similarity candidates seen so far: the smallest of the
// current top-k sits at the root and is evicted first.
type similarityMinHeap []Neighbor

func (h similarityMinHeap) Len() int            { return len(h) }
func (h similarityMinHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h similarityMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *similarityMinHeap) Push(x any)         { *h = append(*h, x.(Neighbor)) }
func (h *similarityMinHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sortDescending drains a min-heap into a slice ordered largest-score-first.
func sortDescending(h similarityMinHeap) []Neighbor {
	out := make([]Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(Neighbor)
	}
	return out
}
