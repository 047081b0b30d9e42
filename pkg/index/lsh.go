package index

import (
	"container/heap"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/math/vector"
	"github.com/orneryd/ragdb/pkg/ragerr"
)

// DefaultLSHTables and DefaultLSHBits are the T (number of hash tables) and
// H (bits per table) used when an LSH index is configured without explicit
// values.
const (
	DefaultLSHTables = 5
	DefaultLSHBits   = 10
)

// LSH is an approximate nearest-neighbor index using random-hyperplane
// locality-sensitive hashing: each of T tables hashes a vector to an H-bit
// code by the sign of its dot product against H fixed random hyperplanes,
// and KNNSearch only scores vectors sharing a bucket with the query in at
// least one table (the "bucket union" candidate set). This trades recall
// for sublinear lookups; it may miss true neighbors that land in a
// different bucket in every table.
type LSH struct {
	mu sync.RWMutex

	dimension int
	tables    int
	bits      int

	// hyperplanes[t][b] is the b-th random hyperplane of table t, frozen the
	// first time a vector fixes the index's dimension, so every vector added
	// afterward hashes against the same planes.
	hyperplanes [][][]float64

	// buckets[t] maps a hash code to the ids that hashed to it in table t.
	buckets []map[string][]uuid.UUID

	vectors map[uuid.UUID][]float64
}

// NewLSH returns an empty LSH index with tables hash tables of bits bits
// each.
func NewLSH(tables, bits int) *LSH {
	buckets := make([]map[string][]uuid.UUID, tables)
	for i := range buckets {
		buckets[i] = make(map[string][]uuid.UUID)
	}
	return &LSH{
		tables:  tables,
		bits:    bits,
		buckets: buckets,
		vectors: make(map[uuid.UUID][]float64),
	}
}

// Len implements Index.
func (l *LSH) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.vectors)
}

// ScoreIsDistance implements Index: LSH reports cosine similarity, where a
// larger score is more similar.
func (l *LSH) ScoreIsDistance() bool {
	return false
}

// Add implements Index. Re-adding an existing id first removes its old
// bucket entries so stale hashes don't linger.
func (l *LSH) Add(id uuid.UUID, vec []float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dimension == 0 {
		l.dimension = len(vec)
		l.hyperplanes = randomHyperplanes(l.tables, l.bits, l.dimension)
	} else if len(vec) != l.dimension {
		return ragerr.DimensionMismatch(l.dimension, len(vec))
	}

	if old, ok := l.vectors[id]; ok {
		l.unbucket(id, old)
	}

	stored := make([]float64, len(vec))
	copy(stored, vec)
	l.vectors[id] = stored
	l.bucket(id, stored)
	return nil
}

// Remove implements Index.
func (l *LSH) Remove(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vec, ok := l.vectors[id]
	if !ok {
		return
	}
	l.unbucket(id, vec)
	delete(l.vectors, id)
}

func (l *LSH) bucket(id uuid.UUID, vec []float64) {
	for t := 0; t < l.tables; t++ {
		code := hashCode(l.hyperplanes[t], vec)
		l.buckets[t][code] = append(l.buckets[t][code], id)
	}
}

func (l *LSH) unbucket(id uuid.UUID, vec []float64) {
	for t := 0; t < l.tables; t++ {
		code := hashCode(l.hyperplanes[t], vec)
		bucket := l.buckets[t][code]
		for i, existing := range bucket {
			if existing == id {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(bucket) == 0 {
			delete(l.buckets[t], code)
		} else {
			l.buckets[t][code] = bucket
		}
	}
}

// KNNSearch implements Index. It unions the buckets the query falls into
// across all tables, scores only that candidate set by guarded cosine
// similarity, and returns the top k. A query that shares no bucket with any
// indexed vector in any table returns an empty, non-error result — LSH is
// allowed to miss.
func (l *LSH) KNNSearch(query []float64, k int) ([]Neighbor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if k <= 0 || len(l.vectors) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{})
	for t := 0; t < l.tables; t++ {
		code := hashCode(l.hyperplanes[t], query)
		for _, id := range l.buckets[t][code] {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	h := make(similarityMinHeap, 0, k)
	heap.Init(&h)
	for id := range seen {
		sim := vector.GuardedCosineSimilarity(l.vectors[id], query)
		if h.Len() < k {
			heap.Push(&h, Neighbor{ID: id, Score: sim})
		} else if sim > h[0].Score {
			heap.Pop(&h)
			heap.Push(&h, Neighbor{ID: id, Score: sim})
		}
	}

	return sortDescending(h), nil
}

// randomHyperplanes draws tables*bits random hyperplanes in R^dimension,
// each component an independent standard-normal sample — the standard
// construction for sign-random-projection LSH, since a hyperplane normal
// drawn this way is uniformly distributed in direction.
func randomHyperplanes(tables, bits, dimension int) [][][]float64 {
	planes := make([][][]float64, tables)
	for t := 0; t < tables; t++ {
		planes[t] = make([][]float64, bits)
		for b := 0; b < bits; b++ {
			plane := make([]float64, dimension)
			for d := 0; d < dimension; d++ {
				plane[d] = rand.NormFloat64()
			}
			planes[t][b] = plane
		}
	}
	return planes
}

// hashCode projects vec against each hyperplane in planes and encodes the
// sign of each dot product as one bit, most significant first.
func hashCode(planes [][]float64, vec []float64) string {
	var sb strings.Builder
	sb.Grow(len(planes))
	for _, plane := range planes {
		if vector.DotProductFloat64(plane, vec) >= 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
