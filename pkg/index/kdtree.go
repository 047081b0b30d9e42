package index

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/math/vector"
	"github.com/orneryd/ragdb/pkg/ragerr"
)

// kdNode is one node of the binary space partition: it owns exactly one
// (id, vector) pair plus the axis it splits on and its two children. Tree
// ownership is a rooted tree of unique child pointers; the separate vectors
// map below gives non-owning, by-id lookup so Remove can descend by value
// without a full scan.
type kdNode struct {
	id     uuid.UUID
	vector []float64
	axis   int
	left   *kdNode
	right  *kdNode
}

// KDTree is a binary space-partitioning index over D-dimensional Euclidean
// space, cycling the splitting axis as depth mod D. It grows by insertion
// with no rebalancing: pathological insertion orders degrade search toward
// O(N). This is an accepted tradeoff rather than a bug; periodic rebuilds
// via median selection could bound it but aren't implemented here.
type KDTree struct {
	mu        sync.RWMutex
	dimension int
	root      *kdNode
	vectors   map[uuid.UUID][]float64
}

// NewKDTree returns an empty KD-Tree index.
func NewKDTree() *KDTree {
	return &KDTree{vectors: make(map[uuid.UUID][]float64)}
}

// Len implements Index.
func (t *KDTree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.vectors)
}

// ScoreIsDistance implements Index: KD-Tree reports squared Euclidean
// distance, where a smaller score is more similar.
func (t *KDTree) ScoreIsDistance() bool {
	return true
}

// Add implements Index. Re-adding an existing id is modeled as remove then
// insert — overwriting a node in place isn't well-defined once its
// coordinates, and therefore its position in the partition, change.
func (t *KDTree) Add(id uuid.UUID, vec []float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dimension == 0 {
		t.dimension = len(vec)
	} else if len(vec) != t.dimension {
		return ragerr.DimensionMismatch(t.dimension, len(vec))
	}

	if old, ok := t.vectors[id]; ok {
		t.root = removeNode(t.root, id, old)
	}

	stored := make([]float64, len(vec))
	copy(stored, vec)
	t.vectors[id] = stored
	t.root = insertNode(t.root, id, stored, 0, t.dimension)
	return nil
}

func insertNode(node *kdNode, id uuid.UUID, vec []float64, depth, dim int) *kdNode {
	if node == nil {
		return &kdNode{id: id, vector: vec, axis: depth % dim}
	}
	if vec[node.axis] < node.vector[node.axis] {
		node.left = insertNode(node.left, id, vec, depth+1, dim)
	} else {
		node.right = insertNode(node.right, id, vec, depth+1, dim)
	}
	return node
}

// Remove implements Index. A no-op if id is absent.
func (t *KDTree) Remove(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vec, ok := t.vectors[id]
	if !ok {
		return
	}
	delete(t.vectors, id)
	t.root = removeNode(t.root, id, vec)
}

// removeNode implements classical KD-tree deletion: descend to the node
// matching id using the same `<` rule as insertion, then splice it out by
// copying up the minimum of the appropriate subtree along the node's own
// splitting axis.
func removeNode(node *kdNode, id uuid.UUID, targetVec []float64) *kdNode {
	if node == nil {
		return nil
	}

	if node.id == id {
		axis := node.axis
		switch {
		case node.right != nil:
			successor := findMin(node.right, axis)
			// Copy the successor's pair before the recursive removal, which
			// may overwrite that node in place with its own successor.
			succID, succVec := successor.id, successor.vector
			node.right = removeNode(node.right, succID, succVec)
			node.id, node.vector = succID, succVec
		case node.left != nil:
			successor := findMin(node.left, axis)
			succID, succVec := successor.id, successor.vector
			prunedLeft := removeNode(node.left, succID, succVec)
			node.id, node.vector = succID, succVec
			node.right = prunedLeft
			node.left = nil
		default:
			return nil
		}
		return node
	}

	if targetVec[node.axis] < node.vector[node.axis] {
		node.left = removeNode(node.left, id, targetVec)
	} else {
		node.right = removeNode(node.right, id, targetVec)
	}
	return node
}

// findMin returns the node with the minimum coordinate on dim within the
// subtree rooted at node: if node splits on dim, the minimum can only be in
// the left subtree (or be node itself); otherwise it could be in either
// subtree.
func findMin(node *kdNode, dim int) *kdNode {
	if node == nil {
		return nil
	}
	if node.axis == dim {
		if node.left == nil {
			return node
		}
		return findMin(node.left, dim)
	}

	best := node
	if l := findMin(node.left, dim); l != nil && l.vector[dim] < best.vector[dim] {
		best = l
	}
	if r := findMin(node.right, dim); r != nil && r.vector[dim] < best.vector[dim] {
		best = r
	}
	return best
}

// KNNSearch implements Index over squared Euclidean distance, pruning
// subtrees whose splitting hyperplane is farther from the query than the
// current k-th best distance.
func (t *KDTree) KNNSearch(query []float64, k int) ([]Neighbor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if k <= 0 || t.root == nil {
		return nil, nil
	}

	h := make(distanceMaxHeap, 0, k)
	heap.Init(&h)
	searchKD(t.root, query, k, &h)
	return sortAscending(h), nil
}

func searchKD(node *kdNode, query []float64, k int, h *distanceMaxHeap) {
	if node == nil {
		return
	}

	d2 := vector.SquaredEuclideanDistance(node.vector, query)
	if h.Len() < k {
		heap.Push(h, Neighbor{ID: node.id, Score: d2})
	} else if d2 < (*h)[0].Score {
		heap.Pop(h)
		heap.Push(h, Neighbor{ID: node.id, Score: d2})
	}

	diff := query[node.axis] - node.vector[node.axis]
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}

	searchKD(near, query, k, h)
	if h.Len() < k || diff*diff < (*h)[0].Score {
		searchKD(far, query, k, h)
	}
}

// distanceMaxHeap is a container/heap max-heap over Neighbor.Score, used to
// keep the k smallest-distance candidates seen so far: the largest of the
// current top-k sits at the root and is evicted first.
type distanceMaxHeap []Neighbor

func (h distanceMaxHeap) Len() int           { return len(h) }
func (h distanceMaxHeap) Less(i, j int) bool { return h[i].Score > h[j].Score }
func (h distanceMaxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *distanceMaxHeap) Push(x any)        { *h = append(*h, x.(Neighbor)) }
func (h *distanceMaxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sortAscending drains a max-heap into a slice ordered smallest-distance-first.
func sortAscending(h distanceMaxHeap) []Neighbor {
	out := make([]Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(Neighbor)
	}
	return out
}
