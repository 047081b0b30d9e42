// Package index provides three interchangeable vector-index implementations:
// Exhaustive (exact cosine similarity), KD-Tree (exact, axis-cycling binary
// space partition over squared Euclidean distance), and LSH (approximate
// cosine similarity via random-hyperplane hashing).
//
// All three share one contract (Index), so the service layer can depend on
// the interface without knowing which variant backs it — except for one
// irreducible difference: KD-Tree reports distance (lower is more similar)
// while Exhaustive and LSH report similarity (higher is more similar).
// ScoreIsDistance tells a caller which convention a given instance uses.
//
// Exactly one variant is built per process, selected at startup by a
// configuration token ("brute force", "kd tree", "lsh"); see New. Unknown
// tokens are a ragerr.KindConfig error, which is fatal at startup.
package index

import (
	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/ragerr"
)

// Neighbor is one result of a KNNSearch: a vector id paired with its score.
// Score's meaning depends on the index variant — see ScoreIsDistance.
type Neighbor struct {
	ID    uuid.UUID
	Score float64
}

// Index is the common contract shared by all three vector-index variants.
//
// Implementations must be safe for concurrent Add/Remove/KNNSearch calls.
type Index interface {
	// Add inserts a vector under id. The first successful Add on a fresh
	// index fixes its dimension D; a later Add whose vector length
	// disagrees with D returns a ragerr.KindDimensionMismatch error and the
	// index is left unchanged. Adding an id that already exists overwrites
	// it (last-writer-wins); there is no separate update operation.
	Add(id uuid.UUID, vector []float64) error

	// Remove deletes the vector stored under id. A no-op, returning no
	// error, if id is absent.
	Remove(id uuid.UUID)

	// KNNSearch returns at most k neighbors of query, ordered best-first
	// (see ScoreIsDistance for what "best" means). If the index holds fewer
	// than k vectors, all of them are returned.
	KNNSearch(query []float64, k int) ([]Neighbor, error)

	// ScoreIsDistance reports whether Neighbor.Score is a distance (smaller
	// is more similar, as for KD-Tree) rather than a similarity (larger is
	// more similar, as for Exhaustive and LSH). The service layer uses this
	// to interpret scores without hard-coding a variant.
	ScoreIsDistance() bool

	// Len reports how many vectors are currently indexed.
	Len() int
}

// Kind identifies an Index variant by its startup configuration token.
type Kind string

const (
	KindExhaustive Kind = "brute force"
	KindKDTree     Kind = "kd tree"
	KindLSH        Kind = "lsh"
)

// Options configures variant-specific parameters. Zero-value Options
// produces the defaults (LSHTables=5, LSHBits=10).
type Options struct {
	LSHTables int
	LSHBits   int
}

// New builds the Index variant named by kind. Unknown kinds return a
// ragerr.KindConfig error.
func New(kind Kind, opts Options) (Index, error) {
	switch kind {
	case KindExhaustive:
		return NewExhaustive(), nil
	case KindKDTree:
		return NewKDTree(), nil
	case KindLSH:
		tables, bits := opts.LSHTables, opts.LSHBits
		if tables <= 0 {
			tables = DefaultLSHTables
		}
		if bits <= 0 {
			bits = DefaultLSHBits
		}
		return NewLSH(tables, bits), nil
	default:
		return nil, ragerr.Config("unknown index type: %q", kind)
	}
}
