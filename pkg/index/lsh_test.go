package index

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLSH_ExactMatchIsAlwaysFound(t *testing.T) {
	idx := NewLSH(DefaultLSHTables, DefaultLSHBits)
	a := uuid.New()
	require.NoError(t, idx.Add(a, []float64{1, 0, 0}))

	results, err := idx.KNNSearch([]float64{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, a, results[0].ID)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestLSH_RemoveRemovesFromEveryTable(t *testing.T) {
	idx := NewLSH(3, 4)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, idx.Add(a, []float64{1, 0, 0}))
	require.NoError(t, idx.Add(b, []float64{0, 1, 0}))

	idx.Remove(a)
	require.Equal(t, 1, idx.Len())

	for _, bucket := range idx.buckets {
		for _, ids := range bucket {
			for _, id := range ids {
				require.NotEqual(t, a, id)
			}
		}
	}
}

func TestLSH_DimensionMismatch(t *testing.T) {
	idx := NewLSH(DefaultLSHTables, DefaultLSHBits)
	require.NoError(t, idx.Add(uuid.New(), []float64{1, 0, 0}))
	err := idx.Add(uuid.New(), []float64{1, 0})
	require.Error(t, err)
}

func TestLSH_IdempotentRemove(t *testing.T) {
	idx := NewLSH(DefaultLSHTables, DefaultLSHBits)
	id := uuid.New()
	idx.Remove(id)
	idx.Remove(id)
	require.Equal(t, 0, idx.Len())
}

func TestLSH_ReAddRebucketsByNewValue(t *testing.T) {
	idx := NewLSH(3, 6)
	id := uuid.New()
	require.NoError(t, idx.Add(id, []float64{1, 0, 0}))
	require.NoError(t, idx.Add(id, []float64{0, 0, 1}))
	require.Equal(t, 1, idx.Len())

	results, err := idx.KNNSearch([]float64{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, id, results[0].ID)
}

func TestLSH_ScoreIsDistance(t *testing.T) {
	require.False(t, NewLSH(DefaultLSHTables, DefaultLSHBits).ScoreIsDistance())
}

func TestLSH_EmptyIndexReturnsNoResults(t *testing.T) {
	idx := NewLSH(DefaultLSHTables, DefaultLSHBits)
	results, err := idx.KNNSearch([]float64{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Nil(t, results)
}

// TestLSH_RecallAgainstExhaustive checks that for a modest, well-separated
// point cloud, LSH returns a non-empty result that shares at least one id
// with the true top-k an Exhaustive scan finds; recall is probabilistic, so
// no higher overlap is asserted. This guards against the candidate set
// collapsing to empty or to unrelated vectors.
func TestLSH_RecallAgainstExhaustive(t *testing.T) {
	lsh := NewLSH(8, 12)
	exact := NewExhaustive()

	clusters := [][]float64{
		{10, 0, 0}, {0, 10, 0}, {0, 0, 10}, {-10, 0, 0}, {0, -10, 0},
	}
	var ids []uuid.UUID
	for _, center := range clusters {
		for j := 0; j < 10; j++ {
			id := uuid.New()
			vec := []float64{center[0] + float64(j)*0.01, center[1] + float64(j)*0.01, center[2]}
			require.NoError(t, lsh.Add(id, vec))
			require.NoError(t, exact.Add(id, vec))
			ids = append(ids, id)
		}
	}

	query := []float64{10, 0.05, 0}
	exactResults, err := exact.KNNSearch(query, 5)
	require.NoError(t, err)

	approxResults, err := lsh.KNNSearch(query, 5)
	require.NoError(t, err)
	require.NotEmpty(t, approxResults)

	exactSet := make(map[uuid.UUID]struct{}, len(exactResults))
	for _, n := range exactResults {
		exactSet[n.ID] = struct{}{}
	}
	overlap := 0
	for _, n := range approxResults {
		if _, ok := exactSet[n.ID]; ok {
			overlap++
		}
	}
	require.GreaterOrEqual(t, overlap, 1)
}
