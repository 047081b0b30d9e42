package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Exhaustive(t *testing.T) {
	idx, err := New(KindExhaustive, Options{})
	require.NoError(t, err)
	require.IsType(t, &Exhaustive{}, idx)
}

func TestNew_KDTree(t *testing.T) {
	idx, err := New(KindKDTree, Options{})
	require.NoError(t, err)
	require.IsType(t, &KDTree{}, idx)
}

func TestNew_LSHDefaults(t *testing.T) {
	idx, err := New(KindLSH, Options{})
	require.NoError(t, err)
	lsh, ok := idx.(*LSH)
	require.True(t, ok)
	require.Equal(t, DefaultLSHTables, lsh.tables)
	require.Equal(t, DefaultLSHBits, lsh.bits)
}

func TestNew_LSHExplicitOptions(t *testing.T) {
	idx, err := New(KindLSH, Options{LSHTables: 3, LSHBits: 16})
	require.NoError(t, err)
	lsh, ok := idx.(*LSH)
	require.True(t, ok)
	require.Equal(t, 3, lsh.tables)
	require.Equal(t, 16, lsh.bits)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(Kind("nonsense"), Options{})
	require.Error(t, err)
}
