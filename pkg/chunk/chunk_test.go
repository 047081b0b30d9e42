package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedSizeChunker(t *testing.T) {
	c := NewFixedSizeChunker(5)
	got := c.Chunk("abcdefghijklm")
	require.Equal(t, []string{"abcde", "fghij", "klm"}, got)
}

func TestFixedSizeChunkerDefaultsSize(t *testing.T) {
	c := NewFixedSizeChunker(0)
	require.Equal(t, DefaultChunkSize, c.Size)
}

func TestFixedSizeChunkerEmptyInput(t *testing.T) {
	c := NewFixedSizeChunker(10)
	require.Nil(t, c.Chunk(""))
}

func TestFixedSizeChunkerCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 437)
	c := NewFixedSizeChunker(50)
	got := c.Chunk(text)
	var rebuilt strings.Builder
	for _, frag := range got {
		rebuilt.WriteString(frag)
	}
	require.Equal(t, text, rebuilt.String())
	require.Len(t, got, 9) // 8 full chunks of 50 + 1 of 37
}

func TestSentenceChunkerSplitsOnTerminatorPunctuation(t *testing.T) {
	c := NewSentenceChunker()
	got := c.Chunk("One. Two. Three.")
	require.Equal(t, []string{"One.", "Two.", "Three."}, got)
}

func TestSentenceChunkerMixedTerminators(t *testing.T) {
	c := NewSentenceChunker()
	got := c.Chunk("Is this real? Yes! It is.")
	require.Equal(t, []string{"Is this real?", "Yes!", "It is."}, got)
}

func TestSentenceChunkerTrimsOnce(t *testing.T) {
	c := NewSentenceChunker()
	got := c.Chunk("  Hello there.  ")
	require.Equal(t, []string{"Hello there."}, got)
}

func TestSentenceChunkerEmptyInput(t *testing.T) {
	c := NewSentenceChunker()
	require.Nil(t, c.Chunk("   "))
}

func TestSentenceChunkerNoTerminator(t *testing.T) {
	c := NewSentenceChunker()
	got := c.Chunk("no terminator here")
	require.Equal(t, []string{"no terminator here"}, got)
}

func TestNewChunkerFactory(t *testing.T) {
	fixed, err := New(KindFixed, 10)
	require.NoError(t, err)
	require.IsType(t, &FixedSizeChunker{}, fixed)

	sentence, err := New(KindSentence, 0)
	require.NoError(t, err)
	require.IsType(t, &SentenceChunker{}, sentence)

	_, err = New("unknown", 0)
	require.Error(t, err)
}
