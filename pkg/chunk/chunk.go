// Package chunk splits document text into ordered, non-empty fragments for
// embedding and indexing.
//
// Two variants are provided, matching the original RAG_backend chunkers:
// fixed-size (consecutive substrings of a bounded length) and sentence
// (split on terminator punctuation). Both are selected at startup by the
// configured type token; an unknown token is a ragerr.KindConfig error.
package chunk

import (
	"regexp"
	"strings"

	"github.com/orneryd/ragdb/pkg/ragerr"
)

// DefaultChunkSize is the fixed chunker's default fragment length, matching
// RAG_backend/chunking/factory.py's `chunk_size or 200`.
const DefaultChunkSize = 200

// Chunker splits text into an ordered list of non-empty fragments.
type Chunker interface {
	Chunk(text string) []string
}

// FixedSizeChunker splits text into consecutive substrings of at most Size
// runes, covering the input with no overlap. The final fragment may be
// shorter.
type FixedSizeChunker struct {
	Size int
}

// NewFixedSizeChunker returns a FixedSizeChunker with the given size, or
// DefaultChunkSize if size <= 0.
func NewFixedSizeChunker(size int) *FixedSizeChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedSizeChunker{Size: size}
}

// Chunk implements Chunker.
func (f *FixedSizeChunker) Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(runes); i += f.Size {
		end := i + f.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// sentenceTerminator matches a period, exclamation mark, or question mark
// followed by whitespace, keeping the terminator with the preceding
// fragment. It does not special-case abbreviations or decimal numbers; that
// is an intentional, documented limitation, not a bug to silently "fix".
var sentenceTerminator = regexp.MustCompile(`(?:[.!?])\s+`)

// SentenceChunker splits text on sentence-terminating punctuation.
type SentenceChunker struct{}

// NewSentenceChunker returns a SentenceChunker.
func NewSentenceChunker() *SentenceChunker {
	return &SentenceChunker{}
}

// Chunk implements Chunker. Leading/trailing whitespace is stripped once
// before splitting.
func (s *SentenceChunker) Chunk(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var chunks []string
	last := 0
	for _, loc := range sentenceTerminator.FindAllStringIndex(trimmed, -1) {
		// loc[1] is the end of the terminator+whitespace match; the
		// terminator character itself is loc[1]-len(whitespace)-1, but since
		// we only need to keep the punctuation with the fragment, we split
		// right after the non-whitespace terminator character.
		cut := strings.LastIndexFunc(trimmed[last:loc[1]], func(r rune) bool {
			return r == '.' || r == '!' || r == '?'
		})
		if cut < 0 {
			continue
		}
		end := last + cut + 1
		chunks = append(chunks, trimmed[last:end])
		last = end
		// Skip the whitespace run that follows the terminator.
		for last < len(trimmed) && isSpace(trimmed[last]) {
			last++
		}
	}
	if last < len(trimmed) {
		chunks = append(chunks, trimmed[last:])
	}
	return chunks
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// Kind identifies a chunker variant by its startup configuration token.
type Kind string

const (
	KindFixed    Kind = "fixed"
	KindSentence Kind = "sentence"
)

// New builds a Chunker from a configuration token. chunkSize is only used by
// the fixed variant (0 means DefaultChunkSize). Unknown tokens return a
// ragerr.KindConfig error, which is fatal at startup.
func New(kind Kind, chunkSize int) (Chunker, error) {
	switch kind {
	case KindFixed:
		return NewFixedSizeChunker(chunkSize), nil
	case KindSentence:
		return NewSentenceChunker(), nil
	default:
		return nil, ragerr.Config("unknown chunker type: %q", kind)
	}
}
