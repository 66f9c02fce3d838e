package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsShortParagraphsTogether(t *testing.T) {
	chunks := NewTextChunker().ChunkText("First paragraph.\n\nSecond paragraph.", 100, 10)
	assert.Equal(t, []string{"First paragraph.\n\nSecond paragraph."}, chunks)
}

func TestChunkTextSplitsWithOverlap(t *testing.T) {
	para := strings.Repeat("a", 60)
	text := para + "\n\n" + strings.Repeat("b", 60)

	chunks := NewTextChunker().ChunkText(text, 100, 10)
	require.Len(t, chunks, 2)
	assert.Equal(t, para, chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], strings.Repeat("a", 10)+"\n\n"))
	assert.True(t, strings.HasSuffix(chunks[1], strings.Repeat("b", 60)))
}

func TestChunkTextSplitsLongParagraphIntoSentences(t *testing.T) {
	sentence := strings.Repeat("word ", 10)
	text := strings.Repeat(sentence+". ", 10)

	chunks := NewTextChunker().ChunkText(text, 120, 0)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 120)
	}
}

func TestChunkTextDefaults(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("  \n\n  ", 0, -1))
	assert.Equal(t, "", getLastNChars("abc", 0))
	assert.Equal(t, "bc", getLastNChars("abc", 2))
}
