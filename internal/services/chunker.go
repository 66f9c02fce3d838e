package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// chunkBuilder accumulates pieces until the next one would overflow, then
// starts a new chunk seeded with the tail of the previous one.
type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
}

func (b *chunkBuilder) add(piece, sep string) {
	if b.current.Len() > 0 && b.current.Len()+len(piece)+len(sep) > b.max {
		prev := b.current.String()
		b.chunks = append(b.chunks, prev)
		b.current.Reset()
		if tail := getLastNChars(prev, b.overlap); tail != "" {
			b.current.WriteString(tail)
			b.current.WriteString(sep)
		}
	} else if b.current.Len() > 0 {
		b.current.WriteString(sep)
	}
	b.current.WriteString(piece)
}

func (b *chunkBuilder) finish() []string {
	if b.current.Len() > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

// ChunkText implements TextChunker. Paragraphs are kept whole when they fit;
// longer ones are split into sentences.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			b.add(sentence, " ")
		}
	}

	return b.finish()
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
