package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/interview-copilot/internal/interview"
)

const (
	transcriptChunkSize    = 1200
	transcriptChunkOverlap = 150
	documentChunkSize      = 1000
	documentChunkOverlap   = 200
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
	ChunkTranscript(entries []interview.TranscriptEntry, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text on paragraphs, falling back to sentences for oversized
// paragraphs. Consecutive chunks share overlap trailing runes.
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

// ChunkTranscript renders each entry as a "speaker: message" paragraph and chunks the result.
func (tc *textChunker) ChunkTranscript(entries []interview.TranscriptEntry, maxChunkSize int, overlap int) []string {
	paragraphs := make([]string, 0, len(entries))
	for _, e := range entries {
		paragraphs = append(paragraphs, fmt.Sprintf("%s (%s): %s", e.Speaker, e.Type, e.Message))
	}
	return tc.ChunkText(strings.Join(paragraphs, "\n\n"), maxChunkSize, overlap)
}

type chunkBuilder struct {
	max     int
	overlap int
	current strings.Builder
	chunks  []string
}

func (b *chunkBuilder) add(piece, sep string) {
	if b.current.Len() > 0 && b.current.Len()+len(piece)+len(sep) > b.max {
		prev := b.current.String()
		b.chunks = append(b.chunks, prev)
		b.current.Reset()

		if tail := getLastNChars(prev, b.overlap); tail != "" {
			b.current.WriteString(tail)
		}
	}

	if b.current.Len() > 0 {
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
