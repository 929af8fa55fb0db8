// ABOUTME: ChunkEngine splits document text into overlapping fixed-size windows
// ABOUTME: Windows are measured in runes and emitted lazily in document order
package core

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/harper/finreport/internal/models"
)

// ChunkEngine produces overlapping windows of Size runes, each starting
// Size-Overlap runes after the previous one
type ChunkEngine struct {
	Size    int
	Overlap int
}

// NewChunkEngine creates a ChunkEngine after validating size > 0 and 0 <= overlap < size
func NewChunkEngine(size, overlap int) (*ChunkEngine, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &ChunkEngine{Size: size, Overlap: overlap}, nil
}

// Chunks returns a lazy sequence of windows over text. Text no longer than
// Size yields exactly one chunk holding the whole text, even when empty.
func (ce *ChunkEngine) Chunks(text string) iter.Seq[models.Chunk] {
	return func(yield func(models.Chunk) bool) {
		runes := []rune(text)
		step := ce.Size - ce.Overlap
		order := 0
		for start := 0; ; start += step {
			end := min(start+ce.Size, len(runes))
			if !yield(models.Chunk{Text: string(runes[start:end]), Order: order}) {
				return
			}
			if end == len(runes) {
				return
			}
			order++
		}
	}
}

// ChunkText collects every window of text
func (ce *ChunkEngine) ChunkText(text string) []models.Chunk {
	return slices.Collect(ce.Chunks(text))
}

// Reassemble rebuilds the original text by dropping the leading overlap of
// every chunk after the first
func Reassemble(chunks []models.Chunk, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Text)
			continue
		}
		text := c.Text
		for n := 0; n < overlap && text != ""; n++ {
			_, size := utf8.DecodeRuneInString(text)
			text = text[size:]
		}
		b.WriteString(text)
	}
	return b.String()
}
