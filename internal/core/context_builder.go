// ABOUTME: Builds the full-text extraction context for direct mode
// ABOUTME: Joins every chunk in document order without retrieval
package core

import (
	"strings"

	"github.com/harper/finreport/internal/models"
)

// DefaultDirectSeparator joins chunks in direct mode
const DefaultDirectSeparator = " "

// JoinChunks concatenates chunk text in document order with sep between chunks.
// Overlapping content is repeated, matching what a retrieval context would hold.
func JoinChunks(chunks []models.Chunk, sep string) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, sep)
}
