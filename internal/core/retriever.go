// ABOUTME: Retriever narrows a document to the chunks nearest a query
// ABOUTME: Joins retrieved chunk text in distance order into one context string
package core

import (
	"context"
	"strings"

	"github.com/harper/finreport/internal/models"
)

// DefaultRetrievalSeparator joins retrieved chunks
const DefaultRetrievalSeparator = "\n"

// Retriever embeds queries with the same embedder used to build the index.
// Mixing embedders makes distances meaningless; that is not checked here.
type Retriever struct {
	embedder  Embedder
	separator string
}

// NewRetriever creates a Retriever; an empty separator selects DefaultRetrievalSeparator
func NewRetriever(embedder Embedder, separator string) *Retriever {
	if separator == "" {
		separator = DefaultRetrievalSeparator
	}
	return &Retriever{embedder: embedder, separator: separator}
}

// RetrieveResults embeds query and returns the top-k search results
func (r *Retriever) RetrieveResults(ctx context.Context, idx *VectorIndex, query string, k int) ([]models.SearchResult, error) {
	if idx.Len() == 0 {
		return nil, &RetrievalError{Err: ErrEmptyIndex}
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &EmbeddingError{Order: QueryOrder, Err: err}
	}

	return idx.Search(vector, k)
}

// Retrieve returns the text of the top-k chunks joined in distance order
func (r *Retriever) Retrieve(ctx context.Context, idx *VectorIndex, query string, k int) (string, error) {
	results, err := r.RetrieveResults(ctx, idx, query, k)
	if err != nil {
		return "", err
	}

	return JoinResults(results, r.separator), nil
}

// JoinResults concatenates result chunk text in result order
func JoinResults(results []models.SearchResult, sep string) string {
	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Chunk.Text
	}
	return strings.Join(texts, sep)
}
