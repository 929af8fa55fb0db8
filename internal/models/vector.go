// ABOUTME: Embedding vector and nearest-neighbor search result types
// ABOUTME: Vectors are owned by the index and never mutated after insertion
package models

// EmbeddingVector is a fixed-length numeric representation of a chunk
type EmbeddingVector []float32

// SearchResult pairs a stored chunk with its squared L2 distance to a query
type SearchResult struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"`
}
