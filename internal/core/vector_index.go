// ABOUTME: In-memory exact nearest-neighbor index over chunk embeddings
// ABOUTME: Brute-force squared L2 search with ties broken by chunk order
package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/harper/finreport/internal/models"
)

// IndexConfig controls how BuildIndex dispatches embedding calls
type IndexConfig struct {
	// Concurrency bounds parallel embed calls; values below 2 embed sequentially
	Concurrency int
}

// VectorIndex pairs each chunk with exactly one vector of a fixed dimension
type VectorIndex struct {
	chunks  []models.Chunk
	vectors []models.EmbeddingVector
	dim     int
}

// BuildIndex embeds every chunk once and returns the populated index.
// The first chunk's vector fixes the dimension; any failure or mismatch
// returns an *EmbeddingError naming the lowest failing chunk order.
func BuildIndex(ctx context.Context, embedder Embedder, chunks []models.Chunk, cfg IndexConfig) (*VectorIndex, error) {
	vectors := make([]models.EmbeddingVector, len(chunks))

	failed, err := fanOut(ctx, len(chunks), cfg.Concurrency, func(ctx context.Context, i int) error {
		v, err := embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return errors.New("embedder returned an empty vector")
		}
		vectors[i] = slices.Clone(v)
		return nil
	})

	embedded := len(chunks)
	if err != nil {
		embedded = failed
	}

	idx := &VectorIndex{}
	for i, chunk := range chunks[:embedded] {
		if err := idx.add(chunk, vectors[i]); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, &EmbeddingError{Order: chunks[failed].Order, Err: err}
	}
	return idx, nil
}

func (idx *VectorIndex) add(chunk models.Chunk, v models.EmbeddingVector) error {
	if idx.dim == 0 {
		idx.dim = len(v)
	} else if len(v) != idx.dim {
		return &EmbeddingError{
			Order: chunk.Order,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), idx.dim),
		}
	}
	idx.chunks = append(idx.chunks, chunk)
	idx.vectors = append(idx.vectors, v)
	return nil
}

// Len returns the number of stored chunks
func (idx *VectorIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

// Dimension returns the fixed vector dimension, or 0 for an empty index
func (idx *VectorIndex) Dimension() int {
	if idx == nil {
		return 0
	}
	return idx.dim
}

// Chunks returns the stored chunks in insertion order
func (idx *VectorIndex) Chunks() []models.Chunk {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.chunks)
}

// Search returns the k stored chunks closest to query by squared Euclidean
// distance, ascending. k larger than Len is clamped.
func (idx *VectorIndex) Search(query []float32, k int) ([]models.SearchResult, error) {
	if idx.Len() == 0 {
		return nil, &RetrievalError{Err: ErrEmptyIndex}
	}
	if k < 1 {
		return nil, &RetrievalError{Err: fmt.Errorf("k must be positive, got %d", k)}
	}
	if len(query) != idx.dim {
		return nil, &EmbeddingError{
			Order: QueryOrder,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), idx.dim),
		}
	}

	results := make([]models.SearchResult, len(idx.chunks))
	for i, v := range idx.vectors {
		results[i] = models.SearchResult{
			Chunk:    idx.chunks[i],
			Distance: squaredL2(query, v),
		}
	}

	// Stable sort keeps insertion (chunk) order among equal distances
	slices.SortStableFunc(results, func(a, b models.SearchResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return results[:min(k, len(results))], nil
}

// squaredL2 computes the squared Euclidean distance between equal-length vectors
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
