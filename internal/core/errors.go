// ABOUTME: Typed pipeline errors surfaced to callers without retry or downgrade
// ABOUTME: Match with errors.As; each type unwraps to the underlying cause
package core

import (
	"errors"
	"fmt"
)

// QueryOrder is the EmbeddingError order used when the failing text was a query, not a chunk
const QueryOrder = -1

var (
	// ErrDimensionMismatch reports a vector whose length differs from the index dimension
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmptyIndex reports a search against an index with no vectors
	ErrEmptyIndex = errors.New("index is empty or not built")
	// ErrEmptyDocument reports a pipeline run over blank text
	ErrEmptyDocument = errors.New("document has no text")
)

// EmbeddingError reports a failed embedding call or an inconsistent vector
type EmbeddingError struct {
	Order int
	Err   error
}

func (e *EmbeddingError) Error() string {
	if e.Order == QueryOrder {
		return fmt.Sprintf("embedding query: %v", e.Err)
	}
	return fmt.Sprintf("embedding chunk %d: %v", e.Order, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// ExtractionError reports an answer call that failed for a schema field.
// The whole extraction is aborted when one is returned.
type ExtractionError struct {
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting field %q: %v", e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RetrievalError reports a search that could not run
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
