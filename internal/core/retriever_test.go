// ABOUTME: Tests for query retrieval and context joining
// ABOUTME: Verifies distance-ordered joins, separators and error kinds
package core

import (
	"context"
	"errors"
	"testing"
)

func TestRetrieve_JoinsInDistanceOrder(t *testing.T) {
	vectors := map[string][]float32{
		"doc one":   {5, 0},
		"doc two":   {1, 0},
		"doc three": {3, 0},
		"query":     {0, 0},
	}
	emb := mapEmbedder(vectors)
	idx, err := BuildIndex(context.Background(), emb, makeChunks("doc one", "doc two", "doc three"), IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	r := NewRetriever(emb, "")
	got, err := r.Retrieve(context.Background(), idx, "query", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	want := "doc two\ndoc three"
	if got != want {
		t.Errorf("Retrieve() = %q, want %q", got, want)
	}
}

func TestRetrieve_CustomSeparator(t *testing.T) {
	emb := mapEmbedder(map[string][]float32{"a": {1}, "b": {2}, "q": {0}})
	idx, _ := BuildIndex(context.Background(), emb, makeChunks("a", "b"), IndexConfig{})

	got, err := NewRetriever(emb, " ").Retrieve(context.Background(), idx, "q", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if got != "a b" {
		t.Errorf("Retrieve() = %q, want %q", got, "a b")
	}
}

func TestRetrieve_UnbuiltIndex(t *testing.T) {
	r := NewRetriever(letterEmbedder(), "")

	_, err := r.Retrieve(context.Background(), nil, "revenue", 3)

	var rErr *RetrievalError
	if !errors.As(err, &rErr) {
		t.Fatalf("error = %v, want *RetrievalError", err)
	}
}

func TestRetrieve_QueryEmbedFailure(t *testing.T) {
	idx, _ := BuildIndex(context.Background(), letterEmbedder(), makeChunks("abc"), IndexConfig{})
	boom := errors.New("timeout")
	failing := EmbedFunc(func(context.Context, string) ([]float32, error) { return nil, boom })

	_, err := NewRetriever(failing, "").Retrieve(context.Background(), idx, "q", 1)

	var embErr *EmbeddingError
	if !errors.As(err, &embErr) || embErr.Order != QueryOrder {
		t.Fatalf("error = %v, want query *EmbeddingError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("error should wrap the embedder failure")
	}
}

func TestJoinChunks_DocumentOrder(t *testing.T) {
	got := JoinChunks(makeChunks("alpha", "beta", "gamma"), DefaultDirectSeparator)
	if got != "alpha beta gamma" {
		t.Errorf("JoinChunks() = %q", got)
	}
	if JoinChunks(nil, " ") != "" {
		t.Error("JoinChunks(nil) should be empty")
	}
}
