// ABOUTME: Tests for the exact squared-L2 vector index
// ABOUTME: Verifies build errors, ordering, tie-breaking, clamping and concurrency
package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBuildIndex_EmbedsEachChunkOnce(t *testing.T) {
	emb := &countingEmbedder{inner: letterEmbedder()}
	chunks := makeChunks("revenue", "expenses", "profit")

	idx, err := BuildIndex(context.Background(), emb, chunks, IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	if len(emb.calls) != 3 {
		t.Errorf("embed calls = %d, want 3", len(emb.calls))
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	if idx.Dimension() != 26 {
		t.Errorf("Dimension() = %d, want 26", idx.Dimension())
	}
}

func TestBuildIndex_DimensionMismatch(t *testing.T) {
	emb := mapEmbedder(map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 1},
	})

	_, err := BuildIndex(context.Background(), emb, makeChunks("a", "b", "c"), IndexConfig{})
	if err == nil {
		t.Fatal("BuildIndex() error = nil, want dimension mismatch")
	}

	var embErr *EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("error type = %T, want *EmbeddingError", err)
	}
	if embErr.Order != 2 {
		t.Errorf("Order = %d, want 2", embErr.Order)
	}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("error should wrap ErrDimensionMismatch")
	}
}

func TestBuildIndex_EmbedFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	emb := EmbedFunc(func(_ context.Context, text string) ([]float32, error) {
		if text == "bad" {
			return nil, boom
		}
		return []float32{1}, nil
	})

	_, err := BuildIndex(context.Background(), emb, makeChunks("ok", "bad", "ok2"), IndexConfig{})

	var embErr *EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("error type = %T, want *EmbeddingError", err)
	}
	if embErr.Order != 1 {
		t.Errorf("Order = %d, want 1", embErr.Order)
	}
	if !errors.Is(err, boom) {
		t.Error("error should wrap the embedder failure")
	}
}

func TestBuildIndex_EmptyVectorRejected(t *testing.T) {
	emb := mapEmbedder(map[string][]float32{"a": {}})

	_, err := BuildIndex(context.Background(), emb, makeChunks("a"), IndexConfig{})

	var embErr *EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("error type = %T, want *EmbeddingError", err)
	}
}

func TestBuildIndex_ConcurrentMatchesSequential(t *testing.T) {
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d revenue %s", i, string(rune('a'+i)))
	}
	chunks := makeChunks(texts...)
	query, _ := letterEmbedder()(context.Background(), "revenue k")

	seq, err := BuildIndex(context.Background(), letterEmbedder(), chunks, IndexConfig{Concurrency: 1})
	if err != nil {
		t.Fatalf("sequential BuildIndex() error = %v", err)
	}
	par, err := BuildIndex(context.Background(), letterEmbedder(), chunks, IndexConfig{Concurrency: 8})
	if err != nil {
		t.Fatalf("concurrent BuildIndex() error = %v", err)
	}

	a, _ := seq.Search(query, 25)
	b, _ := par.Search(query, 25)
	for i := range a {
		if a[i].Chunk.Order != b[i].Chunk.Order || a[i].Distance != b[i].Distance {
			t.Errorf("result %d differs: sequential %+v, concurrent %+v", i, a[i], b[i])
		}
	}
}

func TestBuildIndex_ConcurrentReportsLowestFailingOrder(t *testing.T) {
	emb := EmbedFunc(func(_ context.Context, text string) ([]float32, error) {
		if text == "fail-5" || text == "fail-12" {
			return nil, errors.New(text)
		}
		return []float32{1, 2}, nil
	})
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("ok-%d", i)
	}
	texts[5] = "fail-5"
	texts[12] = "fail-12"

	for run := 0; run < 5; run++ {
		_, err := BuildIndex(context.Background(), emb, makeChunks(texts...), IndexConfig{Concurrency: 6})
		var embErr *EmbeddingError
		if !errors.As(err, &embErr) {
			t.Fatalf("error type = %T, want *EmbeddingError", err)
		}
		if embErr.Order != 5 {
			t.Errorf("Order = %d, want 5", embErr.Order)
		}
	}
}

func TestSearch_OrderAndTies(t *testing.T) {
	emb := mapEmbedder(map[string][]float32{
		"first":  {1, 0},
		"second": {0, 1},
		"third":  {1, 0},
		"fourth": {2, 0},
	})
	idx, err := BuildIndex(context.Background(), emb, makeChunks("first", "second", "third", "fourth"), IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := idx.Search([]float32{1, 0}, 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	wantOrder := []int{0, 2, 3, 1}
	wantDist := []float64{0, 0, 1, 2}
	for i := range wantOrder {
		if results[i].Chunk.Order != wantOrder[i] {
			t.Errorf("results[%d].Order = %d, want %d", i, results[i].Chunk.Order, wantOrder[i])
		}
		if results[i].Distance != wantDist[i] {
			t.Errorf("results[%d].Distance = %v, want %v", i, results[i].Distance, wantDist[i])
		}
	}
}

func TestSearch_BoundsAndMembership(t *testing.T) {
	texts := []string{"revenue grew", "costs fell", "margin widened", "cash raised", "guidance up"}
	chunks := makeChunks(texts...)
	idx, err := BuildIndex(context.Background(), letterEmbedder(), chunks, IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	query, _ := letterEmbedder()(context.Background(), "profit margin")

	for k := 1; k <= 8; k++ {
		results, err := idx.Search(query, k)
		if err != nil {
			t.Fatalf("Search(k=%d) error = %v", k, err)
		}
		if len(results) != min(k, len(texts)) {
			t.Errorf("Search(k=%d) returned %d results", k, len(results))
		}
		for i, r := range results {
			if r.Chunk.Text != texts[r.Chunk.Order] {
				t.Errorf("result %d not from the original chunk set: %+v", i, r.Chunk)
			}
			if i > 0 && results[i-1].Distance > r.Distance {
				t.Errorf("results not sorted at %d: %v > %v", i, results[i-1].Distance, r.Distance)
			}
		}
	}
}

func TestSearch_SelfQueryIsTopResult(t *testing.T) {
	texts := []string{
		"Total revenue was 12 million dollars",
		"Operating expenses were 7 million",
		"The company raised a Series B round",
		"Subscription revenue grew quickly",
	}
	idx, err := BuildIndex(context.Background(), letterEmbedder(), makeChunks(texts...), IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for i, text := range texts {
		q, _ := letterEmbedder()(context.Background(), text)
		results, err := idx.Search(q, 1)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if results[0].Chunk.Order != i {
			t.Errorf("self query %d: top result order = %d", i, results[0].Chunk.Order)
		}
		if results[0].Distance != 0 {
			t.Errorf("self query %d: distance = %v, want 0", i, results[0].Distance)
		}
	}
}

func TestSearch_Errors(t *testing.T) {
	idx, _ := BuildIndex(context.Background(), letterEmbedder(), makeChunks("abc"), IndexConfig{})

	t.Run("nil index", func(t *testing.T) {
		var empty *VectorIndex
		_, err := empty.Search([]float32{1}, 1)
		var rErr *RetrievalError
		if !errors.As(err, &rErr) || !errors.Is(err, ErrEmptyIndex) {
			t.Errorf("error = %v, want RetrievalError wrapping ErrEmptyIndex", err)
		}
	})

	t.Run("built from no chunks", func(t *testing.T) {
		empty, err := BuildIndex(context.Background(), letterEmbedder(), nil, IndexConfig{})
		if err != nil {
			t.Fatalf("BuildIndex() error = %v", err)
		}
		_, err = empty.Search([]float32{1}, 1)
		if !errors.Is(err, ErrEmptyIndex) {
			t.Errorf("error = %v, want ErrEmptyIndex", err)
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		_, err := idx.Search(make([]float32, 26), 0)
		var rErr *RetrievalError
		if !errors.As(err, &rErr) {
			t.Errorf("error = %v, want RetrievalError", err)
		}
	})

	t.Run("query dimension", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 2}, 1)
		var embErr *EmbeddingError
		if !errors.As(err, &embErr) || embErr.Order != QueryOrder {
			t.Errorf("error = %v, want query EmbeddingError", err)
		}
	})
}

func TestBuildIndex_CopiesVectors(t *testing.T) {
	shared := []float32{1, 1}
	emb := EmbedFunc(func(_ context.Context, _ string) ([]float32, error) {
		return shared, nil
	})

	idx, err := BuildIndex(context.Background(), emb, makeChunks("a"), IndexConfig{})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	shared[0] = 100

	results, _ := idx.Search([]float32{1, 1}, 1)
	if results[0].Distance != 0 {
		t.Errorf("stored vector was mutated through the embedder's slice")
	}
}
