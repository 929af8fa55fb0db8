// ABOUTME: Shared test doubles for the core pipeline packages
// ABOUTME: Deterministic embedders and scripted answerers
package core

import (
	"context"
	"strings"
	"sync"

	"github.com/harper/finreport/internal/models"
)

// letterEmbedder maps text to a 26-dimensional vector of letter counts
func letterEmbedder() EmbedFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		v := make([]float32, 26)
		for _, r := range strings.ToLower(text) {
			if r >= 'a' && r <= 'z' {
				v[r-'a']++
			}
		}
		return v, nil
	}
}

// countingEmbedder wraps an embedder and counts calls
type countingEmbedder struct {
	mu    sync.Mutex
	calls []string
	inner Embedder
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	c.calls = append(c.calls, text)
	c.mu.Unlock()
	return c.inner.Embed(ctx, text)
}

// mapEmbedder returns fixed vectors keyed by text
func mapEmbedder(vectors map[string][]float32) EmbedFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		return vectors[text], nil
	}
}

// scriptedAnswerer answers by question with fixed text and confidence
type scriptedAnswer struct {
	text       string
	confidence float64
	err        error
}

type scriptedAnswerer struct {
	mu       sync.Mutex
	answers  map[string]scriptedAnswer
	contexts []string
}

func (s *scriptedAnswerer) Answer(_ context.Context, question, contextText string) (string, float64, error) {
	s.mu.Lock()
	s.contexts = append(s.contexts, contextText)
	s.mu.Unlock()
	a, ok := s.answers[question]
	if !ok {
		return "", 0, nil
	}
	return a.text, a.confidence, a.err
}

func testSchema() models.Schema {
	return models.Schema{Fields: []models.FieldSpec{
		{Name: "Total Revenue", Question: "What is the total revenue?", Monetary: true},
		{Name: "Net Profit", Question: "What is the net profit?", Monetary: true},
		{Name: "Profit Margin", Question: "What is the profit margin?"},
	}}
}

func makeChunks(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = models.Chunk{Text: t, Order: i}
	}
	return chunks
}
