// ABOUTME: Capability interfaces for the black-box models the pipeline consumes
// ABOUTME: Func adapters let tests and callers pass plain functions
package core

import "context"

// Embedder turns text into a fixed-dimension vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Answerer answers a question against a context and reports its confidence in [0,1]
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, float64, error)
}

// Summarizer condenses text to between minLength and maxLength units
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// EmbedFunc adapts a function to Embedder
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// AnswerFunc adapts a function to Answerer
type AnswerFunc func(ctx context.Context, question, contextText string) (string, float64, error)

func (f AnswerFunc) Answer(ctx context.Context, question, contextText string) (string, float64, error) {
	return f(ctx, question, contextText)
}

// SummarizeFunc adapts a function to Summarizer
type SummarizeFunc func(ctx context.Context, text string, maxLength, minLength int) (string, error)

func (f SummarizeFunc) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return f(ctx, text, maxLength, minLength)
}
