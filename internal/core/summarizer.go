// ABOUTME: DocumentSummarizer caps input length before calling the summarize capability
// ABOUTME: Truncation to the word limit is silent and drops the document tail
package core

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultMaxInputWords is the input cap applied before summarization
	DefaultMaxInputWords = 1024
	// DefaultSummaryMaxLength is the default upper bound on summary length
	DefaultSummaryMaxLength = 200
	// DefaultSummaryMinLength is the default lower bound on summary length
	DefaultSummaryMinLength = 60
)

// DocumentSummarizer summarizes documents through a Summarizer.
//
// Input longer than MaxInputWords whitespace-separated words is truncated to
// its first MaxInputWords words and re-joined with single spaces. This is
// lossy: anything past the cap never reaches the model, and the original
// whitespace layout is not preserved for truncated input.
type DocumentSummarizer struct {
	summarizer    Summarizer
	maxInputWords int
}

// NewDocumentSummarizer creates a DocumentSummarizer; maxInputWords <= 0 selects DefaultMaxInputWords
func NewDocumentSummarizer(summarizer Summarizer, maxInputWords int) *DocumentSummarizer {
	if maxInputWords <= 0 {
		maxInputWords = DefaultMaxInputWords
	}
	return &DocumentSummarizer{summarizer: summarizer, maxInputWords: maxInputWords}
}

// Summarize truncates text to the word cap and returns the model's summary
func (ds *DocumentSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	if minLength > maxLength {
		return "", fmt.Errorf("summary min length %d exceeds max length %d", minLength, maxLength)
	}

	input, _ := TruncateWords(text, ds.maxInputWords)

	summary, err := ds.summarizer.Summarize(ctx, input, maxLength, minLength)
	if err != nil {
		return "", fmt.Errorf("summarizing document: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// TruncateWords returns the first limit words of text joined by single
// spaces and whether anything was dropped. Text within the limit is returned unchanged.
func TruncateWords(text string, limit int) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text, false
	}
	return strings.Join(words[:limit], " "), true
}
