// ABOUTME: FieldExtractor asks one question per schema field and gates answers by confidence
// ABOUTME: Extraction is all-or-nothing: any failed answer aborts the whole schema
package core

import (
	"context"
	"strings"

	"github.com/harper/finreport/internal/models"
)

// DefaultConfidenceThreshold is the score an answer must exceed to be reported
const DefaultConfidenceThreshold = 0.5

// ExtractorConfig holds the tunables of a FieldExtractor
type ExtractorConfig struct {
	// Threshold is exclusive: confidence must be strictly greater
	Threshold float64
	// Concurrency bounds parallel answer calls; values below 2 run in schema order
	Concurrency int
}

// DefaultExtractorConfig returns the sequential configuration with the default threshold
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Threshold:   DefaultConfidenceThreshold,
		Concurrency: 1,
	}
}

// FieldExtractor populates a schema from a context using an Answerer
type FieldExtractor struct {
	answerer Answerer
	cfg      ExtractorConfig
}

// NewFieldExtractor creates a FieldExtractor with the given configuration
func NewFieldExtractor(answerer Answerer, cfg ExtractorConfig) *FieldExtractor {
	return &FieldExtractor{answerer: answerer, cfg: cfg}
}

// Threshold returns the confidence threshold in use
func (fe *FieldExtractor) Threshold() float64 {
	return fe.cfg.Threshold
}

// Extract answers every schema question against contextText and returns one
// result per field in schema order. If any answer call fails, it returns an
// *ExtractionError for the earliest failing field and no results; calls for
// later fields still in flight are cancelled.
func (fe *FieldExtractor) Extract(ctx context.Context, schema models.Schema, contextText string) ([]models.ExtractionResult, error) {
	results := make([]models.ExtractionResult, len(schema.Fields))

	failed, err := fanOut(ctx, len(schema.Fields), fe.cfg.Concurrency, func(ctx context.Context, i int) error {
		field := schema.Fields[i]
		answer, confidence, err := fe.answerer.Answer(ctx, field.Question, contextText)
		if err != nil {
			return err
		}
		results[i] = models.ExtractionResult{
			Field:      field.Name,
			Value:      fe.Gate(field, answer, confidence),
			Answer:     answer,
			Confidence: confidence,
		}
		return nil
	})
	if err != nil {
		return nil, &ExtractionError{Field: schema.Fields[failed].Name, Err: err}
	}
	return results, nil
}

// Gate applies the confidence threshold to one answer. Accepted answers for
// monetary fields gain a currency marker; rejected answers become the sentinel.
func (fe *FieldExtractor) Gate(field models.FieldSpec, answer string, confidence float64) string {
	// NaN never passes
	if !(confidence > fe.cfg.Threshold) {
		return models.NotAvailable
	}
	answer = strings.TrimSpace(answer)
	if field.Monetary && !strings.HasPrefix(answer, models.CurrencyMarker) {
		return models.CurrencyMarker + answer
	}
	return answer
}
