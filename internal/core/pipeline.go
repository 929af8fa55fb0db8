// ABOUTME: Pipeline wires chunking, indexing, retrieval, extraction and summarization
// ABOUTME: Constructed once with injected capabilities and reused across runs
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/finreport/internal/models"
)

// Mode selects how the extraction context is assembled
type Mode string

const (
	// ModeDirect extracts against every chunk joined in document order
	ModeDirect Mode = "direct"
	// ModeRetrieval extracts against the top-k chunks nearest a query
	ModeRetrieval Mode = "retrieval"
)

// ParseMode converts a configuration string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDirect:
		return ModeDirect, nil
	case ModeRetrieval:
		return ModeRetrieval, nil
	}
	return "", fmt.Errorf("mode must be %q or %q, got %q", ModeDirect, ModeRetrieval, s)
}

// PipelineConfig holds every tunable of a Pipeline
type PipelineConfig struct {
	ChunkSize    int
	ChunkOverlap int
	Mode         Mode
	TopK         int
	// RetrievalQuery narrows the document in retrieval mode. Empty joins the schema questions.
	RetrievalQuery   string
	Threshold        float64
	Concurrency      int
	MaxInputWords    int
	SummaryMaxLength int
	SummaryMinLength int
}

// DefaultPipelineConfig mirrors the reference deployment: 500/100 windows, top 3, threshold 0.5
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ChunkSize:        500,
		ChunkOverlap:     100,
		Mode:             ModeDirect,
		TopK:             3,
		Threshold:        DefaultConfidenceThreshold,
		Concurrency:      1,
		MaxInputWords:    DefaultMaxInputWords,
		SummaryMaxLength: DefaultSummaryMaxLength,
		SummaryMinLength: DefaultSummaryMinLength,
	}
}

// Pipeline runs the chunk-embed-retrieve-extract flow for one document at a time.
// It holds no per-run state; every call builds its own chunks and index.
type Pipeline struct {
	cfg        PipelineConfig
	schema     models.Schema
	chunker    *ChunkEngine
	embedder   Embedder
	retriever  *Retriever
	extractor  *FieldExtractor
	summarizer *DocumentSummarizer
}

// Extraction is the outcome of one extraction run
type Extraction struct {
	Mode      Mode                      `json:"mode"`
	Chunks    int                       `json:"chunks"`
	Context   string                    `json:"-"`
	Retrieved []models.SearchResult     `json:"retrieved,omitempty"`
	Results   []models.ExtractionResult `json:"results"`
}

// NewPipeline validates the configuration and schema and wires the components.
// embedder may be nil in direct mode and summarizer may be nil when
// summaries are never requested.
func NewPipeline(cfg PipelineConfig, schema models.Schema, embedder Embedder, answerer Answerer, summarizer Summarizer) (*Pipeline, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeDirect
	}
	if cfg.Mode == ModeRetrieval && embedder == nil {
		return nil, errors.New("retrieval mode requires an embedder")
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("top-k must be positive, got %d", cfg.TopK)
	}

	chunker, err := NewChunkEngine(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		schema:  schema,
		chunker: chunker,
		extractor: NewFieldExtractor(answerer, ExtractorConfig{
			Threshold:   cfg.Threshold,
			Concurrency: cfg.Concurrency,
		}),
	}
	if embedder != nil {
		p.embedder = embedder
		p.retriever = NewRetriever(embedder, DefaultRetrievalSeparator)
	}
	if summarizer != nil {
		p.summarizer = NewDocumentSummarizer(summarizer, cfg.MaxInputWords)
	}
	return p, nil
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() PipelineConfig { return p.cfg }

// Schema returns the schema the pipeline extracts
func (p *Pipeline) Schema() models.Schema { return p.schema }

// Extract chunks text, assembles a context according to the mode and
// populates the schema from it
func (p *Pipeline) Extract(ctx context.Context, text string) (*Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	chunks := p.chunker.ChunkText(text)
	run := &Extraction{Mode: p.cfg.Mode, Chunks: len(chunks)}

	switch p.cfg.Mode {
	case ModeRetrieval:
		results, err := p.retrieve(ctx, chunks, p.extractionQuery(), p.cfg.TopK)
		if err != nil {
			return nil, err
		}
		run.Retrieved = results
		run.Context = JoinResults(results, DefaultRetrievalSeparator)
	default:
		run.Context = JoinChunks(chunks, DefaultDirectSeparator)
	}

	results, err := p.extractor.Extract(ctx, p.schema, run.Context)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

// Retrieve indexes text and returns the k chunks nearest query.
// k < 1 selects the configured top-k.
func (p *Pipeline) Retrieve(ctx context.Context, text, query string, k int) ([]models.SearchResult, error) {
	if p.retriever == nil {
		return nil, errors.New("retrieval requires an embedder")
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	if k < 1 {
		k = p.cfg.TopK
	}
	return p.retrieve(ctx, p.chunker.ChunkText(text), query, k)
}

func (p *Pipeline) retrieve(ctx context.Context, chunks []models.Chunk, query string, k int) ([]models.SearchResult, error) {
	idx, err := BuildIndex(ctx, p.embedder, chunks, IndexConfig{Concurrency: p.cfg.Concurrency})
	if err != nil {
		return nil, err
	}
	return p.retriever.RetrieveResults(ctx, idx, query, k)
}

// Summarize condenses text within the configured length bounds
func (p *Pipeline) Summarize(ctx context.Context, text string) (string, error) {
	if p.summarizer == nil {
		return "", errors.New("summarization requires a summarizer")
	}
	return p.summarizer.Summarize(ctx, text, p.cfg.SummaryMaxLength, p.cfg.SummaryMinLength)
}

// extractionQuery is the retrieval query used to narrow the document before extraction
func (p *Pipeline) extractionQuery() string {
	if q := strings.TrimSpace(p.cfg.RetrievalQuery); q != "" {
		return q
	}
	questions := make([]string, len(p.schema.Fields))
	for i, f := range p.schema.Fields {
		questions[i] = f.Question
	}
	return strings.Join(questions, " ")
}
