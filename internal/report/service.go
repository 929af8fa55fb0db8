// ABOUTME: Report service runs the pipeline, renders output and stores artifacts
// ABOUTME: Every run is recorded in the ledger; failed runs leave no artifact behind
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/finreport/internal/config"
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/loader"
	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/render"
	"github.com/harper/finreport/internal/storage"
	"github.com/rs/zerolog/log"
)

// Format selects how narrative output is written
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// ParseFormat converts a flag or form value into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "txt":
		return FormatText, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("format must be %q or %q, got %q", FormatText, FormatPDF, s)
}

// SurfaceFactory creates a fresh drawing surface for one render
type SurfaceFactory func(layout render.Layout, title string) render.Surface

// PDFSurfaces is the default SurfaceFactory
func PDFSurfaces(layout render.Layout, title string) render.Surface {
	return render.NewPDFSurface(layout, title)
}

// Options configures a Service
type Options struct {
	Layout       render.Layout
	ReportTitle  string
	SummaryTitle string
	DigestTitle  string
	DigestQuery  string
	StoreDigests bool
	// RunTimeout bounds one run. Zero disables the deadline.
	RunTimeout time.Duration
	// NewSurface defaults to PDFSurfaces
	NewSurface SurfaceFactory
}

// OptionsFromConfig builds service options from configuration.
// The report title falls back to the schema title.
func OptionsFromConfig(cfg *config.Config, schema models.Schema) Options {
	title := cfg.ReportTitle
	if title == "" {
		title = schema.Title
	}
	return Options{
		Layout:       cfg.RenderLayout(),
		ReportTitle:  title,
		SummaryTitle: cfg.SummaryTitle,
		DigestTitle:  cfg.DigestTitle,
		DigestQuery:  cfg.DigestQuery,
		StoreDigests: cfg.StoreDigests,
		RunTimeout:   cfg.RunTimeout,
	}
}

// Service turns documents into stored report, summary and digest artifacts
type Service struct {
	pipeline *core.Pipeline
	store    *storage.Storage
	opts     Options
}

// ReportResult describes a generated report
type ReportResult struct {
	RunID      string           `json:"run_id"`
	Artifact   *models.Artifact `json:"artifact,omitempty"`
	Extraction *core.Extraction `json:"extraction"`
	Pages      int              `json:"pages"`
	Data       []byte           `json:"-"`
}

// TextResult describes a generated summary or digest.
// Artifact is nil when the output was not stored.
type TextResult struct {
	RunID    string           `json:"run_id"`
	Text     string           `json:"text"`
	Artifact *models.Artifact `json:"artifact,omitempty"`
}

// NewService creates a report service. store may be nil for preview-only use.
func NewService(pipeline *core.Pipeline, store *storage.Storage, opts Options) (*Service, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if opts.Layout.Style == "" {
		opts.Layout = render.FlatLayout()
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if opts.ReportTitle == "" {
		opts.ReportTitle = pipeline.Schema().Title
	}
	if opts.NewSurface == nil {
		opts.NewSurface = PDFSurfaces
	}
	return &Service{pipeline: pipeline, store: store, opts: opts}, nil
}

// Pipeline returns the underlying pipeline
func (s *Service) Pipeline() *core.Pipeline { return s.pipeline }

// Storage returns the artifact store, which may be nil
func (s *Service) Storage() *storage.Storage { return s.store }

// Options returns the service options
func (s *Service) Options() Options { return s.opts }

// LoadUpload stores an uploaded document and returns its text
func (s *Service) LoadUpload(name string, data []byte) (string, error) {
	if !loader.Supported(name) {
		return "", fmt.Errorf("%w: %q", loader.ErrUnsupported, name)
	}
	if s.store != nil {
		path, err := s.store.SaveUpload(name, data)
		if err != nil {
			return "", err
		}
		log.Debug().Str("source", name).Str("path", path).Int("bytes", len(data)).Msg("upload stored")
	}
	return loader.Extract(name, data)
}

// LoadFile reads a document from disk through LoadUpload and returns its
// base name and text
func (s *Service) LoadFile(path string) (string, string, error) {
	name := filepath.Base(path)
	if !loader.Supported(name) {
		return "", "", fmt.Errorf("%w: %q", loader.ErrUnsupported, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := s.LoadUpload(name, data)
	if err != nil {
		return "", "", err
	}
	return name, text, nil
}

// Preview extracts fields and renders them onto surface without storing anything
func (s *Service) Preview(ctx context.Context, text string, surface render.Surface) ([]byte, *core.Extraction, *render.Stats, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	extraction, err := s.pipeline.Extract(ctx, text)
	if err != nil {
		return nil, nil, nil, err
	}
	data, stats, err := render.Render(surface, s.opts.Layout, s.opts.ReportTitle, models.EntriesFromResults(extraction.Results))
	if err != nil {
		return nil, nil, nil, err
	}
	return data, extraction, stats, nil
}

// GenerateReport extracts the schema from text, renders it as a PDF and
// stores it as <base>_report.pdf
func (s *Service) GenerateReport(ctx context.Context, source, text string) (*ReportResult, error) {
	run := s.newRun(models.KindReport, source, string(s.pipeline.Config().Mode))
	logger := log.With().Str("run_id", run.RunID).Str("source", source).Str("mode", run.Mode).Logger()
	logger.Info().Msg("generating report")

	surface := s.opts.NewSurface(s.opts.Layout, s.opts.ReportTitle)
	data, extraction, stats, err := s.Preview(ctx, text, surface)
	if err != nil {
		s.fail(run, err)
		return nil, err
	}
	run.Fields = extraction.Results

	artifact := &models.Artifact{
		Name:   models.ArtifactName(source, models.KindReport),
		Kind:   models.KindReport,
		RunID:  run.RunID,
		Source: source,
	}
	if err := s.save(run, artifact, data); err != nil {
		return nil, err
	}

	logger.Info().Int("pages", stats.Pages).Int("chunks", extraction.Chunks).Str("artifact", artifact.Name).Msg("report generated")
	return &ReportResult{
		RunID:      run.RunID,
		Artifact:   artifact,
		Extraction: extraction,
		Pages:      stats.Pages,
		Data:       data,
	}, nil
}

// Summarize condenses text and stores it as <base>_summary.txt, or as a
// narrative PDF when format is FormatPDF
func (s *Service) Summarize(ctx context.Context, source, text string, format Format) (*TextResult, error) {
	run := s.newRun(models.KindSummary, source, string(core.ModeDirect))
	logger := log.With().Str("run_id", run.RunID).Str("source", source).Logger()
	logger.Info().Msg("summarizing document")

	rctx, cancel := s.withDeadline(ctx)
	defer cancel()

	summary, err := s.pipeline.Summarize(rctx, text)
	if err != nil {
		s.fail(run, err)
		return nil, err
	}

	out := s.opts.SummaryTitle + "\n\n" + summary
	artifact := &models.Artifact{
		Name:   models.ArtifactName(source, models.KindSummary),
		Kind:   models.KindSummary,
		RunID:  run.RunID,
		Source: source,
	}
	data, err := s.narrative(artifact, s.opts.SummaryTitle, summary, out, format)
	if err != nil {
		s.fail(run, err)
		return nil, err
	}
	if err := s.save(run, artifact, data); err != nil {
		return nil, err
	}

	logger.Info().Str("artifact", artifact.Name).Int("words", len(strings.Fields(summary))).Msg("summary generated")
	return &TextResult{RunID: run.RunID, Text: out, Artifact: artifact}, nil
}

// Digest retrieves the k chunks nearest query and joins them under the
// digest title. An empty query uses the configured digest query and
// k < 1 the configured top-k.
func (s *Service) Digest(ctx context.Context, source, text, query string, k int) (*TextResult, error) {
	if strings.TrimSpace(query) == "" {
		query = s.opts.DigestQuery
	}
	run := s.newRun(models.KindDigest, source, string(core.ModeRetrieval))
	logger := log.With().Str("run_id", run.RunID).Str("source", source).Str("mode", run.Mode).Logger()
	logger.Info().Str("query", query).Msg("retrieving digest")

	rctx, cancel := s.withDeadline(ctx)
	defer cancel()

	results, err := s.pipeline.Retrieve(rctx, text, query, k)
	if err != nil {
		s.fail(run, err)
		return nil, err
	}
	out := s.opts.DigestTitle + "\n\n" + core.JoinResults(results, core.DefaultRetrievalSeparator)

	if !s.opts.StoreDigests || s.store == nil {
		run.Status = models.RunSucceeded
		s.record(run)
		return &TextResult{RunID: run.RunID, Text: out}, nil
	}

	artifact := &models.Artifact{
		Name:   models.ArtifactName(source, models.KindDigest),
		Kind:   models.KindDigest,
		RunID:  run.RunID,
		Source: source,
	}
	if err := s.save(run, artifact, []byte(out)); err != nil {
		return nil, err
	}
	logger.Info().Int("chunks", len(results)).Str("artifact", artifact.Name).Msg("digest generated")
	return &TextResult{RunID: run.RunID, Text: out, Artifact: artifact}, nil
}

// narrative returns the bytes of a narrative artifact, adjusting its name
// and content type for PDF output
func (s *Service) narrative(artifact *models.Artifact, title, body, plain string, format Format) ([]byte, error) {
	if format != FormatPDF {
		return []byte(plain), nil
	}
	artifact.Name = strings.TrimSuffix(artifact.Name, ".txt") + ".pdf"
	artifact.ContentType = models.ContentTypeFor(models.KindReport)

	layout := render.FlatLayout()
	data, _, err := render.RenderNarrative(s.opts.NewSurface(layout, title), layout, title, body, 0)
	return data, err
}

// save writes the artifact and records a succeeded run. A storage failure
// records the run as failed.
func (s *Service) save(run *models.Run, artifact *models.Artifact, data []byte) error {
	if s.store == nil {
		err := fmt.Errorf("no artifact storage configured")
		s.fail(run, err)
		return err
	}
	if err := s.store.SaveArtifact(artifact, data); err != nil {
		s.fail(run, err)
		return err
	}
	run.Artifact = artifact.Name
	run.Status = models.RunSucceeded
	s.record(run)
	return nil
}

func (s *Service) newRun(kind models.ArtifactKind, source, mode string) *models.Run {
	return &models.Run{
		RunID:     uuid.New().String(),
		Kind:      kind,
		Source:    source,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
}

func (s *Service) fail(run *models.Run, err error) {
	run.Status = models.RunFailed
	run.Error = err.Error()
	log.Error().Err(err).Str("run_id", run.RunID).Str("source", run.Source).Str("kind", string(run.Kind)).Msg("run failed")
	s.record(run)
}

// record writes the run to the ledger. Ledger failures are logged, not returned,
// so they never mask the run's own outcome.
func (s *Service) record(run *models.Run) {
	run.CompletedAt = time.Now()
	if s.store == nil {
		return
	}
	if err := s.store.RecordRun(run); err != nil {
		log.Warn().Err(err).Str("run_id", run.RunID).Msg("failed to record run")
	}
}

func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RunTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RunTimeout)
	}
	return context.WithCancel(ctx)
}
