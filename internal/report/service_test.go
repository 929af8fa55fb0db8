// ABOUTME: Tests for the report service
// ABOUTME: Uses scripted model capabilities and a temp-dir store to check artifacts and the run ledger
package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/loader"
	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/render"
	"github.com/harper/finreport/internal/storage"
)

const letter = `Acme Corp closed Q4 2024 with total revenue of 1,200,000 dollars.
Net profit reached 300,000 dollars on lower operating costs.
The board approved a new buyback program for next year.`

func testSchema() models.Schema {
	return models.Schema{
		Title: "Test Report",
		Fields: []models.FieldSpec{
			{Name: "Total Revenue", Question: "What is the total revenue?", Monetary: true},
			{Name: "Net Profit", Question: "What is the net profit?", Monetary: true},
		},
	}
}

func letterEmbedder() core.EmbedFunc {
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

func fixedAnswerer(answer string, confidence float64) core.AnswerFunc {
	return func(context.Context, string, string) (string, float64, error) {
		return answer, confidence, nil
	}
}

func fixedSummarizer(summary string) core.SummarizeFunc {
	return func(context.Context, string, int, int) (string, error) {
		return summary, nil
	}
}

func newTestService(t *testing.T, answerer core.Answerer, opts Options) (*Service, *storage.Storage) {
	t.Helper()

	cfg := core.DefaultPipelineConfig()
	cfg.ChunkSize = 80
	cfg.ChunkOverlap = 10
	pipeline, err := core.NewPipeline(cfg, testSchema(), letterEmbedder(), answerer, fixedSummarizer("Revenue grew and profit held."))
	if err != nil {
		t.Fatalf("NewPipeline() failed: %v", err)
	}

	store, err := storage.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if opts.SummaryTitle == "" {
		opts.SummaryTitle = "Financial Summary - Q4 2024"
	}
	if opts.DigestTitle == "" {
		opts.DigestTitle = "Q4 2024 Financial Summary:"
	}
	if opts.DigestQuery == "" {
		opts.DigestQuery = "Provide a financial summary for Q4 2024"
	}

	svc, err := NewService(pipeline, store, opts)
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}
	return svc, store
}

func TestGenerateReport(t *testing.T) {
	svc, store := newTestService(t, fixedAnswerer("1,200,000", 0.9), Options{})

	res, err := svc.GenerateReport(context.Background(), "q4 letter.txt", letter)
	if err != nil {
		t.Fatalf("GenerateReport() failed: %v", err)
	}

	if res.Artifact.Name != "q4_letter_report.pdf" {
		t.Errorf("artifact name = %q, want q4_letter_report.pdf", res.Artifact.Name)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Error("report data is not a PDF")
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}

	data, meta, err := store.ReadArtifact(res.Artifact.Name)
	if err != nil {
		t.Fatalf("ReadArtifact() failed: %v", err)
	}
	if !bytes.Equal(data, res.Data) {
		t.Error("stored artifact differs from rendered bytes")
	}
	if meta.RunID != res.RunID {
		t.Errorf("artifact run id = %q, want %q", meta.RunID, res.RunID)
	}

	runs, err := store.ListRuns(models.KindReport, 10)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Status != models.RunSucceeded {
		t.Errorf("status = %s, want succeeded", runs[0].Status)
	}
	if len(runs[0].Fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(runs[0].Fields))
	}
	if runs[0].Fields[0].Value != "$1,200,000" {
		t.Errorf("first field = %q, want $1,200,000", runs[0].Fields[0].Value)
	}
}

func TestGenerateReport_FailuresLeaveNoArtifact(t *testing.T) {
	errDisk := errors.New("disk full")

	tests := []struct {
		name     string
		answerer core.Answerer
		surface  SurfaceFactory
		check    func(t *testing.T, err error)
	}{
		{
			name: "extraction error",
			answerer: core.AnswerFunc(func(context.Context, string, string) (string, float64, error) {
				return "", 0, errors.New("model unavailable")
			}),
			check: func(t *testing.T, err error) {
				var extractionErr *core.ExtractionError
				if !errors.As(err, &extractionErr) {
					t.Errorf("error = %v, want *core.ExtractionError", err)
				}
			},
		},
		{
			name:     "render error",
			answerer: fixedAnswerer("10", 0.9),
			surface: func(render.Layout, string) render.Surface {
				s := render.NewRecordingSurface()
				s.Fail = map[string]error{"save": errDisk}
				return s
			},
			check: func(t *testing.T, err error) {
				var renderErr *render.RenderError
				if !errors.As(err, &renderErr) {
					t.Errorf("error = %v, want *render.RenderError", err)
				}
				if !errors.Is(err, errDisk) {
					t.Errorf("error = %v, want wrapped disk error", err)
				}
			},
		},
		{
			name:     "empty document",
			answerer: fixedAnswerer("10", 0.9),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, core.ErrEmptyDocument) {
					t.Errorf("error = %v, want ErrEmptyDocument", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, tt.answerer, Options{NewSurface: tt.surface})

			text := letter
			if tt.name == "empty document" {
				text = "   "
			}
			res, err := svc.GenerateReport(context.Background(), "q4.txt", text)
			if err == nil {
				t.Fatal("GenerateReport() error = nil, want error")
			}
			if res != nil {
				t.Error("GenerateReport() returned a result on failure")
			}
			tt.check(t, err)

			artifacts, err := store.ListArtifacts()
			if err != nil {
				t.Fatalf("ListArtifacts() failed: %v", err)
			}
			if len(artifacts) != 0 {
				t.Errorf("len(artifacts) = %d, want 0", len(artifacts))
			}
			if _, err := os.Stat(filepath.Join(store.BasePath(), "reports", "q4_report.pdf")); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("report file exists after failure: %v", err)
			}

			runs, err := store.ListRuns(models.KindReport, 10)
			if err != nil {
				t.Fatalf("ListRuns() failed: %v", err)
			}
			if len(runs) != 1 || runs[0].Status != models.RunFailed {
				t.Fatalf("runs = %+v, want one failed run", runs)
			}
			if runs[0].Error == "" {
				t.Error("failed run has no error message")
			}
		})
	}
}

func TestPreview_RecordingSurface(t *testing.T) {
	svc, store := newTestService(t, fixedAnswerer("5", 0.2), Options{Layout: render.StackedLayout()})

	surface := render.NewRecordingSurface()
	data, extraction, stats, err := svc.Preview(context.Background(), letter, surface)
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	for _, r := range extraction.Results {
		if r.Value != models.NotAvailable {
			t.Errorf("%s = %q, want %s", r.Field, r.Value, models.NotAvailable)
		}
	}
	if !strings.Contains(string(data), "Test Report") {
		t.Errorf("preview listing missing title:\n%s", data)
	}

	artifacts, _ := store.ListArtifacts()
	if len(artifacts) != 0 {
		t.Errorf("Preview() stored %d artifacts, want 0", len(artifacts))
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		wantName    string
		wantType    string
		wantPDFData bool
	}{
		{name: "text", format: FormatText, wantName: "q4_summary.txt", wantType: "text/plain; charset=utf-8"},
		{name: "pdf", format: FormatPDF, wantName: "q4_summary.pdf", wantType: "application/pdf", wantPDFData: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, fixedAnswerer("1", 0.9), Options{})

			res, err := svc.Summarize(context.Background(), "q4.md", letter, tt.format)
			if err != nil {
				t.Fatalf("Summarize() failed: %v", err)
			}

			want := "Financial Summary - Q4 2024\n\nRevenue grew and profit held."
			if res.Text != want {
				t.Errorf("Text = %q, want %q", res.Text, want)
			}
			if res.Artifact == nil || res.Artifact.Name != tt.wantName {
				t.Fatalf("Artifact = %+v, want %s", res.Artifact, tt.wantName)
			}

			data, meta, err := store.ReadArtifact(tt.wantName)
			if err != nil {
				t.Fatalf("ReadArtifact() failed: %v", err)
			}
			if meta.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", meta.ContentType, tt.wantType)
			}
			if tt.wantPDFData {
				if !bytes.HasPrefix(data, []byte("%PDF-")) {
					t.Error("summary data is not a PDF")
				}
			} else if string(data) != want {
				t.Errorf("stored summary = %q, want %q", data, want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		name         string
		storeDigests bool
		wantArtifact bool
	}{
		{name: "stored", storeDigests: true, wantArtifact: true},
		{name: "not stored", storeDigests: false, wantArtifact: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, fixedAnswerer("1", 0.9), Options{StoreDigests: tt.storeDigests})

			res, err := svc.Digest(context.Background(), "q4.txt", letter, "", 2)
			if err != nil {
				t.Fatalf("Digest() failed: %v", err)
			}
			if !strings.HasPrefix(res.Text, "Q4 2024 Financial Summary:\n\n") {
				t.Errorf("Text = %q, want digest title prefix", res.Text)
			}
			body := strings.TrimPrefix(res.Text, "Q4 2024 Financial Summary:\n\n")
			if n := len(strings.Split(body, "\n")); n < 2 {
				t.Errorf("digest has %d lines, want at least 2 chunks", n)
			}

			if (res.Artifact != nil) != tt.wantArtifact {
				t.Errorf("Artifact = %+v, want stored %v", res.Artifact, tt.wantArtifact)
			}
			if tt.wantArtifact && res.Artifact.Name != "q4_digest.txt" {
				t.Errorf("artifact name = %q, want q4_digest.txt", res.Artifact.Name)
			}

			runs, err := store.ListRuns(models.KindDigest, 10)
			if err != nil {
				t.Fatalf("ListRuns() failed: %v", err)
			}
			if len(runs) != 1 || runs[0].Status != models.RunSucceeded {
				t.Errorf("runs = %+v, want one succeeded run", runs)
			}
		})
	}
}

func TestDigest_EmptyDocument(t *testing.T) {
	svc, _ := newTestService(t, fixedAnswerer("1", 0.9), Options{StoreDigests: true})

	if _, err := svc.Digest(context.Background(), "q4.txt", "", "revenue", 3); !errors.Is(err, core.ErrEmptyDocument) {
		t.Errorf("Digest() error = %v, want ErrEmptyDocument", err)
	}
}

func TestLoadUpload(t *testing.T) {
	svc, store := newTestService(t, fixedAnswerer("1", 0.9), Options{})

	text, err := svc.LoadUpload("q4.txt", []byte(letter+"\n\n"))
	if err != nil {
		t.Fatalf("LoadUpload() failed: %v", err)
	}
	if text != letter {
		t.Errorf("text = %q, want %q", text, letter)
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "uploads", "q4.txt")); err != nil {
		t.Errorf("upload not stored: %v", err)
	}

	if _, err := svc.LoadUpload("q4.exe", []byte("MZ")); !errors.Is(err, loader.ErrUnsupported) {
		t.Errorf("LoadUpload(.exe) error = %v, want ErrUnsupported", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"TXT", FormatText, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewService_RequiresPipeline(t *testing.T) {
	if _, err := NewService(nil, nil, Options{}); err == nil {
		t.Error("NewService(nil) error = nil, want error")
	}
}

func TestLoadFile(t *testing.T) {
	svc, _ := newTestService(t, fixedAnswerer("1", 0.9), Options{})

	path := filepath.Join(t.TempDir(), "annual.csv")
	if err := os.WriteFile(path, []byte("metric,value\nrevenue,10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	name, text, err := svc.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if name != "annual.csv" {
		t.Errorf("name = %q, want annual.csv", name)
	}
	if text != "metric,value\nrevenue,10" {
		t.Errorf("text = %q, want trimmed csv", text)
	}

	if _, _, err := svc.LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("LoadFile(missing) error = nil, want error")
	}
}
