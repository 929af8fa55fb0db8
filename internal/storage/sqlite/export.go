// ABOUTME: Export of run history and the artifact catalog
// ABOUTME: Supports YAML and Markdown export formats
package sqlite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string           `yaml:"version" json:"version"`
	ExportedAt string           `yaml:"exported_at" json:"exported_at"`
	Tool       string           `yaml:"tool" json:"tool"`
	Runs       []ExportRun      `yaml:"runs,omitempty" json:"runs,omitempty"`
	Artifacts  []ExportArtifact `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
}

// ExportRun represents a run for export
type ExportRun struct {
	RunID       string        `yaml:"run_id" json:"run_id"`
	Kind        string        `yaml:"kind" json:"kind"`
	Source      string        `yaml:"source" json:"source"`
	Mode        string        `yaml:"mode,omitempty" json:"mode,omitempty"`
	Status      string        `yaml:"status" json:"status"`
	Error       string        `yaml:"error,omitempty" json:"error,omitempty"`
	Artifact    string        `yaml:"artifact,omitempty" json:"artifact,omitempty"`
	CreatedAt   string        `yaml:"created_at" json:"created_at"`
	CompletedAt string        `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	Fields      []ExportField `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// ExportField represents one extracted field for export
type ExportField struct {
	Field      string  `yaml:"field" json:"field"`
	Value      string  `yaml:"value" json:"value"`
	Confidence float64 `yaml:"confidence" json:"confidence"`
}

// ExportArtifact represents an artifact for export
type ExportArtifact struct {
	Name      string `yaml:"name" json:"name"`
	Kind      string `yaml:"kind" json:"kind"`
	RunID     string `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Size      int64  `yaml:"size" json:"size"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
}

// Export collects all runs and artifacts
func (l *Ledger) Export() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "finreport",
	}

	runs, err := l.runs.List("", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	for _, run := range runs {
		er := ExportRun{
			RunID:     run.RunID,
			Kind:      string(run.Kind),
			Source:    run.Source,
			Mode:      run.Mode,
			Status:    string(run.Status),
			Error:     run.Error,
			Artifact:  run.Artifact,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		}
		if !run.CompletedAt.IsZero() {
			er.CompletedAt = run.CompletedAt.Format(time.RFC3339)
		}
		for _, f := range run.Fields {
			er.Fields = append(er.Fields, ExportField{Field: f.Field, Value: f.Value, Confidence: f.Confidence})
		}
		data.Runs = append(data.Runs, er)
	}

	artifacts, err := l.artifacts.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	for _, a := range artifacts {
		data.Artifacts = append(data.Artifacts, ExportArtifact{
			Name:      a.Name,
			Kind:      string(a.Kind),
			RunID:     a.RunID,
			Size:      a.Size,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	return data, nil
}

// WriteYAML writes the export as YAML
func (l *Ledger) WriteYAML(w io.Writer) error {
	data, err := l.Export()
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown writes the export as a Markdown document
func (l *Ledger) WriteMarkdown(w io.Writer) error {
	data, err := l.Export()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "# Financial Report History - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Runs) > 0 {
		_, _ = fmt.Fprintln(w, "## Runs")
		_, _ = fmt.Fprintln(w)
		for _, run := range data.Runs {
			_, _ = fmt.Fprintf(w, "### %s %s (%s)\n\n", run.Kind, run.Source, run.Status)
			_, _ = fmt.Fprintf(w, "- **Run:** %s\n", run.RunID)
			_, _ = fmt.Fprintf(w, "- **Started:** %s\n", run.CreatedAt)
			if run.Mode != "" {
				_, _ = fmt.Fprintf(w, "- **Mode:** %s\n", run.Mode)
			}
			if run.Artifact != "" {
				_, _ = fmt.Fprintf(w, "- **Artifact:** %s\n", run.Artifact)
			}
			if run.Error != "" {
				_, _ = fmt.Fprintf(w, "- **Error:** %s\n", run.Error)
			}
			_, _ = fmt.Fprintln(w)
			if len(run.Fields) > 0 {
				_, _ = fmt.Fprintln(w, "| Field | Value | Confidence |")
				_, _ = fmt.Fprintln(w, "|-------|-------|------------|")
				for _, f := range run.Fields {
					_, _ = fmt.Fprintf(w, "| %s | %s | %.2f |\n", escapeCell(f.Field), escapeCell(f.Value), f.Confidence)
				}
				_, _ = fmt.Fprintln(w)
			}
		}
	}

	if len(data.Artifacts) > 0 {
		_, _ = fmt.Fprintln(w, "## Artifacts")
		_, _ = fmt.Fprintln(w)
		for _, a := range data.Artifacts {
			_, _ = fmt.Fprintf(w, "- %s (%s, %d bytes)\n", a.Name, a.Kind, a.Size)
		}
		_, _ = fmt.Fprintln(w)
	}

	return nil
}

// ExportToFile writes the export to outputPath in the given format ("yaml" or "markdown")
func (l *Ledger) ExportToFile(outputPath, format string) error {
	write := l.WriteYAML
	switch strings.ToLower(format) {
	case "yaml", "yml":
	case "markdown", "md":
		write = l.WriteMarkdown
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
