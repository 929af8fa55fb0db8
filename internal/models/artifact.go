// ABOUTME: Artifact and Run models for generated reports and the run ledger
// ABOUTME: Runs record every pipeline invocation, artifacts only successful ones
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// ArtifactKind identifies what a pipeline run produced
type ArtifactKind string

const (
	KindReport  ArtifactKind = "report"
	KindSummary ArtifactKind = "summary"
	KindDigest  ArtifactKind = "digest"
)

// RunStatus is the terminal state of a run
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Artifact describes a stored output file retrievable by name
type Artifact struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        ArtifactKind `json:"kind" yaml:"kind"`
	RunID       string       `json:"run_id" yaml:"run_id"`
	Source      string       `json:"source" yaml:"source"`
	ContentType string       `json:"content_type" yaml:"content_type"`
	Size        int64        `json:"size" yaml:"size"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}

// Run is one recorded pipeline invocation
type Run struct {
	RunID       string             `json:"run_id"`
	Kind        ArtifactKind       `json:"kind"`
	Source      string             `json:"source"`
	Mode        string             `json:"mode"`
	Status      RunStatus          `json:"status"`
	Error       string             `json:"error,omitempty"`
	Artifact    string             `json:"artifact,omitempty"`
	Fields      []ExtractionResult `json:"fields,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt time.Time          `json:"completed_at"`
}

// ArtifactName derives the output filename for a source document,
// e.g. "q4_letter.txt" with KindReport becomes "q4_letter_report.pdf"
func ArtifactName(source string, kind ArtifactKind) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	switch kind {
	case KindReport:
		return base + "_report.pdf"
	case KindSummary:
		return base + "_summary.txt"
	default:
		return base + "_" + string(kind) + ".txt"
	}
}

// ContentTypeFor returns the MIME type used when serving an artifact
func ContentTypeFor(kind ArtifactKind) string {
	if kind == KindReport {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}
