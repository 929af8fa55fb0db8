// ABOUTME: File storage for uploaded documents and generated report artifacts
// ABOUTME: Lays out uploads/ and reports/ under the data directory and records them in the SQLite ledger
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/storage/sqlite"
)

var (
	// ErrNotFound is returned when an artifact does not exist
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidName is returned for filenames that sanitize to nothing
	ErrInvalidName = errors.New("invalid filename")
)

const (
	uploadsDir = "uploads"
	reportsDir = "reports"
)

// Storage manages uploaded documents, stored artifacts and the run ledger
type Storage struct {
	basePath string
	ledger   *sqlite.Ledger
	mu       sync.Mutex // serializes artifact writes with their ledger rows
}

// NewStorage creates the directory layout under dataDir and opens the ledger
func NewStorage(dataDir string) (*Storage, error) {
	dirs := []string{
		filepath.Join(dataDir, uploadsDir),
		filepath.Join(dataDir, reportsDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	ledger, err := sqlite.NewLedger(sqlite.DefaultDBPath(dataDir))
	if err != nil {
		return nil, err
	}

	return &Storage{basePath: dataDir, ledger: ledger}, nil
}

// Close closes the ledger
func (s *Storage) Close() error {
	if s.ledger != nil {
		return s.ledger.Close()
	}
	return nil
}

// BasePath returns the data directory
func (s *Storage) BasePath() string { return s.basePath }

// Ledger returns the run and artifact ledger
func (s *Storage) Ledger() *sqlite.Ledger { return s.ledger }

// SaveUpload stores an uploaded document under uploads/ and returns its path.
// A later upload with the same name replaces the earlier one.
func (s *Storage) SaveUpload(name string, data []byte) (string, error) {
	clean, err := SanitizeFilename(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.basePath, uploadsDir, clean)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

// SaveArtifact writes data under reports/ and records it in the ledger.
// Name, Size and CreatedAt on a are filled in.
func (s *Storage) SaveArtifact(a *models.Artifact, data []byte) error {
	clean, err := SanitizeFilename(a.Name)
	if err != nil {
		return err
	}
	a.Name = clean
	a.Size = int64(len(data))
	a.CreatedAt = time.Now()
	if a.ContentType == "" {
		a.ContentType = models.ContentTypeFor(a.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.artifactPath(clean)
	backup := filepath.Join(s.basePath, reportsDir, ".prev-"+clean)
	hadPrevious := true
	if err := os.Rename(path, backup); errors.Is(err, os.ErrNotExist) {
		hadPrevious = false
	} else if err != nil {
		return fmt.Errorf("failed to stage artifact: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		restoreArtifact(path, backup, hadPrevious)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := s.ledger.RecordArtifact(a); err != nil {
		restoreArtifact(path, backup, hadPrevious)
		return fmt.Errorf("failed to record artifact: %w", err)
	}
	if hadPrevious {
		_ = os.Remove(backup)
	}
	return nil
}

// restoreArtifact puts the previous file back, or removes the new one if
// there was none, so reports/ stays in step with the ledger
func restoreArtifact(path, backup string, hadPrevious bool) {
	if hadPrevious {
		_ = os.Rename(backup, path)
		return
	}
	_ = os.Remove(path)
}

// OpenArtifact opens a stored artifact for reading. The caller closes the file.
func (s *Storage) OpenArtifact(name string) (*os.File, *models.Artifact, error) {
	clean, err := SanitizeFilename(name)
	if err != nil || clean != name {
		return nil, nil, ErrNotFound
	}

	meta, err := s.ledger.GetArtifact(clean)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up artifact: %w", err)
	}
	if meta == nil {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(s.artifactPath(clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, meta, nil
}

// ReadArtifact returns a stored artifact's bytes and metadata
func (s *Storage) ReadArtifact(name string) ([]byte, *models.Artifact, error) {
	f, meta, err := s.OpenArtifact(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, meta, nil
}

// ListArtifacts lists stored artifacts newest first
func (s *Storage) ListArtifacts() ([]models.Artifact, error) {
	return s.ledger.ListArtifacts()
}

// DeleteArtifact removes an artifact file and its ledger entry
func (s *Storage) DeleteArtifact(name string) error {
	clean, err := SanitizeFilename(name)
	if err != nil || clean != name {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.ledger.DeleteArtifact(clean)
	if err != nil {
		return fmt.Errorf("failed to delete artifact record: %w", err)
	}
	if err := os.Remove(s.artifactPath(clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact file: %w", err)
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// RecordRun saves a run in the ledger
func (s *Storage) RecordRun(run *models.Run) error {
	return s.ledger.RecordRun(run)
}

// ListRuns lists recent runs, optionally filtered by kind
func (s *Storage) ListRuns(kind models.ArtifactKind, limit int) ([]models.Run, error) {
	return s.ledger.ListRuns(kind, limit)
}

func (s *Storage) artifactPath(name string) string {
	return filepath.Join(s.basePath, reportsDir, name)
}

// SanitizeFilename reduces name to a safe base filename: directory parts
// are dropped and anything outside letters, digits, dot, dash and
// underscore becomes an underscore
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" || strings.Trim(clean, "_") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// writeFileAtomic writes via a temp file and rename so readers never see a partial file
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
