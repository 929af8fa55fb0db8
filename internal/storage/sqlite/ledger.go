// ABOUTME: Ledger is the unified SQLite layer over the run and artifact stores
// ABOUTME: Shared by the CLI, HTTP server and MCP server
package sqlite

import (
	"fmt"

	"github.com/harper/finreport/internal/models"
)

// Ledger records pipeline runs and the artifacts they produced
type Ledger struct {
	db        *DB
	runs      *RunStore
	artifacts *ArtifactStore
}

// NewLedger opens the ledger at dbPath
func NewLedger(dbPath string) (*Ledger, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newLedger(db), nil
}

// NewLedgerInMemory creates an in-memory ledger (for testing)
func NewLedgerInMemory() (*Ledger, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newLedger(db), nil
}

func newLedger(db *DB) *Ledger {
	return &Ledger{
		db:        db,
		runs:      NewRunStore(db),
		artifacts: NewArtifactStore(db),
	}
}

// Close closes the database connection
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Path returns the database file path
func (l *Ledger) Path() string { return l.db.Path() }

// --- Run operations ---

// RecordRun saves a run and its fields
func (l *Ledger) RecordRun(run *models.Run) error {
	if run.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	return l.runs.Save(run)
}

// GetRun retrieves a run by id
func (l *Ledger) GetRun(runID string) (*models.Run, error) {
	return l.runs.Get(runID)
}

// ListRuns lists recent runs, optionally filtered by kind
func (l *Ledger) ListRuns(kind models.ArtifactKind, limit int) ([]models.Run, error) {
	return l.runs.List(kind, limit)
}

// --- Artifact operations ---

// RecordArtifact saves artifact metadata
func (l *Ledger) RecordArtifact(a *models.Artifact) error {
	if a.Name == "" {
		return fmt.Errorf("artifact name is required")
	}
	return l.artifacts.Save(a)
}

// GetArtifact retrieves artifact metadata by name
func (l *Ledger) GetArtifact(name string) (*models.Artifact, error) {
	return l.artifacts.Get(name)
}

// ListArtifacts lists stored artifacts newest first
func (l *Ledger) ListArtifacts() ([]models.Artifact, error) {
	return l.artifacts.List()
}

// DeleteArtifact removes artifact metadata
func (l *Ledger) DeleteArtifact(name string) (bool, error) {
	return l.artifacts.Delete(name)
}
