// ABOUTME: Artifact catalog storage operations for SQLite
// ABOUTME: Tracks stored report files so they can be listed and served by name
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/finreport/internal/models"
)

// ArtifactStore handles artifact metadata persistence
type ArtifactStore struct {
	db *DB
}

// NewArtifactStore creates a new ArtifactStore
func NewArtifactStore(db *DB) *ArtifactStore {
	return &ArtifactStore{db: db}
}

// Save upserts artifact metadata. Regenerating a report for the same
// source replaces the previous entry.
func (s *ArtifactStore) Save(a *models.Artifact) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO artifacts (name, kind, run_id, source, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			run_id = excluded.run_id,
			source = excluded.source,
			content_type = excluded.content_type,
			size = excluded.size,
			created_at = excluded.created_at
	`, a.Name, string(a.Kind), nullString(a.RunID), nullString(a.Source), a.ContentType, a.Size, createdAt)
	return err
}

// Get retrieves artifact metadata by name. Returns nil, nil when missing.
func (s *ArtifactStore) Get(name string) (*models.Artifact, error) {
	row := s.db.QueryRow(`
		SELECT name, kind, run_id, source, content_type, size, created_at
		FROM artifacts
		WHERE name = ?
	`, name)

	a, err := scanArtifact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// List returns artifacts newest first
func (s *ArtifactStore) List() ([]models.Artifact, error) {
	rows, err := s.db.Query(`
		SELECT name, kind, run_id, source, content_type, size, created_at
		FROM artifacts
		ORDER BY created_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var artifacts []models.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, rows.Err()
}

// Delete removes artifact metadata and reports whether a row existed
func (s *ArtifactStore) Delete(name string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM artifacts WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanArtifact(row rowScanner) (*models.Artifact, error) {
	var (
		a      models.Artifact
		kind   string
		runID  sql.NullString
		source sql.NullString
	)
	if err := row.Scan(&a.Name, &kind, &runID, &source, &a.ContentType, &a.Size, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Kind = models.ArtifactKind(kind)
	a.RunID = runID.String
	a.Source = source.String
	return &a, nil
}
