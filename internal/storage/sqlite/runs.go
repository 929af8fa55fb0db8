// ABOUTME: Run ledger storage operations for SQLite
// ABOUTME: Saves runs with their extracted fields and lists run history
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/finreport/internal/models"
)

// RunStore handles run persistence
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Save upserts a run and replaces its field rows in one transaction
func (s *RunStore) Save(run *models.Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO runs (id, kind, source, mode, status, error, artifact, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			error = excluded.error,
			artifact = excluded.artifact,
			completed_at = excluded.completed_at
	`, run.RunID, string(run.Kind), run.Source, nullString(run.Mode), string(run.Status),
		nullString(run.Error), nullString(run.Artifact), createdAt, nullTime(run.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM run_fields WHERE run_id = ?`, run.RunID); err != nil {
		return fmt.Errorf("failed to clear run fields: %w", err)
	}
	for i, f := range run.Fields {
		_, err := tx.Exec(`
			INSERT INTO run_fields (run_id, position, field, value, answer, confidence)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.RunID, i, f.Field, f.Value, nullString(f.Answer), f.Confidence)
		if err != nil {
			return fmt.Errorf("failed to save field %q: %w", f.Field, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a run with its fields. Returns nil, nil when missing.
func (s *RunStore) Get(runID string) (*models.Run, error) {
	row := s.db.QueryRow(`
		SELECT id, kind, source, mode, status, error, artifact, created_at, completed_at
		FROM runs
		WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if run.Fields, err = s.fields(run.RunID); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs first. An empty kind matches every kind;
// limit <= 0 returns all runs.
func (s *RunStore) List(kind models.ArtifactKind, limit int) ([]models.Run, error) {
	query := `
		SELECT id, kind, source, mode, status, error, artifact, created_at, completed_at
		FROM runs
		WHERE (? = '' OR kind = ?)
		ORDER BY created_at DESC, id
	`
	args := []any{string(kind), string(kind)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Fields, err = s.fields(runs[i].RunID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Delete removes a run and, by cascade, its fields
func (s *RunStore) Delete(runID string) error {
	_, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	return err
}

func (s *RunStore) fields(runID string) ([]models.ExtractionResult, error) {
	rows, err := s.db.Query(`
		SELECT field, value, answer, confidence
		FROM run_fields
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var fields []models.ExtractionResult
	for rows.Next() {
		var (
			f      models.ExtractionResult
			answer sql.NullString
		)
		if err := rows.Scan(&f.Field, &f.Value, &answer, &f.Confidence); err != nil {
			return nil, err
		}
		f.Answer = answer.String
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		run         models.Run
		kind        string
		status      string
		mode        sql.NullString
		errText     sql.NullString
		artifact    sql.NullString
		completedAt sql.NullTime
	)
	if err := row.Scan(&run.RunID, &kind, &run.Source, &mode, &status, &errText,
		&artifact, &run.CreatedAt, &completedAt); err != nil {
		return nil, err
	}

	run.Kind = models.ArtifactKind(kind)
	run.Status = models.RunStatus(status)
	run.Mode = mode.String
	run.Error = errText.String
	run.Artifact = artifact.String
	if completedAt.Valid {
		run.CompletedAt = completedAt.Time
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t, Valid: true}
}
