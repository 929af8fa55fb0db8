// ABOUTME: SQLite schema for the run ledger and artifact catalog
// ABOUTME: Creates all tables and indexes on open
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Pipeline runs, successful or not
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    source TEXT NOT NULL,
    mode TEXT,
    status TEXT NOT NULL,
    error TEXT,
    artifact TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME
);

-- Extracted field values, in schema order per run
CREATE TABLE IF NOT EXISTS run_fields (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    field TEXT NOT NULL,
    value TEXT NOT NULL,
    answer TEXT,
    confidence REAL DEFAULT 0,
    PRIMARY KEY (run_id, position)
);

-- Stored output files
CREATE TABLE IF NOT EXISTS artifacts (
    name TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    run_id TEXT,
    source TEXT,
    content_type TEXT NOT NULL,
    size INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
