package db

import (
	"fmt"
)

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Clients
CREATE TABLE clients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    currency TEXT NOT NULL DEFAULT 'PLN',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Append-only hourly rate history per client. A new rate change inserts
-- a later effective_from; rows are never updated, so past earnings stay
-- reproducible.
CREATE TABLE client_rate_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    hourly_rate INTEGER NOT NULL CHECK (hourly_rate > 0),
    currency TEXT NOT NULL,
    effective_from TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (client_id, effective_from)
);

-- Projects
CREATE TABLE projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (client_id, name)
);

-- Task definitions; work is logged against these
CREATE TABLE tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    estimated_minutes INTEGER,
    epic TEXT,
    category TEXT CHECK (category IN ('integration', 'feature', 'ui', 'fix', 'refactor', 'config')),
    is_exploration INTEGER NOT NULL DEFAULT 0,
    scope TEXT CHECK (scope IN ('small', 'medium', 'large')),
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (project_id, title)
);

-- Time entries; end_time IS NULL means the entry is running
CREATE TABLE time_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    start_time TEXT NOT NULL,
    end_time TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- At most one open entry system-wide. The index is over a constant
-- expression, so any second row with a NULL end_time is rejected.
CREATE UNIQUE INDEX idx_entries_single_open ON time_entries ((1)) WHERE end_time IS NULL;

-- Indexes
CREATE INDEX idx_rate_history_client ON client_rate_history(client_id, effective_from);
CREATE INDEX idx_tasks_project ON tasks(project_id);
CREATE INDEX idx_tasks_epic ON tasks(epic);
CREATE INDEX idx_entries_task ON time_entries(task_id);
CREATE INDEX idx_entries_start ON time_entries(start_time);
`,
	},
	{
		version: 2,
		sql: `
-- Optional work targets per client, in hours
ALTER TABLE clients ADD COLUMN monthly_hours INTEGER;
ALTER TABLE clients ADD COLUMN daily_hours REAL;
`,
	},
}

// RunMigrations applies all pending database migrations
func (db *DB) RunMigrations() error {
	// Ensure schema_version table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Apply pending migrations in a transaction
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		// Execute migration SQL
		if _, err := tx.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}

		// Record migration
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}

	return nil
}
