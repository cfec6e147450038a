package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sync_runs (
		id              TEXT PRIMARY KEY,
		file            TEXT NOT NULL,
		project_code    TEXT NOT NULL DEFAULT '',
		project_name    TEXT NOT NULL DEFAULT '',
		project_page_id TEXT NOT NULL DEFAULT '',
		created         INTEGER NOT NULL DEFAULT 0,
		updated         INTEGER NOT NULL DEFAULT 0,
		skipped         INTEGER NOT NULL DEFAULT 0,
		failed          INTEGER NOT NULL DEFAULT 0,
		started_at      TEXT NOT NULL,
		finished_at     TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_runs_project ON sync_runs(project_code)`,

	`CREATE TABLE IF NOT EXISTS sync_run_nodes (
		run_id   TEXT NOT NULL REFERENCES sync_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		code     TEXT NOT NULL DEFAULT '',
		title    TEXT NOT NULL,
		kind     TEXT NOT NULL
		         CHECK(kind IN ('project','phase','task','milestone')),
		outcome  TEXT NOT NULL
		         CHECK(outcome IN ('created','updated','skipped','failed')),
		message  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_run_nodes_run ON sync_run_nodes(run_id)`,
}
