package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite schema for the guide store.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGuidesQuery := `
	CREATE TABLE IF NOT EXISTS guides (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		recipient TEXT NOT NULL,
		creation_date INTEGER NOT NULL,
		status TEXT NOT NULL
	);
	`

	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS guide_history (
		guide_id TEXT NOT NULL REFERENCES guides(id),
		seq INTEGER NOT NULL,
		status TEXT NOT NULL,
		at INTEGER NOT NULL,
		PRIMARY KEY (guide_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_guides_status
	ON guides(status);
	`

	statements := []string{
		createGuidesQuery,
		createHistoryQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
