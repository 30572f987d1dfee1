package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenMemory opens a private in-memory SQLite database.
//
// Every connection to ":memory:" gets its own empty database, so the pool
// is pinned to a single connection that is never recycled.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("openDB: open in-memory sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify in-memory sqlite connection: %w", err)
	}

	return db, nil
}
