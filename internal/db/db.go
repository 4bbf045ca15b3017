// Package db provides SQLite database access for the sequent engine.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/sequentlab/sequent/internal/logging"
)

// DB wraps the SQL connection pool together with a component logger.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return open(path)
}

// OpenInMemory opens a private in-memory database, used by tests.
func OpenInMemory() (*DB, error) {
	return open(":memory:")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dsn, err)
	}

	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY on concurrent writers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database %s: %w", dsn, err)
	}

	return &DB{DB: conn, logger: logging.Component("db")}, nil
}

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id            TEXT PRIMARY KEY,
			timestamp     TEXT NOT NULL,
			type          TEXT NOT NULL,
			entity_type   TEXT NOT NULL,
			entity_id     TEXT NOT NULL,
			payload_json  TEXT,
			metadata_json TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_events_entity
			ON events (entity_type, entity_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
