// Package store provides the SQLite-backed tables for naming rules and rename history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/fdn/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS separators (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	value TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS to_sep_words (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	value TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS term_words (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	key   TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_current_name TEXT NOT NULL,
	encrypted_pre_name  TEXT NOT NULL,
	count               INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_records_hash ON records(hashed_current_name);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps a sql.DB with rule and history operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// Missing parent directories are created.
func Open(dsn string) (*DB, error) {
	if dir := filepath.Dir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storeErr("create db dir", err)
		}
	}
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, storeErr("open db", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, storeErr("ping", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, storeErr("apply schema", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("store: %s: %w: %w", op, apperr.ErrStore, err)
}
