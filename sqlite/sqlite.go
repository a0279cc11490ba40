// Package sqlite provides SQLite-based storage implementations for
// schemacrawl services: the schema catalog, crawl jobs, and crawl results.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also serializes the read-modify-write cycles of concurrent
	// usage-count updates.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait up to 5 seconds on lock contention instead of failing with
	// "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode for file-based databases: much faster writes and concurrent
	// reads during writes. Not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS extraction_schemas (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			base_url TEXT NOT NULL DEFAULT '',
			patterns TEXT NOT NULL,
			usage_count INTEGER NOT NULL DEFAULT 0,
			last_used_at TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS crawl_jobs (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			schema_id TEXT REFERENCES extraction_schemas(id) ON DELETE SET NULL,
			priority TEXT NOT NULL DEFAULT 'normal',
			status TEXT NOT NULL DEFAULT 'pending',
			error_message TEXT NOT NULL DEFAULT '',
			error_details TEXT NOT NULL DEFAULT '{}',
			result_id INTEGER,
			created_at TEXT NOT NULL,
			started_at TEXT,
			completed_at TEXT,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_status ON crawl_jobs(status);
		CREATE INDEX IF NOT EXISTS idx_jobs_schema ON crawl_jobs(schema_id);

		CREATE TABLE IF NOT EXISTS crawl_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '[]',
			metadata TEXT NOT NULL DEFAULT '{}',
			content_length INTEGER NOT NULL DEFAULT 0,
			content_hash TEXT NOT NULL DEFAULT '',
			schema_id TEXT REFERENCES extraction_schemas(id) ON DELETE SET NULL,
			quality REAL NOT NULL DEFAULT 0,
			crawled_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_results_schema ON crawl_results(schema_id);
		CREATE INDEX IF NOT EXISTS idx_results_hash ON crawl_results(content_hash);

		CREATE VIRTUAL TABLE IF NOT EXISTS crawl_results_fts USING fts5(
			title,
			content,
			content='crawl_results',
			content_rowid='id',
			tokenize='unicode61 remove_diacritics 2'
		);

		CREATE TRIGGER IF NOT EXISTS crawl_results_ai AFTER INSERT ON crawl_results BEGIN
			INSERT INTO crawl_results_fts(rowid, title, content)
			VALUES (new.id, new.title, new.content);
		END;
		CREATE TRIGGER IF NOT EXISTS crawl_results_ad AFTER DELETE ON crawl_results BEGIN
			INSERT INTO crawl_results_fts(crawl_results_fts, rowid, title, content)
			VALUES ('delete', old.id, old.title, old.content);
		END;
		CREATE TRIGGER IF NOT EXISTS crawl_results_au AFTER UPDATE ON crawl_results BEGIN
			INSERT INTO crawl_results_fts(crawl_results_fts, rowid, title, content)
			VALUES ('delete', old.id, old.title, old.content);
			INSERT INTO crawl_results_fts(rowid, title, content)
			VALUES (new.id, new.title, new.content);
		END;
	`

	_, err := db.db.Exec(schema)
	return err
}
