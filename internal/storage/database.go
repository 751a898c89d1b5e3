package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// New opens a SQLite database connection at the given path with the driver
// selected at build time. Foreign keys are enforced on every connection.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn(path))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s database: %w", BuildMode, err)
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
//
// code_records has no foreign key to text_records: a chunk that held only code
// blocks leaves code records whose parent link identifier has no text record.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			rel_path TEXT NOT NULL UNIQUE,
			folder TEXT NOT NULL,
			title TEXT,
			origin TEXT NOT NULL,
			hash TEXT NOT NULL,
			chunk_size INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS text_records (
			link_id INTEGER PRIMARY KEY,
			document_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			content TEXT NOT NULL,
			num_code_blocks INTEGER NOT NULL,
			origin TEXT NOT NULL,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_text_records_document ON text_records(document_id, position);`,
		`CREATE TABLE IF NOT EXISTS code_records (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			parent_link_id INTEGER NOT NULL,
			ordinal INTEGER NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			origin TEXT NOT NULL,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_code_records_document ON code_records(document_id, ordinal);`,
		`CREATE INDEX IF NOT EXISTS idx_code_records_parent ON code_records(parent_link_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
