package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite declaration index of one translation unit.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewMemoryStore opens a private in-memory database and creates the schema.
// Every connection to ":memory:" is a separate database, so the pool is
// pinned to a single connection.
func NewMemoryStore() (*Store, error) {
	s, err := NewStore(":memory:")
	if err != nil {
		return nil, err
	}
	s.db.SetMaxOpenConns(1)
	s.db.SetConnMaxLifetime(0)
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS symbols (
  node_id         INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  usr             TEXT NOT NULL DEFAULT '',
  kind            INTEGER NOT NULL,
  is_definition   BOOLEAN NOT NULL DEFAULT FALSE,
  line            INTEGER,
  col             INTEGER,
  parent_node_id  INTEGER
);

CREATE TABLE IF NOT EXISTS references_ (
  node_id         INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  kind            INTEGER NOT NULL,
  line            INTEGER,
  col             INTEGER
);

CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_usr ON symbols(usr);
CREATE INDEX IF NOT EXISTS idx_references_name ON references_(name);
`
