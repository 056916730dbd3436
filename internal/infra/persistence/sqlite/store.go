// Package sqlite persists documents in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"familytree/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.PersistentStore = (*Store)(nil)

// Store keeps one row per document in the documents table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and ensures the schema exists.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "familytree.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() domain.StorageDriver { return domain.StorageSQLite }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying database handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveDocument upserts the document inside a transaction.
func (s *Store) SaveDocument(ctx context.Context, name string, doc []byte) (retErr error) {
	key, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO documents(name, payload, updated_at) VALUES(?,?,?)
		ON CONFLICT(name) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		key, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return tx.Commit()
}

func (s *Store) LoadDocument(ctx context.Context, name string) ([]byte, error) {
	key, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return nil, err
	}
	var payload []byte
	err = s.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE name = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
