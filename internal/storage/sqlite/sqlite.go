// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// The path ":memory:" opens a throwaway in-memory ledger.
func New(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases vanish when their sole connection closes.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Initialize records the two party names and a fresh generation token.
func (s *SQLiteStore) Initialize(ctx context.Context, party1, party2 string) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM parties").Scan(&count)
	if err != nil {
		return &storage.StorageError{Op: "count parties", Err: err}
	}
	if count > 0 {
		return storage.ErrAlreadyInitialized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.StorageError{Op: "begin initialize", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO parties (id, name) VALUES (1, ?), (2, ?)", party1, party2,
	); err != nil {
		return &storage.StorageError{Op: "insert parties", Err: err}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('generation', ?)", uuid.New().String(),
	); err != nil {
		return &storage.StorageError{Op: "insert generation", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &storage.StorageError{Op: "commit initialize", Err: err}
	}
	return nil
}

// Parties returns the two parties in id order.
func (s *SQLiteStore) Parties(ctx context.Context) ([]models.Party, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM parties ORDER BY id")
	if err != nil {
		return nil, &storage.StorageError{Op: "select parties", Err: err}
	}
	defer rows.Close()

	var parties []models.Party
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, &storage.StorageError{Op: "scan party", Err: err}
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "iterate parties", Err: err}
	}
	return parties, nil
}

// Generation returns the token assigned at initialization.
func (s *SQLiteStore) Generation(ctx context.Context) (string, error) {
	var gen string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = 'generation'",
	).Scan(&gen)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", &storage.StorageError{Op: "select generation", Err: err}
	}
	return gen, nil
}
