// Package store keeps the console's own local state: the last location of
// each list view and a journal of mutations issued from this machine. Case
// data itself lives only on the backend.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store is the SQLite-backed local state.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open(sqliteDriver, dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: required for :memory: and plenty for a single console.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	// m.Close would also close s.db, so only the source is released.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset removes all saved locations and journal entries.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"view_state", "meta", "audit_entries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

const lastLocationKey = "last_location"

// SaveLocation remembers the location of a view (e.g. "/cases/all") and
// marks it as the most recent one.
func (s *Store) SaveLocation(ctx context.Context, view, location string) error {
	now := time.Now().Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO view_state (view, location, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(view) DO UPDATE SET location = excluded.location, updated_at = excluded.updated_at`,
		view, location, now); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastLocationKey, location); err != nil {
		return fmt.Errorf("failed to save last location: %w", err)
	}
	return tx.Commit()
}

// LoadLocation returns the saved location of view, or "" when none.
func (s *Store) LoadLocation(ctx context.Context, view string) (string, error) {
	var loc string
	err := s.db.QueryRowContext(ctx, `SELECT location FROM view_state WHERE view = ?`, view).Scan(&loc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load location: %w", err)
	}
	return loc, nil
}

// LastLocation returns the location most recently saved for any view.
func (s *Store) LastLocation(ctx context.Context) (string, error) {
	var loc string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, lastLocationKey).Scan(&loc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load last location: %w", err)
	}
	return loc, nil
}
