// Package sqlite provides the web client storage adapter backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/facelogin/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/facelogin/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for per-client values.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a web client SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get loads one value by scope and key.
func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, fmt.Errorf("storage is not configured")
	}
	scope, key, err := normalizeKey(scope, key)
	if err != nil {
		return "", false, err
	}

	var value string
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM client_values WHERE scope = ? AND key = ?`,
		scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get client value: %w", err)
	}
	return value, true, nil
}

// Put upserts one value by scope and key.
func (s *Store) Put(ctx context.Context, scope, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope, key, err := normalizeKey(scope, key)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO client_values (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = excluded.updated_at`,
		scope, key, value, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put client value: %w", err)
	}
	return nil
}

// Delete removes one value by scope and key.
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope, key, err := normalizeKey(scope, key)
	if err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM client_values WHERE scope = ? AND key = ?`,
		scope, key,
	); err != nil {
		return fmt.Errorf("delete client value: %w", err)
	}
	return nil
}

func normalizeKey(scope, key string) (string, string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "", "", fmt.Errorf("scope is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("key is required")
	}
	return scope, key, nil
}
