package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// SQLiteKV implements KV on an embedded SQLite database with a single kv table.
type SQLiteKV struct{ db *sql.DB }

// OpenSQLite opens (or creates) the database at path, applies recommended
// PRAGMAs and runs migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool tiny.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (k *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := k.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

func (k *SQLiteKV) Set(ctx context.Context, key string, blob []byte) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv (k, v, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET
			v          = excluded.v,
			updated_at = excluded.updated_at`,
		key, blob, time.Now().UTC().Unix(),
	)
	return err
}

// Close releases the underlying database resources.
func (k *SQLiteKV) Close() error {
	return k.db.Close()
}
