// Package database handles the initialization and connection to the SQLite db
// and implements the repositories on top of it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath returns ~/.tramo/tramo.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tramo", "tramo.db"), nil
}

// InitDB opens the database at path (DefaultPath when empty), applies the
// connection pragmas and brings the schema up to date.
func InitDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Transactions take the write lock at BEGIN so that a group's
	// load-mutate-write never has to upgrade a read lock under contention.
	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite benefits from a single writer connection. It also keeps an
	// in-memory database alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Foreign keys are required for CASCADE deletions. The busy timeout
	// lets SQLite retry on lock contention for 5 seconds.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("Failed to apply pragma", "pragma", pragma, "error", err)
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing db", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
