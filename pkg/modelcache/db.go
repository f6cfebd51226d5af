// Package modelcache persists trained skill models in SQLite so repeated
// model generation only retrains skills whose training data changed.
package modelcache

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// BasePathEnv overrides the directory holding the cache database.
const BasePathEnv = "YOZUK_BASE_PATH"

// DefaultPath returns the default location of the cache database.
func DefaultPath() (string, error) {
	if base := os.Getenv(BasePathEnv); base != "" {
		return filepath.Join(base, "modelcache.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".yozuk", "modelcache.db"), nil
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=memory",
	"PRAGMA busy_timeout=5000",
}

func openDB(ctx context.Context, path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open cache database")
	}
	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// configure switches the database to WAL mode with a single connection, so
// concurrent trainers serialize their writes.
func configure(ctx context.Context, db *sqlx.DB) error {
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute %s", pragma)
		}
	}
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var mode string
	if err := db.GetContext(ctx, &mode, "PRAGMA journal_mode"); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(mode) != "wal" {
		return errors.Errorf("WAL mode not enabled, got %s", mode)
	}
	return nil
}
