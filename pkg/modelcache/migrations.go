package modelcache

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Migration is one schema step, versioned by its YYYYMMDDHHmmss timestamp.
type Migration struct {
	Version     int64
	Description string
	Up          func(*sql.Tx) error
}

var migrations = []Migration{
	{
		Version:     20260301120000,
		Description: "create model cache",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS model_cache (
					skill_key TEXT PRIMARY KEY,
					fingerprint TEXT NOT NULL,
					blob BLOB NOT NULL,
					updated_at DATETIME NOT NULL
				)
			`)
			return err
		},
	},
}

func migrate(ctx context.Context, db *sqlx.DB, migrations []Migration) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL,
			description TEXT
		)
	`); err != nil {
		return errors.Wrap(err, "failed to create schema_migrations table")
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	done := make(map[int64]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, m := range pending {
		if err := apply(ctx, db, m); err != nil {
			return errors.Wrapf(err, "failed to apply migration %d: %s", m.Version, m.Description)
		}
	}
	return nil
}

func apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := m.Up(tx.Tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at, description) VALUES (?, ?, ?)",
		m.Version, time.Now(), m.Description); err != nil {
		return errors.Wrap(err, "failed to record migration")
	}
	return tx.Commit()
}

func appliedVersions(ctx context.Context, db *sqlx.DB) ([]int64, error) {
	var versions []int64
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
		return nil, errors.Wrap(err, "failed to get applied migrations")
	}
	return versions, nil
}
