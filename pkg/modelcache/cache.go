package modelcache

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Cache keeps the latest trained blob of every skill with the fingerprint of
// the training run that produced it.
type Cache struct {
	db *sqlx.DB
}

type row struct {
	Key         string    `db:"skill_key"`
	Fingerprint string    `db:"fingerprint"`
	Blob        []byte    `db:"blob"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Open opens the cache at path, creating and migrating it when needed.
func Open(ctx context.Context, path string) (*Cache, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db, migrations); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get returns the blob cached for key when it was trained with fingerprint.
func (c *Cache) Get(ctx context.Context, key, fingerprint string) ([]byte, bool, error) {
	var r row
	err := c.db.GetContext(ctx, &r,
		"SELECT skill_key, fingerprint, blob, updated_at FROM model_cache WHERE skill_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read cached model of %s", key)
	}
	if r.Fingerprint != fingerprint {
		return nil, false, nil
	}
	return r.Blob, true, nil
}

// Put replaces the cached blob of key.
func (c *Cache) Put(ctx context.Context, key, fingerprint string, blob []byte) error {
	_, err := c.db.NamedExecContext(ctx, `
		INSERT INTO model_cache (skill_key, fingerprint, blob, updated_at)
		VALUES (:skill_key, :fingerprint, :blob, :updated_at)
		ON CONFLICT(skill_key) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			blob = excluded.blob,
			updated_at = excluded.updated_at
	`, row{Key: key, Fingerprint: fingerprint, Blob: blob, UpdatedAt: time.Now()})
	return errors.Wrapf(err, "failed to cache model of %s", key)
}

// Prune drops the entries of skills not in keys and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, keys []string) (int64, error) {
	query := "DELETE FROM model_cache"
	var args []any
	if len(keys) > 0 {
		var err error
		query, args, err = sqlx.In("DELETE FROM model_cache WHERE skill_key NOT IN (?)", keys)
		if err != nil {
			return 0, errors.Wrap(err, "failed to build prune query")
		}
	}
	res, err := c.db.ExecContext(ctx, c.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune model cache")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "failed to count pruned models")
}

// Keys returns the cached skill keys in order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := c.db.SelectContext(ctx, &keys, "SELECT skill_key FROM model_cache ORDER BY skill_key"); err != nil {
		return nil, errors.Wrap(err, "failed to list cached models")
	}
	return keys, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
