package snapshot

import (
	"context"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLiteStore is a durable Store backed by a local SQLite file.
type SQLiteStore struct {
	pool *sqlitex.Pool
}

// OpenSQLite opens (and creates if needed) the snapshot database at path.
// Use ":memory:" for an in-memory database in tests. The caller must Close
// the store when done.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("[OpenSQLite] path is required")
	}

	// A single-key store never benefits from concurrent readers; two
	// connections cover the demo process and one background caller. An
	// in-memory database must use a single connection because each
	// in-memory connection is an independent database.
	poolSize := 2
	if path == ":memory:" {
		poolSize = 1
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "[OpenSQLite] opening %s", path)
	}
	return &SQLiteStore{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return errors.Wrap(err, "[SQLiteStore.Close]")
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return "", false, errors.Wrap(err, "[SQLiteStore.Get] take connection")
	}
	defer s.pool.Put(conn)

	var value string
	found := false
	err = sqlitex.Execute(conn, `SELECT value FROM snapshots WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			found = true
			return nil
		},
	})
	if err != nil {
		return "", false, errors.Wrap(err, "[SQLiteStore.Get] query")
	}
	return value, found, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "[SQLiteStore.Set] take connection")
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{
			Args: []any{key, value, NowTimeFunc().Unix()},
		})
	if err != nil {
		return errors.Wrap(err, "[SQLiteStore.Set] upsert")
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "[SQLiteStore.Delete] take connection")
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM snapshots WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
	})
	if err != nil {
		return errors.Wrap(err, "[SQLiteStore.Delete] delete")
	}
	return nil
}
