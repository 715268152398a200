package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/pkg/cleanup"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the on-device store: one sqlite file with a kv_store table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New("creating sqlite directory error: " + err.Error())
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.New("opening sqlite error: " + err.Error())
	}
	// Single writer, the store serializes its own operations
	db.SetMaxOpenConns(1)
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	if err != nil {
		db.Close()
		return nil, errors.New("creating kv_store table error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing sqlite " + path,
		F:    db.Close,
	})
	return &SQLiteStore{
		db:   db,
		path: path,
	}, nil
}

func (ss *SQLiteStore) Path() string {
	return ss.path
}

func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}

func (ss *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	row := ss.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errorvalues.ErrKeyNotFound
		}
		return "", errors.New("getting value by key error: " + err.Error())
	}
	return value, nil
}

func (ss *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := ss.db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		key,
		value,
	)
	if err != nil {
		return errors.New("setting value error: " + err.Error())
	}
	return nil
}

func (ss *SQLiteStore) Clear(ctx context.Context) error {
	_, err := ss.db.ExecContext(ctx, `DELETE FROM kv_store;`)
	if err != nil {
		return errors.New("clearing kv_store error: " + err.Error())
	}
	return nil
}
