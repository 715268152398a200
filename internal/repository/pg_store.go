package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/pkg/cleanup"
)

// PGStore keeps key-value pairs in a single postgres table.
type PGStore struct {
	conn PgConnection
}

func NewPGStore(ctx context.Context, cfg DBConfig) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, errors.New("creating connection for pgStore error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return NewPGStoreWithConn(ctx, pool)
}

func NewPGStoreWithConn(ctx context.Context, conn PgConnection) (*PGStore, error) {
	err := conn.Ping(ctx)
	if err != nil {
		return nil, errors.New("error while pinging connection for pgStore: " + err.Error())
	}
	return &PGStore{
		conn: conn,
	}, nil
}

func (ps *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := ps.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	if err != nil {
		return errors.New("creating kv_store table error: " + err.Error())
	}
	return nil
}

func (ps *PGStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	row := ps.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorvalues.ErrKeyNotFound
		}
		return "", errors.New("getting value by key error: " + err.Error())
	}
	return value, nil
}

func (ps *PGStore) Set(ctx context.Context, key, value string) error {
	_, err := ps.conn.Exec(ctx, `INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;`,
		key,
		value,
	)
	if err != nil {
		return errors.New("setting value error: " + err.Error())
	}
	return nil
}

func (ps *PGStore) Clear(ctx context.Context) error {
	_, err := ps.conn.Exec(ctx, `DELETE FROM kv_store;`)
	if err != nil {
		return errors.New("clearing kv_store error: " + err.Error())
	}
	return nil
}
