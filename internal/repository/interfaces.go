package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -destination=mocks/mock_kvstore.go -package=mocks github.com/limbo/companion/internal/repository KVStore

// KVStore is the device-level key-value storage. Get returns
// errorvalues.ErrKeyNotFound for keys that were never set.
type KVStore interface {
	// Reads raw value stored under key
	Get(ctx context.Context, key string) (string, error)
	// Overwrites value under key
	Set(ctx context.Context, key, value string) error
	// Removes every key owned by the store
	Clear(ctx context.Context) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
