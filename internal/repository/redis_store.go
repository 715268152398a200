package repository

import (
	"context"
	"errors"
	"time"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/pkg/cleanup"
	goredis "github.com/redis/go-redis/v9"
)

const clearBatch = 100

// RedisStore namespaces every key with prefix so Clear touches only its own keys.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.New("redis ping error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    rdb.Close,
	})
	return NewRedisStoreWithClient(rdb, prefix), nil
}

func NewRedisStoreWithClient(rdb *goredis.Client, prefix string) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (rs *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := rs.rdb.Get(ctx, rs.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", errorvalues.ErrKeyNotFound
		}
		return "", errors.New("redis get error: " + err.Error())
	}
	return value, nil
}

func (rs *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := rs.rdb.Set(ctx, rs.prefix+key, value, 0).Err(); err != nil {
		return errors.New("redis set error: " + err.Error())
	}
	return nil
}

func (rs *RedisStore) Clear(ctx context.Context) error {
	iter := rs.rdb.Scan(ctx, 0, rs.prefix+"*", clearBatch).Iterator()
	batch := make([]string, 0, clearBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := rs.rdb.Del(ctx, batch...).Err(); err != nil {
				return errors.New("redis del error: " + err.Error())
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.New("redis scan error: " + err.Error())
	}
	if len(batch) > 0 {
		if err := rs.rdb.Del(ctx, batch...).Err(); err != nil {
			return errors.New("redis del error: " + err.Error())
		}
	}
	return nil
}
