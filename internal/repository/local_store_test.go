package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkKVStore runs the contract every backend must honour.
func checkKVStore(t *testing.T, store repository.KVStore) {
	ctx := context.Background()
	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "daily_entries")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
	})
	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "daily_entries", `[]`))
		value, err := store.Get(ctx, "daily_entries")
		assert.NoError(t, err)
		assert.Equal(t, `[]`, value)
	})
	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "daily_entries", `[{"date":"2026-10-14"}]`))
		value, err := store.Get(ctx, "daily_entries")
		assert.NoError(t, err)
		assert.Equal(t, `[{"date":"2026-10-14"}]`, value)
	})
	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "first_launch", "true"))
		require.NoError(t, store.Clear(ctx))
		_, err := store.Get(ctx, "first_launch")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
		_, err = store.Get(ctx, "daily_entries")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	checkKVStore(t, repository.NewMemoryStore())
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "companion.db")
	store, err := repository.NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	assert.Equal(t, path, store.Path())
	checkKVStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "companion.db")
	store, err := repository.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "user_progress", `{"petName":"Pebble"}`))
	require.NoError(t, store.Close())

	reopened, err := repository.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	value, err := reopened.Get(ctx, "user_progress")
	assert.NoError(t, err)
	assert.Equal(t, `{"petName":"Pebble"}`, value)
}

func TestRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repository.NewRedisStore(ctx, "127.0.0.1:1", "companion:")
	assert.Error(t, err)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	store := repository.NewRedisStoreWithClient(rdb, "companion:")
	_, err = store.Get(ctx, "user_progress")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errorvalues.ErrKeyNotFound)
	assert.Error(t, store.Set(ctx, "user_progress", "{}"))
	assert.Error(t, store.Clear(ctx))
}
