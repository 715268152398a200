package repository_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/internal/repository"
	"github.com/limbo/companion/pkg/cleanup"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStoreIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	addr := setupTestRedis(t)
	store, err := repository.NewRedisStore(ctx, addr, "companion:")
	require.NoError(t, err)
	t.Cleanup(cleanup.CleanUp)

	checkKVStore(t, store)

	t.Run("clear keeps foreign keys", func(t *testing.T) {
		rdb := goredis.NewClient(&goredis.Options{Addr: addr})
		t.Cleanup(func() { rdb.Close() })
		require.NoError(t, rdb.Set(ctx, "other:user_progress", "{}", 0).Err())

		// more keys than one SCAN/DEL batch
		for i := 0; i < 250; i++ {
			require.NoError(t, store.Set(ctx, "entry_"+strconv.Itoa(i), "{}"))
		}
		require.NoError(t, store.Clear(ctx))

		left, err := rdb.Keys(ctx, "companion:*").Result()
		require.NoError(t, err)
		assert.Empty(t, left)
		_, err = store.Get(ctx, "entry_0")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
		value, err := rdb.Get(ctx, "other:user_progress").Result()
		assert.NoError(t, err)
		assert.Equal(t, "{}", value)
	})
}

func setupTestRedis(t *testing.T) string {
	container, err := testcontainers.GenericContainer(context.Background(), testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	addr, err := container.Endpoint(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	return addr
}
