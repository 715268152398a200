package repository_test

import (
	"context"
	"testing"
	"time"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/internal/repository"
	"github.com/limbo/companion/pkg/cleanup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func TestPGStoreIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	store, err := repository.NewPGStore(ctx, setupTestDB(t))
	require.NoError(t, err)
	t.Cleanup(cleanup.CleanUp)
	require.NoError(t, store.EnsureSchema(ctx))

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "user_progress")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
	})
	t.Run("set and overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "user_progress", `{"totalXP":5}`))
		require.NoError(t, store.Set(ctx, "user_progress", `{"totalXP":10}`))
		value, err := store.Get(ctx, "user_progress")
		assert.NoError(t, err)
		assert.Equal(t, `{"totalXP":10}`, value)
	})
	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "first_launch", "true"))
		require.NoError(t, store.Clear(ctx))
		_, err := store.Get(ctx, "first_launch")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
		_, err = store.Get(ctx, "user_progress")
		assert.ErrorIs(t, err, errorvalues.ErrKeyNotFound)
	})
}

func setupTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("companion"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	return &testPGConfig{
		connStr: connStr,
	}
}
