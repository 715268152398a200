package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/companion/internal/controller"
	"github.com/limbo/companion/internal/repository"
	"github.com/limbo/companion/internal/service"
	"github.com/limbo/companion/pkg/cleanup"
	"github.com/limbo/companion/pkg/config"
	"github.com/limbo/companion/pkg/logger"
)

const closeTimeout = 10 * time.Second

type app struct {
	log     *logger.Logger
	storage *service.StorageService
	ctrl    *controller.Controller
}

func openApp(ctx context.Context, envPath string) (*app, error) {
	cfg, err := config.New(envPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode())
	if err != nil {
		return nil, errors.New("creating logger error: " + err.Error())
	}
	log = log.With("session_id", uuid.NewString())
	restore := log.ReplaceGlobals()
	cleanup.Register(&cleanup.Job{
		Name: "restoring global logger",
		F: func() error {
			restore()
			return nil
		},
	})
	store, err := openStore(ctx, cfg)
	if err != nil {
		cleanup.CleanUp()
		return nil, err
	}
	storage := service.NewStorageService(store, service.WithLogger(log))
	if storage.IsFirstLaunch(ctx) {
		log.Info("first launch on this installation")
	}
	ctrl := controller.New(storage, controller.WithLogger(log))
	ctrl.Start(ctx)
	return &app{
		log:     log,
		storage: storage,
		ctrl:    ctrl,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.KVStore, error) {
	switch cfg.Storage() {
	case config.StorageMemory:
		return repository.NewMemoryStore(), nil
	case config.StorageSQLite:
		return repository.NewSQLiteStore(ctx, cfg.SQLitePath())
	case config.StoragePostgres:
		store, err := repository.NewPGStore(ctx, &repository.PGCfg{
			Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: cfg.GetString("POSTGRES_USER"),
			Password: cfg.GetString("POSTGRES_PASSWORD"),
			DB:       cfg.GetString("POSTGRES_DB"),
		})
		if err != nil {
			return nil, err
		}
		if err = store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageRedis:
		return repository.NewRedisStore(ctx, cfg.RedisAddr(), cfg.RedisPrefix())
	default:
		return nil, errors.New("unknown storage backend: " + cfg.Storage())
	}
}

// close flushes the last snapshot before releasing the store.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.ctrl.Close(ctx); err != nil {
		a.log.Error("closing controller error", "error", err)
	}
	cleanup.CleanUp()
	a.log.Sync()
}
