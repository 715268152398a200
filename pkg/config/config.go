package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultEnvPath = "./configs/.env"

const (
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
}

// New loads envs from path. A missing file is fine, process env is used as is.
func New(path string) (*Config, error) {
	if path == "" {
		path = DefaultEnvPath
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("loading envs error: " + err.Error())
	}
	return &Config{}, nil
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) Storage() string {
	return strings.ToLower(c.GetStringOr("COMPANION_STORAGE", StorageSQLite))
}

func (c *Config) SQLitePath() string {
	return c.GetStringOr("COMPANION_SQLITE_PATH", "./data/companion.db")
}

func (c *Config) LogMode() string {
	return c.GetStringOr("COMPANION_LOG_MODE", "dev")
}

func (c *Config) RedisAddr() string {
	return c.GetStringOr("REDIS_ADDR", "localhost:6379")
}

func (c *Config) RedisPrefix() string {
	return c.GetStringOr("REDIS_PREFIX", "companion:")
}
