package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultAppHost            = ":8080"
	defaultMigrationsDir      = "./migrations"
	defaultPerWarehouseLayout = "v1.3"
	defaultSnapshotPageSize   = 1000
	defaultTransferActor      = "admin"
	defaultUploadRateLimit    = 10
)

type Config struct {
	DatabaseURL        string
	AppHost            string
	AppEnv             string
	LogLevel           string
	MigrationsDir      string
	PerWarehouseLayout string
	SnapshotPageSize   int
	TransferActor      string
	// UploadRateLimit is the number of uploads per client per minute; 0 disables it.
	UploadRateLimit int
}

// Load reads the configuration from the environment. The .env file is loaded
// by main before this runs and never overrides variables already set.
func Load() (*Config, error) {
	pageSize, err := intEnv("SNAPSHOT_PAGE_SIZE", defaultSnapshotPageSize)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("SNAPSHOT_PAGE_SIZE must be positive, got %d", pageSize)
	}

	uploadLimit, err := intEnv("UPLOAD_RATE_LIMIT", defaultUploadRateLimit)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AppHost:            getEnv("APP_HOST", defaultAppHost),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", defaultMigrationsDir),
		PerWarehouseLayout: getEnv("PER_WAREHOUSE_LAYOUT", defaultPerWarehouseLayout),
		SnapshotPageSize:   pageSize,
		TransferActor:      getEnv("TRANSFER_ACTOR", defaultTransferActor),
		UploadRateLimit:    uploadLimit,
	}, nil
}

func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
