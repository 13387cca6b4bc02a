package database

import (
	"fmt"
	"path/filepath"

	"leltar/internal/database/migration"

	"go.uber.org/zap"
)

// RunMigrations moves the schema using the migrations found in migrationsDir.
func RunMigrations(dbURL, migrationsDir string, opts migration.Options, logger *zap.Logger) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir %q: %w", migrationsDir, err)
	}

	return migration.Migrate(dbURL, "file://"+filepath.ToSlash(absPath), opts, logger)
}
