package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source
)

type Options struct {
	Verbose bool
	// Steps moves the schema relative to its current version. Zero applies
	// every pending migration, a negative value rolls back.
	Steps int
}

func Migrate(dbURL, sourceURL string, opts Options, log *zap.Logger) error {
	log.Info("Running database migration", zap.String("source", sourceURL), zap.Int("steps", opts.Steps))

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("Closing migrator failed", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()
	m.Log = &zapLogger{logger: log.Sugar(), verbose: opts.Verbose}

	if opts.Steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(opts.Steps)
	}
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("Database migration: no change needed")
	case err != nil:
		log.Error("Database migration failed", zap.Error(err))
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("Database schema is empty")
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case dirty:
		return fmt.Errorf("schema version %d is dirty, fix it and force the version", version)
	default:
		log.Info("Database schema ready", zap.Uint("version", version))
	}
	return nil
}

// zapLogger adapts zap to migrate.Logger.
type zapLogger struct {
	logger  *zap.SugaredLogger
	verbose bool
}

func (l *zapLogger) Printf(format string, v ...any) {
	l.logger.Infof("DB Migration: "+format, v...)
}

func (l *zapLogger) Verbose() bool {
	return l.verbose
}
