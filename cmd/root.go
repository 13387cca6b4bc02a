package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"leltar/internal/core/config"
	"leltar/internal/core/container"
	"leltar/internal/core/logger"
	"leltar/internal/database"
	"leltar/pkg/metadata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	config    *config.Config
	logger    *zap.Logger
	db        *sql.DB
	container *container.Container
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewLogger(cfg.AppEnv, cfg.LogLevel), nil
}

// bootstrap connects to the database and builds the container.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to the database")

	c, err := container.NewAppContainer(db, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{config: cfg, logger: log, db: db, container: c}, nil
}

func monthArg(value string) (metadata.Month, error) {
	month, err := metadata.ParseMonth(value)
	if err != nil {
		return metadata.Month{}, fmt.Errorf("invalid month %q, want YYYY-MM", value)
	}
	return month, nil
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "leltar",
		Short:         "Monthly stock reconciliation and transfer ledger service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUploadCmd(),
		newExportTransfersCmd(),
		newImportTransfersCmd(),
		newReconcileCmd(),
		newPurgeCmd(),
		newReportCmd(),
	)

	return rootCmd
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
