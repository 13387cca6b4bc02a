package cmd

import (
	"fmt"

	"leltar/internal/database"
	"leltar/internal/database/migration"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: "Apply every pending migration, or move the schema by --steps.\n" +
			"A negative step count rolls migrations back.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = cfg.MigrationsDir
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			steps, _ := cmd.Flags().GetInt("steps")

			opts := migration.Options{Verbose: verbose, Steps: steps}
			if err := database.RunMigrations(cfg.DatabaseURL, dir, opts, log); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "", "Directory containing the migration files (default MIGRATIONS_DIR)")
	cmd.Flags().Bool("verbose", false, "Log every applied migration step")
	cmd.Flags().Int("steps", 0, "Number of migrations to apply, negative to roll back (0 applies all)")
	return cmd
}
