package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite"
	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := sqlite.New(opts.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			pending, err := migrations.Pending(cmd.Context(), db.SqlDB)
			if err != nil {
				return err
			}
			if dryRun {
				for _, name := range pending {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			slog.Info("database migrations applied", "count", len(pending), "path", opts.cfg.DatabasePath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return cmd
}
