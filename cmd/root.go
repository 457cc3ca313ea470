package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msomdec/minigolf-scorekeeper/internal/config"
	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite"
)

// Execute runs the minigolf command line.
func Execute() error {
	return newRootCmd().Execute()
}

type rootOptions struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "minigolf",
		Short:         "Mini-golf scorekeeper: timed holes, decaying scores, loop tracking",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			setupLogger(cmd, level)
			opts.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (toml, yaml or json)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(opts),
		newMigrateCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

// setupLogger installs the default logger. The server logs text on stdout
// and JSON on stderr; other commands keep stdout for their output and log
// text to stderr.
func setupLogger(cmd *cobra.Command, level slog.Level) {
	logOpts := &slog.HandlerOptions{Level: level}
	if cmd.Name() != "serve" {
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), logOpts)))
		return
	}
	slog.SetDefault(slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(cmd.OutOrStdout(), logOpts),
		slog.NewJSONHandler(cmd.ErrOrStderr(), logOpts),
	)))
}

// openDB opens the configured database and applies pending migrations.
func openDB(ctx context.Context, cfg config.Config) (*sqlite.DB, error) {
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
