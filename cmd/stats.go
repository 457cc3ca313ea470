package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
	"github.com/msomdec/minigolf-scorekeeper/internal/report"
	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a player's statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := lookupPlayer(cmd.Context(), db, email)
			if err != nil {
				return err
			}
			st, err := service.NewStatsService(db.Sessions(), db.Holes()).Get(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.RenderStats(user.DisplayName, st))
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "player email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func lookupPlayer(ctx context.Context, db *sqlite.DB, email string) (*domain.User, error) {
	user, err := db.Users().GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no player with email %q", email)
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return user, nil
}
