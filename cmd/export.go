package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
	"github.com/msomdec/minigolf-scorekeeper/internal/report"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		email     string
		sessionID int64
		out       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a session scorecard as TOML",
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
			session, err := service.NewSessionService(db.Sessions(), db.Holes(), nil).Get(cmd.Context(), user.ID, sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("session %d not found for %s", sessionID, user.Email)
				}
				return err
			}

			data, err := report.NewScorecard(user, session).Encode()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write scorecard: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "player email address")
	cmd.Flags().Int64Var(&sessionID, "session", 0, "session id")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}
