package cli

import (
	"fmt"

	"shop/internal/database"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/spf13/cobra"
)

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <username>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			db, err := database.Open(database.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseDSN})
			if err != nil {
				return err
			}
			defer database.Close(db)

			auth := services.NewAuthService(repositories.NewGORMUserRepository(db), cfg.JWTSecret, cfg.TokenTTL)
			user, err := auth.Promote(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		},
	}
}
