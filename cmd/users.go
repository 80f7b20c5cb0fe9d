package cmd

import (
	"fmt"

	"github.com/charles-oliveira/web-2/auth"
	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage ledger owners",
	}
	cmd.AddCommand(provisionUserCmd())
	return cmd
}

func provisionUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision <username>",
		Short: "Create a user with default settings and print an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			user, settings, err := storage.ProvisionUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			token, err := tokens.Issue(user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %d\n", user.ID)
			fmt.Fprintf(out, "username: %s\n", user.Username)
			fmt.Fprintf(out, "language: %s\n", settings.Language)
			fmt.Fprintf(out, "token:    %s\n", token)
			return nil
		},
	}
}
