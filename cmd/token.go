package cmd

import (
	"fmt"

	"github.com/charles-oliveira/web-2/auth"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storage, err := openStorage()
			if err != nil {
				return err
			}
			defer storage.Close()

			user, err := storage.GetUser(cmd.Context(), userID)
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
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "user to issue the token for")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
