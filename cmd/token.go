package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
)

func newTokenCommand() *cobra.Command {
	var userID, email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a local access token for development",
		Long: `Mint an HS256 access token signed with auth.jwt_secret. The API accepts it
exactly like an identity-provider token, so it is only for local use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOptionalConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err = cfg.Auth.Validate(); err != nil {
				return errors.Join(err, errors.New("set AUTH_JWT_SECRET or pass --debug"))
			}

			tok, err := infrajwt.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(userID, email)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID placed in the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
