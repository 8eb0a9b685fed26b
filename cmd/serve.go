package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/postcraft/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return bootstrap.Run(cmd.Context(), cfg, bootstrap.Options{
				Migrate: migrate,
				Version: Version,
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
