// Package cmd implements the postcraft command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	cfgFile string
	debug   bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "postcraft",
		Short:         "Social media content backend",
		Long:          `postcraft serves the content API and offers one-shot generation, planning and maintenance commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// --debug goes through the env layer so config defaults see it.
			if debug {
				return os.Setenv("APP_DEBUG", "true")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newGenerateCommand(),
		newPlanCommand(),
		newTokenCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCommand().ExecuteContext(context.Background())
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return infraconfig.GetConfigPath("config.yml")
}

// loadConfig requires a valid config file.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath())
}

// loadOptionalConfig is for commands that work from env and defaults alone.
func loadOptionalConfig() (*config.Config, error) {
	return config.LoadOptional(configPath())
}

// commandLogger is quiet unless --debug is set.
func commandLogger(cfg *config.Config) (infralogger.Logger, error) {
	level := "warn"
	if cfg.Debug {
		level = "debug"
	}
	log, err := infralogger.New(infralogger.Config{Level: level, Development: cfg.Debug, OutputPaths: []string{"stderr"}})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "postcraft version %s\n", Version)
		},
	}
}
