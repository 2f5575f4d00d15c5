package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/service/installer"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure ShopDesk and prepare its database",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		// run wizard (includes save and database steps)
		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		// Load the newly created .env file so later config parsing sees the values
		envPath := config.GetEnvPath()
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", config.GetRuntimePath())
		logger.Info().Msg("Installation complete! Run 'shopdesk chat' or 'shopdesk start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
