package main

import (
	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/service/installer"
	"github.com/sandevgo/deskpilot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Write the runtime configuration interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}
		envPath := appCfg.GetEnvPath()

		if _, err := installer.RunWizard(envPath); err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Msg("configuration written")
		logger.Info().Msg("Installation complete! You can now run 'desk start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
