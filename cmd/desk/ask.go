package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Send one message through the router and print the reply",
	Long:  `Runs a single message through the same router the bot uses, without Telegram. Logs go to stderr.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := log.NewContextWithWriter(cmd.Context(), os.Stderr, debug || config.IsDebug())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		router, db := newRouter(ctx, appCfg)
		if db != nil {
			defer db.Close()
		}

		reply := router.Handle(ctx, core.IncomingMessage{
			Text:     strings.Join(args, " "),
			SenderID: "cli",
		})
		_, err := fmt.Fprintln(cmd.OutOrStdout(), reply)
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
