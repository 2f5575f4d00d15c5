package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/shopdesk/internal/transport/cli"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/sandevgo/shopdesk/pkg/srv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:          "chat",
	Short:        "Talk to the assistant in the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)

		rl, err := cli.NewReadLine(a.sessions, a.router, a.cfg)
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to open terminal")
			stop()
			srv.ShutdownServices(ctx, a.cleanups)
			return err
		}
		services := append(a.cleanups, rl)

		// The prompt owns the terminal until the user quits
		err = rl.Start(ctx)

		stop()
		srv.ShutdownServices(ctx, services)
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
