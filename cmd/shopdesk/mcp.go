package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/shopdesk/internal/transport/mcp"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/sandevgo/shopdesk/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the assistant as an MCP tool over stdio",
	Long:         `Exposes chat, reset_conversation and list_actions to an MCP client. Logs go to stderr, stdout carries the protocol.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)

		err := mcp.NewServer(a.sessions).Serve(ctx, os.Stdin, os.Stdout)
		if err != nil && ctx.Err() == nil {
			log.FromCtx(ctx).Error().Err(err).Msg("mcp server stopped")
		} else {
			err = nil
		}

		stop()
		srv.ShutdownServices(ctx, a.cleanups)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
