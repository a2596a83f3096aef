package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and MCP server",
		Long: `Start taskify. Configuration comes from config.yaml in the working
directory, overridden by environment variables.

The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv, err := server.New(rt.cfg, rt.db, rt.logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	rt.logger.Info("Configuration loaded",
		zap.String("base_url", rt.cfg.BaseURL),
		zap.String("addr", srv.Addr()))

	return srv.Run(ctx)
}
