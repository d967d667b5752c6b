package cli

import (
	"context"
	"errors"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/internal/server"
	"github.com/matzehuels/sprintboard/internal/tui"
	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if c.cfg.Store.Backend == config.BackendMemory {
				printWarning("Using the memory store: boards are lost when the server stops")
			}

			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				srv := server.New(svc, server.Options{
					Config:  c.cfg.Server,
					Metrics: c.cfg.Layout,
					Logger:  loggerFromContext(ctx),
				})
				printInfo("Serving board API on %s", StyleHighlight.Render(c.cfg.Server.Addr))
				return runServer(ctx, srv)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// runServer runs the API until it fails, ctx ends, or a termination signal
// arrives.
func runServer(ctx context.Context, srv *server.Server) error {
	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return srv.Run(ctx)
		}, func(error) {
			cancel()
		})
	}

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err := g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		return nil
	}
	return err
}

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the board interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				return tui.Run(ctx, svc, c.cfg.Board, c.cfg.Layout)
			})
		},
	}
}
