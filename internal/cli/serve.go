package cli

import (
	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/internal/server"
)

// serveCommand creates the serve command, which exposes the matrix and
// snapshot history over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, input string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dependency matrix over HTTP",
		Long: `Serve the dependency matrix and snapshot history as a JSON API.

The matrix file is read per request, so re-running analyze refreshes
the API without a restart. Endpoints:

  GET /healthz              liveness probe
  GET /api/matrix           the full matrix
  GET /api/matrix/{group}   one group's artifacts
  GET /api/snapshots        saved snapshots, newest first
  GET /api/snapshots/{id}   one full snapshot

The server runs until interrupted and shuts down gracefully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("addr") && c.cfg.Serve.Addr != "" {
				addr = c.cfg.Serve.Addr
			}
			if !flags.Changed("input") {
				input = c.defaultMatrixPath()
			}

			st, err := c.newStore(ctx)
			if err != nil {
				c.Logger.Warn("snapshot store unavailable, /api/snapshots disabled", "err", err)
				st = nil
			} else {
				defer st.Close(ctx)
			}

			srv := server.New(server.Config{
				Addr:       addr,
				MatrixPath: input,
				Store:      st,
				Logger:     c.Logger,
			})

			printInfo("Serving %s on %s", StyleHighlight.Render(input), StyleHighlight.Render(addr))
			printDetail("Press Ctrl+C to stop")
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&input, "input", defaultOutputDir+"/"+defaultOutputFile, "matrix file to serve")

	return cmd
}
