package cli

import (
	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/server"
	"github.com/pagesplit/pagesplit/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the pagesplit HTTP API.

Endpoints:
  GET  /health
  POST /api/ztest
  POST /api/power
  GET  /api/runs
  GET  /api/runs/{id}

Example:
  pagesplit serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				srv := server.New(s, port, a.logger,
					server.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout))
				return srv.Start()
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (defaults to config)")
	return cmd
}
