package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over the booking REST API",
		Long: `Run a development backend that speaks the booking exchange format,
backed by the local SQLite database. Point api.base_url at it to run the
board end to end.`,
		Example: `  stretchboard serve
  stretchboard serve --addr=127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}
			// The board discards logs by default; a server should not.
			if a.config.Logging.Output == "discard" && !a.debug {
				a.config.Logging.Output = "stderr"
				a.config.Logging.Format = "console"
			}
			log, err := a.logger()
			if err != nil {
				return err
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}
			srvStore, ok := store.(server.Store)
			if !ok {
				return fmt.Errorf("store %T cannot back the server", store)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", a.config.Storage.DBPath, addr)
			return server.New(srvStore, server.Options{
				Token:  a.config.API.Token,
				Logger: log,
			}).Start(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}
