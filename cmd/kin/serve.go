package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/infrastructure/httpserver"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a tree over a local JSON HTTP API",
		Long: `Starts an HTTP server for the selected tree. It listens on server.addr
from config.yaml (default 127.0.0.1:7421) unless --addr is given.
Stop it with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				listenAddr := d.Config.Server.Addr
				if addr != "" {
					listenAddr = addr
				}

				srv := httpserver.New(d.TreeName, httpserver.Handlers{
					Persons:       d.Persons,
					Relationships: d.Relationships,
					Transfer:      d.Transfer,
				}, d.Logger)

				fmt.Fprintf(cmd.OutOrStdout(), "Serving tree %q on http://%s\n", d.TreeName, listenAddr)
				return srv.Listen(ctx, listenAddr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
