package main

import (
	"github.com/spf13/cobra"

	"github.com/forgeui/forgeui/internal/mcpserver"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol stream; logs must stay structured
			// on stderr.
			app, err := newAppContext(flags, false)
			if err != nil {
				return err
			}

			srv := mcpserver.New(app.svc, mcpserver.Options{
				Name:             "forgeui",
				Version:          version,
				ConcurrencyLimit: concurrency,
				Log:              app.log,
			})
			return srv.Serve()
		},
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", mcpserver.DefaultConcurrencyLimit,
		"Maximum concurrently in-flight mutating operations")

	return cmd
}
