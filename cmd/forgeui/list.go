package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the items available in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags, true)
			if err != nil {
				return err
			}

			items, err := app.svc.ListItems(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, item := range items {
				if item.Description != "" {
					fmt.Fprintf(out, "%-24s %-20s %s\n", item.Name, item.Kind, item.Description)
					continue
				}
				fmt.Fprintf(out, "%-24s %s\n", item.Name, item.Kind)
			}
			return nil
		},
	}

	return cmd
}
