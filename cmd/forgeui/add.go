package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeui/forgeui/internal/scaffold"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	var (
		dir       string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "add <component>...",
		Short: "Add components and their dependencies to the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags, true)
			if err != nil {
				return err
			}

			res, err := app.svc.Add(cmd.Context(), scaffold.AddRequest{
				Components: args,
				ProjectDir: dir,
				Overwrite:  overwrite,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)
			for _, f := range res.FilesCreated {
				fmt.Fprintf(out, "  created   %s\n", f)
			}
			for _, f := range res.FilesModified {
				fmt.Fprintf(out, "  modified  %s\n", f)
			}
			for _, f := range res.FilesSkipped {
				fmt.Fprintf(out, "  skipped   %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "cwd", "c", "", "Project directory (defaults to the resolved workspace)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "o", false, "Overwrite files that already exist")

	return cmd
}
