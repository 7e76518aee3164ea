package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeui/forgeui/internal/scaffold"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	var (
		baseColor    string
		cssVariables bool
		srcDir       bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a project for catalog components",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags, true)
			if err != nil {
				return err
			}

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			res, err := app.svc.Init(cmd.Context(), scaffold.InitRequest{
				ProjectDir:     dir,
				Style:          flags.style,
				BaseColor:      baseColor,
				NoCSSVariables: !cssVariables,
				SrcDir:         srcDir,
				Force:          force,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseColor, "base-color", "", "Base color theme (e.g. slate, zinc)")
	cmd.Flags().BoolVar(&cssVariables, "css-variables", true, "Use CSS-variable driven theming")
	cmd.Flags().BoolVar(&srcDir, "src-dir", false, "Prefer src/-rooted paths when the project has no stylesheet yet")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing components.json")

	return cmd
}
