package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose  bool
	registry string
	style    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "forgeui",
		Short:         "forgeui adds catalog UI components to a project and serves them over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.registry, "registry", "", "Catalog base URL (defaults to $"+registryEnvVar+")")
	cmd.PersistentFlags().StringVar(&flags.style, "style", "", "Catalog style (defaults to $"+styleEnvVar+")")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newAddCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
