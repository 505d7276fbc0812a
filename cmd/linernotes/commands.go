package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with all subcommands attached
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linernotes",
		Short: "Personal site with a searchable album listing",
		Long: `linernotes serves a static personal site together with an album listing
that can be searched, filtered by genre and sorted, and offers the same
listing as an interactive terminal browser.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the returned error once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", defaultConfigPath, "path to the TOML configuration file")

	rootCmd.AddCommand(app.createServeCommand(ctx))
	rootCmd.AddCommand(app.createBrowseCommand(ctx))
	rootCmd.AddCommand(app.createListCommand(ctx))

	return rootCmd
}
