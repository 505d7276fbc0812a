package main

import (
	"context"
	"io"

	"linernotes/internal/catalog"
	"linernotes/internal/tui"

	"github.com/spf13/cobra"
)

func (app *Application) createBrowseCommand(ctx context.Context) *cobra.Command {
	var (
		location      string
		debounceMS    int
		reducedMotion bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the album listing in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if location != "" {
				app.Config.Catalog.Location = location
			}
			if cmd.Flags().Changed("debounce") {
				app.Config.Browse.DebounceMS = debounceMS
			}
			if reducedMotion {
				app.Config.Browse.ReducedMotion = true
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}

			src, err := catalog.SourceFor(app.Config.Catalog)
			if err != nil {
				return err
			}

			// The terminal belongs to the browser; logs only go to the log file
			if w, ok := app.logCloser.(io.Writer); ok && app.Config.Logging.File != "" {
				app.Logger.SetOutput(w)
			} else {
				app.Logger.SetOutput(io.Discard)
			}

			browser := tui.NewBrowser(app.Config.Browse, app.sorter(), app.Logger)
			return browser.Run(ctx, src, catalog.ParseFormat(app.Config.Catalog.Format))
		},
	}

	cmd.Flags().StringVar(&location, "catalog", "", "catalog location: path, http(s):// URL or s3://bucket/key")
	cmd.Flags().IntVar(&debounceMS, "debounce", 0, "search debounce in milliseconds (overrides browse.debounce_ms)")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "show every card at once instead of revealing them")

	return cmd
}
