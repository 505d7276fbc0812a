package main

import (
	"context"

	"linernotes/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (app *Application) createServeCommand(ctx context.Context) *cobra.Command {
	var (
		port    string
		catalog string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the album listing over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				app.Config.Server.Port = port
			}
			if catalog != "" {
				app.Config.Catalog.Location = catalog
			}
			if noWatch {
				app.Config.Catalog.WatchForChanges = false
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}

			return app.serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides server.port)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog location: path, http(s):// URL or s3://bucket/key")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the catalog when the file changes")

	return cmd
}

func (app *Application) serve(ctx context.Context) error {
	siteServer, err := server.NewSiteServer(app.Config, app.Logger)
	if err != nil {
		return err
	}

	// A failed load is shown on the listing; the rest of the site still serves
	_ = siteServer.LoadCatalog(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return siteServer.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			app.Logger.Info("Received shutdown signal")
		}
		return nil
	})

	return g.Wait()
}
