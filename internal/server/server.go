package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"linernotes/internal/cache"
	"linernotes/internal/catalog"
	"linernotes/internal/config"
	"linernotes/internal/listing"
	"linernotes/internal/ngrok"
	"linernotes/internal/render"

	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout   = 10 * time.Second
	listingCacheTTL   = 5 * time.Minute
	listingCacheLimit = 512
)

// SiteServer serves the static personal site and the album listing
type SiteServer struct {
	config       *config.Config
	logger       *logrus.Logger
	store        *catalog.Store
	source       catalog.Source
	format       catalog.Format
	renderer     *render.Renderer
	sorter       *listing.Sorter
	watcher      *catalog.Watcher
	listings     *cache.ListingCache
	ngrokService *ngrok.Service
	httpServer   *http.Server
}

// NewSiteServer creates a site server. The catalog is not loaded until
// LoadCatalog is called; until then the listing reports a load error.
func NewSiteServer(cfg *config.Config, logger *logrus.Logger) (*SiteServer, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	sorter, err := listing.NewSorterForLocale(cfg.Catalog.Locale)
	if err != nil {
		logger.WithError(err).WithField("locale", cfg.Catalog.Locale).Warn("Unknown catalog locale, collating as English")
	}

	src, err := catalog.SourceFor(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog location: %w", err)
	}

	ngrokSvc, err := ngrok.NewService(&cfg.Ngrok, logger)
	if err != nil {
		logger.WithError(err).Warn("Ngrok service not available")
		ngrokSvc = nil
	}

	return &SiteServer{
		config:       cfg,
		logger:       logger,
		store:        catalog.NewStore(),
		source:       src,
		format:       catalog.ParseFormat(cfg.Catalog.Format),
		renderer:     renderer,
		sorter:       sorter,
		listings:     cache.NewListingCache(listingCacheTTL, listingCacheLimit),
		ngrokService: ngrokSvc,
	}, nil
}

// Store returns the store holding the served catalog
func (s *SiteServer) Store() *catalog.Store {
	return s.store
}

// LoadCatalog performs the single startup retrieval of the catalog. A failure
// is recorded in the store and returned; the server still starts and shows
// the load error on the listing.
func (s *SiteServer) LoadCatalog(ctx context.Context) error {
	cat, err := catalog.Load(ctx, s.source, s.format)
	if err != nil {
		s.store.Fail(err)
		s.logger.WithError(err).WithField("source", s.source.Name()).Error("Failed to load album catalog")
		return err
	}

	s.store.Publish(cat)
	s.logger.WithFields(logrus.Fields{
		"source": cat.Source(),
		"albums": cat.Len(),
		"genres": len(cat.Genres()),
	}).Info("Album catalog loaded")
	return nil
}

// Handler returns the fully wrapped HTTP handler
func (s *SiteServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	var handler http.Handler = mux
	handler = s.corsMiddleware(handler)
	handler = s.requestLoggingMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

func (s *SiteServer) setupRoutes(mux *http.ServeMux) {
	mux.Handle("/", s.staticHandler())
	mux.HandleFunc("/data/albums.json", s.handleCatalogData)
	mux.HandleFunc("/albums", s.handleAlbumsPage)
	mux.HandleFunc("/albums/fragment", s.handleAlbumsFragment)
	mux.HandleFunc("/api/albums", s.handleGetAlbums)
	mux.HandleFunc("/api/genres", s.handleGetGenres)
	mux.HandleFunc("/health", s.handleHealthCheck)
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *SiteServer) Start(ctx context.Context) error {
	if s.config.Catalog.WatchForChanges {
		if err := s.startCatalogWatcher(); err != nil {
			s.logger.WithError(err).Warn("Could not start catalog watcher")
		}
	}

	s.httpServer = &http.Server{
		Addr:         s.config.GetAddress(),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	localAddress := fmt.Sprintf("http://%s", s.config.GetAddress())
	s.logger.WithFields(logrus.Fields{
		"address":    localAddress,
		"static_dir": s.config.Server.StaticDir,
		"catalog":    s.source.Name(),
	}).Info("linernotes server starting")

	if err := s.ngrokService.StartTunnel(ctx, localAddress); err != nil {
		s.logger.WithError(err).Warn("Could not start ngrok tunnel")
	}

	select {
	case err, ok := <-errCh:
		if shutdownErr := s.Shutdown(); shutdownErr != nil {
			s.logger.WithError(shutdownErr).Warn("Cleanup after server failure was incomplete")
		}
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the tunnel, the watcher and the HTTP server
func (s *SiteServer) Shutdown() error {
	s.logger.Info("Shutting down linernotes server...")

	if err := s.ngrokService.Stop(); err != nil {
		s.logger.WithError(err).Warn("Failed to stop ngrok tunnel")
	}
	s.stopCatalogWatcher()
	s.listings.Close()

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	s.logger.Info("linernotes server shutdown complete")
	return nil
}
