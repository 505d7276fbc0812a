package server

import (
	"fmt"
	"time"

	"linernotes/internal/catalog"
)

// reloadDelay coalesces the burst of events an editor emits on save
const reloadDelay = 250 * time.Millisecond

// startCatalogWatcher hot-reloads a local catalog file. Remote catalogs are
// read once and never watched.
func (s *SiteServer) startCatalogWatcher() error {
	src, ok := s.source.(catalog.FileSource)
	if !ok {
		s.logger.WithField("catalog", s.source.Name()).Debug("Catalog is not a local file, hot reload disabled")
		return nil
	}

	w := catalog.NewWatcher(src, s.format, s.store, s.logger, reloadDelay)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", src.Path, err)
	}
	s.watcher = w
	return nil
}

// stopCatalogWatcher stops the watcher if one is running
func (s *SiteServer) stopCatalogWatcher() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
}
