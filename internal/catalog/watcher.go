package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"linernotes/internal/debounce"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher re-reads a local catalog file when it changes on disk and publishes
// the new catalog for subsequent page views. A failed reload keeps the last
// good catalog.
type Watcher struct {
	source    FileSource
	format    Format
	store     *Store
	logger    *logrus.Logger
	watcher   *fsnotify.Watcher
	debouncer *debounce.Debouncer
	stopOnce  sync.Once
	done      chan struct{}
}

// NewWatcher creates a watcher; editors emit bursts of events on save, so
// reloads are debounced by delay.
func NewWatcher(src FileSource, format Format, store *Store, logger *logrus.Logger, delay time.Duration) *Watcher {
	return &Watcher{
		source:    src,
		format:    format,
		store:     store,
		logger:    logger,
		debouncer: debounce.New(delay),
		done:      make(chan struct{}),
	}
}

// Start begins watching the directory holding the catalog file. Watching the
// directory rather than the file survives editors that replace on save.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	dir := filepath.Dir(w.source.Path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go w.watchFiles()

	w.logger.WithField("catalog_path", w.source.Path).Info("Catalog watcher started")
	return nil
}

// Done is closed once the watch loop has exited
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// watchFiles selects on watcher channels and dispatches events.
func (w *Watcher) watchFiles() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Catalog watcher error")
		}
	}
}

// handleFileEvent ignores everything but writes to the catalog file itself.
func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.source.Path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.WithFields(logrus.Fields{
		"catalog_path": event.Name,
		"op":           event.Op.String(),
	}).Debug("Catalog file changed")

	w.debouncer.Schedule(w.reload)
}

// reload performs one load and publishes the result.
func (w *Watcher) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := Load(ctx, w.source, w.format)
	if err != nil {
		w.store.Fail(err)
		w.logger.WithError(err).WithField("catalog_path", w.source.Path).Warn("Catalog reload failed, keeping last good catalog")
		return
	}

	w.store.Publish(cat)
	w.logger.WithFields(logrus.Fields{
		"catalog_path": w.source.Path,
		"albums":       cat.Len(),
		"genres":       len(cat.Genres()),
	}).Info("Catalog reloaded")
}

// Stop closes the watcher (idempotent).
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.debouncer.Cancel()
		if w.watcher != nil {
			w.watcher.Close()
		} else {
			close(w.done)
		}
	})
}
