// Package controller binds user input to the Filter -> Sort -> Render
// pipeline. All view state lives on a single event goroutine; every input
// method just posts an event to it.
package controller

import (
	"context"
	"errors"
	"time"

	"linernotes/internal/catalog"
	"linernotes/internal/debounce"
	"linernotes/internal/listing"
	"linernotes/internal/render"
	"linernotes/pkg/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// DefaultDebounce is the quiet interval applied to search keystrokes
const DefaultDebounce = 200 * time.Millisecond

// ErrStopped is returned by Snapshot once Run has returned
var ErrStopped = errors.New("controller stopped")

// Surface is the display a controller renders onto. Calls are made from the
// controller's event goroutine, one at a time.
type Surface interface {
	SetGenres(genres []string)
	ShowListing(view render.View)
	ShowError(msg string)
}

// State is the view state plus the visible set derived from it
type State struct {
	View    listing.ViewState
	Visible []models.Album
}

// Options configure a controller
type Options struct {
	Debounce time.Duration
	Render   render.Options
	Sorter   *listing.Sorter
	Logger   *logrus.Logger
}

type (
	loadedEvent     struct{ catalog *catalog.Catalog }
	loadFailedEvent struct{ err error }
	queryEvent      struct{ text string }
	queryFiredEvent struct{ seq uint64 }
	genreEvent      struct{ genre string }
	sortEvent       struct{ key listing.SortKey }
	escapeEvent     struct{}
	snapshotEvent   struct{ reply chan State }
)

// Controller owns the view state of one listing surface
type Controller struct {
	surface   Surface
	sorter    *listing.Sorter
	render    render.Options
	logger    *logrus.Logger
	debouncer *debounce.Debouncer

	events chan interface{}
	done   chan struct{}

	// Owned by the event goroutine
	catalog  *catalog.Catalog
	loaded   bool
	state    State
	querySeq uint64
}

// New creates a controller rendering onto surface. Call Run to start it.
func New(surface Surface, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Sorter == nil {
		opts.Sorter = listing.NewSorter(language.English)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	return &Controller{
		surface:   surface,
		sorter:    opts.Sorter,
		render:    opts.Render,
		logger:    opts.Logger,
		debouncer: debounce.New(opts.Debounce),
		events:    make(chan interface{}, 64),
		done:      make(chan struct{}),
		state:     State{View: listing.NewViewState()},
	}
}

// Run processes events until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.debouncer.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

// LoadFrom retrieves the catalog in the background and completes the load
// with either Loaded or LoadFailed.
func (c *Controller) LoadFrom(ctx context.Context, src catalog.Source, format catalog.Format) {
	go func() {
		res := <-catalog.LoadAsync(ctx, src, format)
		if res.Err != nil {
			c.LoadFailed(res.Err)
			return
		}
		c.Loaded(res.Catalog)
	}()
}

// Loaded installs a successfully loaded catalog and renders it
func (c *Controller) Loaded(cat *catalog.Catalog) { c.post(loadedEvent{catalog: cat}) }

// LoadFailed shows the load error in place of the count text
func (c *Controller) LoadFailed(err error) { c.post(loadFailedEvent{err: err}) }

// TypeQuery records the current search text and schedules a debounced pass
func (c *Controller) TypeQuery(text string) { c.post(queryEvent{text: text}) }

// SelectGenre filters by genre immediately; an empty genre selects all
func (c *Controller) SelectGenre(genre string) { c.post(genreEvent{genre: genre}) }

// SelectSort reorders the current visible set without refiltering
func (c *Controller) SelectSort(key listing.SortKey) { c.post(sortEvent{key: key}) }

// Escape clears the search text and refilters immediately
func (c *Controller) Escape() { c.post(escapeEvent{}) }

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	c.post(snapshotEvent{reply: reply})

	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (c *Controller) post(ev interface{}) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) handle(ev interface{}) {
	switch ev := ev.(type) {
	case loadedEvent:
		c.catalog = ev.catalog
		c.loaded = true
		c.logger.WithFields(logrus.Fields{
			"source": ev.catalog.Source(),
			"albums": ev.catalog.Len(),
		}).Debug("Catalog loaded")

		c.surface.SetGenres(ev.catalog.Genres())
		c.filterAndRender()

	case loadFailedEvent:
		c.logger.WithError(ev.err).Error("Failed to load album catalog")
		if !c.loaded {
			c.surface.ShowError(render.LoadErrorMessage)
		}

	case snapshotEvent:
		ev.reply <- c.snapshot()

	default:
		// Input before a successful load has nothing to act on
		if !c.loaded {
			return
		}
		c.handleInput(ev)
	}
}

func (c *Controller) handleInput(ev interface{}) {
	switch ev := ev.(type) {
	case queryEvent:
		c.state.View.SearchQuery = ev.text
		c.querySeq++
		seq := c.querySeq
		c.debouncer.Schedule(func() {
			c.post(queryFiredEvent{seq: seq})
		})

	case queryFiredEvent:
		if ev.seq != c.querySeq {
			return
		}
		c.filterAndRender()

	case genreEvent:
		c.state.View.SelectedGenre = ev.genre
		c.filterAndRender()

	case sortEvent:
		c.state.View.SortKey = ev.key
		c.sortAndRender()

	case escapeEvent:
		c.debouncer.Cancel()
		c.querySeq++
		c.state.View.SearchQuery = ""
		c.filterAndRender()
	}
}

func (c *Controller) filterAndRender() {
	view := c.state.View
	c.state.Visible = listing.Filter(c.catalog.Albums(), view.SearchQuery, view.SelectedGenre)
	c.sortAndRender()
}

func (c *Controller) sortAndRender() {
	c.sorter.Sort(c.state.Visible, c.state.View.SortKey)
	c.surface.ShowListing(render.NewView(c.state.Visible, c.catalog.Len(), c.render))
}

func (c *Controller) snapshot() State {
	return State{
		View:    c.state.View,
		Visible: append([]models.Album(nil), c.state.Visible...),
	}
}
