package tui

import (
	"context"
	"errors"
	"time"

	"linernotes/internal/catalog"
	"linernotes/internal/config"
	"linernotes/internal/controller"
	"linernotes/internal/listing"
	"linernotes/internal/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// sender is the part of *tea.Program a surface needs
type sender interface {
	Send(msg tea.Msg)
}

// Surface forwards controller output into a running bubbletea program
type Surface struct {
	program sender
}

// NewSurface creates a surface sending to program
func NewSurface(program sender) *Surface {
	return &Surface{program: program}
}

func (s *Surface) SetGenres(genres []string) {
	s.program.Send(genresMsg{genres: genres})
}

func (s *Surface) ShowListing(view render.View) {
	s.program.Send(listingMsg{view: view})
}

func (s *Surface) ShowError(msg string) {
	s.program.Send(loadErrorMsg{msg: msg})
}

// Browser runs the interactive terminal listing
type Browser struct {
	config config.BrowseConfig
	sorter *listing.Sorter
	logger *logrus.Logger
}

// NewBrowser creates a browser
func NewBrowser(cfg config.BrowseConfig, sorter *listing.Sorter, logger *logrus.Logger) *Browser {
	return &Browser{
		config: cfg,
		sorter: sorter,
		logger: logger,
	}
}

// Run loads the catalog from src in the background and blocks until the user
// quits or ctx is cancelled.
func (b *Browser) Run(ctx context.Context, src catalog.Source, format catalog.Format) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(nil)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	ctrl := controller.New(NewSurface(program), controller.Options{
		Debounce: time.Duration(b.config.DebounceMS) * time.Millisecond,
		Render:   render.Options{ReducedMotion: b.config.ReducedMotion},
		Sorter:   b.sorter,
		Logger:   b.logger,
	})
	model.SetInputs(ctrl)

	go func() {
		if err := ctrl.Run(ctx); err != nil {
			b.logger.WithError(err).Error("Controller stopped")
		}
	}()
	ctrl.LoadFrom(ctx, src, format)

	b.logger.WithField("source", src.Name()).Info("Starting album browser")

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
