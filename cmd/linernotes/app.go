package main

import (
	"io"

	"linernotes/internal/config"
	"linernotes/internal/listing"
	"linernotes/internal/logging"

	"github.com/sirupsen/logrus"
)

const defaultConfigPath = "./config.toml"

// Application carries what every command needs once flags are parsed
type Application struct {
	ConfigPath string
	Config     *config.Config
	Logger     *logrus.Logger

	logCloser io.Closer
}

// setup loads the configuration and builds the logger. It is a no-op when
// both are already present.
func (app *Application) setup() error {
	path := app.ConfigPath
	if path == "" {
		path = defaultConfigPath
	}

	created := false
	if app.Config == nil {
		cfg, wasCreated, err := config.LoadOrCreate(path)
		if err != nil {
			return err
		}
		app.Config = cfg
		created = wasCreated
	}

	if app.Logger == nil {
		logger, closer, err := logging.New(app.Config.Logging)
		if err != nil {
			return err
		}
		app.Logger = logger
		app.logCloser = closer
	}

	// stdout carries command output only
	if created {
		app.Logger.WithField("path", path).Info("Created default configuration file")
	}

	return nil
}

// sorter builds the collating sorter for the configured locale
func (app *Application) sorter() *listing.Sorter {
	sorter, err := listing.NewSorterForLocale(app.Config.Catalog.Locale)
	if err != nil {
		app.Logger.WithError(err).WithField("locale", app.Config.Catalog.Locale).Warn("Unknown catalog locale, collating as English")
	}
	return sorter
}

// Close releases the log file, if any
func (app *Application) Close() {
	if app.logCloser != nil {
		app.logCloser.Close()
		app.logCloser = nil
	}
}
