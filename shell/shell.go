// Package shell ties a platform's window lifecycle to a rendering backend.
//
// A Shell is driven from a single goroutine. Platform adapters feed it
// through a Source; the Controller decides when the rendering context
// is created, resized and destroyed; the Loop produces frames while a
// window is live and sleeps in the Source otherwise.
package shell

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korushell/core"
)

// New creates a shell. The backend must already hold a driver
// instance made through driver; the shell takes ownership of both
// and releases them in Close.
func New(cfg core.Configuration, source Source, backend core.Backend, game core.Game, driver io.Closer, logger log.FieldLogger) *Shell {
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger = logger.WithField("app", cfg.Settings.Name)

	controller := NewController(backend, game, source, logger)
	return &Shell{
		settings:   cfg.Settings,
		source:     source,
		backend:    backend,
		driver:     driver,
		controller: controller,
		loop: NewLoop(
			cfg.Settings,
			source,
			controller,
			backend,
			game,
			core.NewGameClock(cfg.Time, game),
			core.NewTimer(nil),
			logger,
		),
		log: logger,
	}
}

// Shell owns the lifecycle controller, the run loop and the
// driver resources behind them
type Shell struct {
	settings   core.Settings
	source     Source
	backend    core.Backend
	driver     io.Closer
	controller *Controller
	loop       *Loop
	log        log.FieldLogger
	closed     bool
}

// Settings returns the shell's settings
func (s *Shell) Settings() core.Settings {
	return s.settings
}

// Controller returns the lifecycle controller
func (s *Shell) Controller() *Controller {
	return s.controller
}

// Run runs the loop until the platform destroys the activity
func (s *Shell) Run() error {
	s.log.Info("shell running")
	return s.loop.Run()
}

// Quit asks the platform to end the activity
func (s *Shell) Quit() {
	s.source.Finish()
}

// Close releases everything in reverse order of acquisition:
// rendering context, then driver instance, then the driver library
func (s *Shell) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.controller.Close()
	s.backend.Destroy()

	var err error
	if s.driver != nil {
		err = s.driver.Close()
	}
	s.log.Info("shell closed")
	return err
}
