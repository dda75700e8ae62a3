package shell

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korushell/core"
)

// NewLoop creates the run loop over an existing controller
func NewLoop(settings core.Settings, source Source, controller *Controller, backend core.Backend, game core.Game, gameClock *core.GameClock, timer *core.Timer, logger log.FieldLogger) *Loop {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if timer == nil {
		timer = core.NewTimer(nil)
	}
	return &Loop{
		settings:   settings,
		source:     source,
		controller: controller,
		backend:    backend,
		game:       game,
		gameClock:  gameClock,
		timer:      timer,
		current:    timer.Elapsed(),
		log:        logger,
	}
}

// Loop alternates draining platform events with producing frames.
// It owns the frame clock and is the only caller into the backend's
// frame functions.
type Loop struct {
	settings   core.Settings
	source     Source
	controller *Controller
	backend    core.Backend
	game       core.Game
	gameClock  *core.GameClock
	timer      *core.Timer
	log        log.FieldLogger

	// current is the last frame boundary in timer seconds
	current float64
}

// Run loops until the platform requests destruction or
// something fatal happens
func (l *Loop) Run() error {
	for {
		done, err := l.Step()
		if err != nil {
			l.log.WithError(err).Error("shell stopped")
			l.source.Finish()
			return err
		}
		if done {
			return nil
		}
	}
}

// Step runs a single iteration: drain events, then at most one frame.
// It reports done once destruction was requested.
func (l *Loop) Step() (done bool, err error) {
	if err := l.drain(); err != nil {
		return false, err
	}

	if l.controller.DestroyRequested() {
		return true, nil
	}

	if !l.controller.Presentable() {
		return false, nil
	}

	return false, l.frame()
}

func (l *Loop) drain() error {
	received := false
	for {
		block := !received && !(l.settings.Animate && l.controller.Presentable())
		ev, ok := l.source.Poll(block)
		if !ok {
			if block {
				// a closed source will never wake us again
				l.log.Info("event source closed")
				return l.controller.HandleCommand(CommandDestroy, 0)
			}
			return nil
		}
		received = true

		if err := l.dispatch(ev); err != nil {
			return err
		}
	}
}

func (l *Loop) dispatch(ev Event) error {
	if ev.Input != nil {
		handled := l.controller.HandleInput(*ev.Input)
		if ev.Reply != nil {
			ev.Reply(handled)
		}
		return nil
	}
	return l.controller.HandleCommand(ev.Command, ev.Window)
}

func (l *Loop) frame() error {
	if err := l.backend.AcquireBackBuffer(); err != nil {
		return fmt.Errorf("acquire back buffer: %w", err)
	}

	t := l.timer.Elapsed()
	l.gameClock.Add(float32(t - l.current))
	l.game.OnFrame(l.gameClock.FramePrediction())

	if err := l.backend.PresentBackBuffer(); err != nil {
		return fmt.Errorf("present back buffer: %w", err)
	}

	l.current = t
	return nil
}
