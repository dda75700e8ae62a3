package shell

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korushell/core"
)

// ErrContextCreation is returned when a window arrives but
// no rendering context can be made for it
var ErrContextCreation = errors.New("rendering context creation failed")

// Finisher ends the hosting activity
type Finisher interface {
	Finish()
}

// NewController creates a controller in the NoWindow state
func NewController(backend core.Backend, game core.Game, finisher Finisher, logger log.FieldLogger) *Controller {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Controller{
		backend:  backend,
		game:     game,
		finisher: finisher,
		log:      logger,
	}
}

// Controller is the window lifecycle state machine. It is the only
// thing that creates, resizes or destroys the rendering context.
// It is not safe for concurrent use.
type Controller struct {
	backend  core.Backend
	game     core.Game
	finisher Finisher
	log      log.FieldLogger

	state            State
	window           core.NativeWindow
	destroyRequested bool
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	return c.state
}

// Window returns the native window while it is valid, zero otherwise
func (c *Controller) Window() core.NativeWindow {
	if c.state == NoWindow {
		return 0
	}
	return c.window
}

// HasWindow reports whether a window currently exists
func (c *Controller) HasWindow() bool {
	return c.Window() != 0
}

// Extent returns the backend's swapchain extent while a window is live
func (c *Controller) Extent() core.Extent {
	if c.state != WindowLive {
		return core.Extent{}
	}
	return c.backend.Extent()
}

// Presentable reports whether a frame can be produced right now
func (c *Controller) Presentable() bool {
	return c.state == WindowLive && !c.Extent().Empty()
}

// DestroyRequested reports whether the platform asked the process to go away
func (c *Controller) DestroyRequested() bool {
	return c.destroyRequested
}

// HandleCommand applies one lifecycle command. The only error it
// returns is a failed context creation, which is fatal.
func (c *Controller) HandleCommand(cmd Command, window core.NativeWindow) error {
	switch cmd {
	case CommandInitWindow:
		return c.createContext(window)
	case CommandTermWindow:
		c.destroyContext()
	case CommandWindowResized:
		c.resize(core.CurrentExtent)
	case CommandStop:
		c.log.Info("stop requested, finishing")
		c.finisher.Finish()
	case CommandDestroy:
		c.destroyRequested = true
		c.destroyContext()
	default:
		c.log.WithField("command", cmd).Debug("ignoring command")
	}
	return nil
}

// HandleInput translates an input event, returning whether it was consumed.
// A pointer-up is the one input the shell understands.
func (c *Controller) HandleInput(ev InputEvent) bool {
	if ev.Type != InputMotion {
		return false
	}

	switch ev.Action & MotionActionMask {
	case MotionActionUp:
		c.game.OnKey(core.KeySpace)
		return true
	default:
		return false
	}
}

// Resize applies an explicit extent. Empty extents and resizes
// without a live window are dropped.
func (c *Controller) Resize(extent core.Extent) {
	c.resize(extent)
}

// Close destroys the rendering context if one is live
func (c *Controller) Close() {
	c.destroyContext()
}

func (c *Controller) createContext(window core.NativeWindow) error {
	if c.state != NoWindow {
		c.log.WithField("state", c.state).Debug("window already live, ignoring new window")
		return nil
	}
	if window == 0 {
		return fmt.Errorf("%w: no native window", ErrContextCreation)
	}

	c.transition(WindowCreating)
	c.window = window
	if err := c.backend.CreateContext(window); err != nil {
		c.window = 0
		c.transition(NoWindow)
		return fmt.Errorf("%w: %v", ErrContextCreation, err)
	}

	c.transition(WindowLive)
	c.resize(core.CurrentExtent)
	return nil
}

func (c *Controller) resize(extent core.Extent) {
	if c.state != WindowLive {
		c.log.WithField("state", c.state).Debug("no live window, dropping resize")
		return
	}
	if extent.Empty() {
		c.log.WithField("extent", extent).Debug("zero area resize, dropping")
		return
	}

	c.transition(WindowResizing)
	applied, err := c.backend.ResizeSwapchain(extent)
	c.transition(WindowLive)
	if err != nil {
		c.log.WithError(err).Warn("swapchain resize failed")
		return
	}
	c.log.WithFields(log.Fields{
		"width":  applied.Width,
		"height": applied.Height,
	}).Debug("swapchain resized")
}

func (c *Controller) destroyContext() {
	if c.state != WindowLive {
		return
	}

	c.transition(WindowDestroying)
	c.backend.DestroyContext()
	c.window = 0
	c.transition(NoWindow)
}

func (c *Controller) transition(next State) {
	c.log.WithFields(log.Fields{
		"from": c.state,
		"to":   next,
	}).Debug("lifecycle transition")
	c.state = next
}
