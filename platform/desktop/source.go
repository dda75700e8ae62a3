package desktop

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/shell"
)

// NewSource returns a shell.Source fed by the SDL event queue of window.
// SDL does not announce the window it was created with, so the first
// poll reports it as created.
func NewSource(window *sdl.Window) (*Source, error) {
	id, err := window.GetID()
	if err != nil {
		return nil, err
	}

	handle := core.NativeWindow(id)
	return &Source{
		window:  handle,
		pending: []shell.Event{shell.WindowEvent(handle)},
	}, nil
}

// Source translates SDL events into shell events.
// It must be polled from the thread that initialised SDL.
type Source struct {
	window  core.NativeWindow
	pending []shell.Event
	closed  bool
}

// Poll implements interface
func (s *Source) Poll(block bool) (shell.Event, bool) {
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev, true
	}
	if s.closed {
		return shell.Event{}, false
	}

	for {
		var event sdl.Event
		if block {
			event = sdl.WaitEvent()
			if event == nil {
				// SDL_WaitEvent only fails when the event system is gone
				s.closed = true
				return shell.Event{}, false
			}
		} else {
			event = sdl.PollEvent()
			if event == nil {
				return shell.Event{}, false
			}
		}

		if ev, ok := s.translate(event); ok {
			return ev, true
		}
	}
}

func (s *Source) translate(event sdl.Event) (shell.Event, bool) {
	switch et := event.(type) {
	case *sdl.QuitEvent:
		return shell.CommandEvent(shell.CommandDestroy), true
	case *sdl.WindowEvent:
		if core.NativeWindow(et.WindowID) != s.window {
			return shell.Event{}, false
		}
		switch et.Event {
		case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED:
			return shell.WindowEvent(s.window), true
		case sdl.WINDOWEVENT_HIDDEN, sdl.WINDOWEVENT_MINIMIZED:
			return shell.CommandEvent(shell.CommandTermWindow), true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return shell.CommandEvent(shell.CommandWindowResized), true
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			return shell.CommandEvent(shell.CommandGainedFocus), true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return shell.CommandEvent(shell.CommandLostFocus), true
		case sdl.WINDOWEVENT_EXPOSED:
			return shell.CommandEvent(shell.CommandRedrawNeeded), true
		case sdl.WINDOWEVENT_CLOSE:
			return shell.CommandEvent(shell.CommandStop), true
		}
	case *sdl.KeyboardEvent:
		if et.Type != sdl.KEYUP {
			return shell.Event{}, false
		}
		switch et.Keysym.Sym {
		case sdl.K_ESCAPE:
			return shell.CommandEvent(shell.CommandStop), true
		case sdl.K_SPACE:
			return tap(), true
		}
	case *sdl.MouseButtonEvent:
		if et.Type == sdl.MOUSEBUTTONUP {
			return tap(), true
		}
	}
	return shell.Event{}, false
}

// tap is what a lifted pointer looks like to the shell
func tap() shell.Event {
	return shell.Event{Input: &shell.InputEvent{
		Type:   shell.InputMotion,
		Action: shell.MotionActionUp,
	}}
}

// Finish implements interface
func (s *Source) Finish() {
	if _, err := sdl.PushEvent(&sdl.QuitEvent{Type: sdl.QUIT}); err != nil {
		// the queue is unusable, stop handing out events instead
		s.closed = true
	}
}
