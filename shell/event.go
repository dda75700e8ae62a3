package shell

import (
	"fmt"

	"github.com/devblok/korushell/core"
)

// Command is a lifecycle notification from the platform
type Command int

// Commands a platform can deliver. Only a few change the shell's
// state; the rest are accepted and ignored.
const (
	CommandUnknown Command = iota
	CommandInitWindow
	CommandTermWindow
	CommandWindowResized
	CommandRedrawNeeded
	CommandContentRectChanged
	CommandGainedFocus
	CommandLostFocus
	CommandConfigChanged
	CommandLowMemory
	CommandStart
	CommandResume
	CommandSaveState
	CommandPause
	CommandStop
	CommandDestroy
)

var commandNames = map[Command]string{
	CommandInitWindow:         "init-window",
	CommandTermWindow:         "term-window",
	CommandWindowResized:      "window-resized",
	CommandRedrawNeeded:       "redraw-needed",
	CommandContentRectChanged: "content-rect-changed",
	CommandGainedFocus:        "gained-focus",
	CommandLostFocus:          "lost-focus",
	CommandConfigChanged:      "config-changed",
	CommandLowMemory:          "low-memory",
	CommandStart:              "start",
	CommandResume:             "resume",
	CommandSaveState:          "save-state",
	CommandPause:              "pause",
	CommandStop:               "stop",
	CommandDestroy:            "destroy",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// InputType is the kind of an input event
type InputType int

// Input event kinds
const (
	InputKey InputType = iota + 1
	InputMotion
)

// Motion actions, laid out like AMOTION_EVENT_ACTION_*
const (
	MotionActionMask        = 0xff
	MotionActionDown        = 0
	MotionActionUp          = 1
	MotionActionMove        = 2
	MotionActionCancel      = 3
	MotionActionOutside     = 4
	MotionActionPointerDown = 5
	MotionActionPointerUp   = 6
)

// InputEvent is a platform input event
type InputEvent struct {
	Type InputType

	// Action holds the motion action with the pointer index in the high bits
	Action int32
}

// Event is one item drained from a Source: either a lifecycle
// command or an input event
type Event struct {
	Command Command

	// Window is the native window carried by CommandInitWindow
	Window core.NativeWindow

	// Input is set for input events; Command is CommandUnknown then
	Input *InputEvent

	// Reply, when set, receives whether the input was handled
	Reply func(handled bool)
}

// CommandEvent builds a lifecycle event
func CommandEvent(cmd Command) Event {
	return Event{Command: cmd}
}

// WindowEvent builds a CommandInitWindow event for window
func WindowEvent(window core.NativeWindow) Event {
	return Event{Command: CommandInitWindow, Window: window}
}

// Source delivers platform events to the shell's goroutine
type Source interface {
	// Poll returns the next pending event. With block set it waits
	// until one arrives; otherwise ok is false when nothing is queued.
	// A blocking Poll returning false means the source is closed.
	Poll(block bool) (ev Event, ok bool)

	// Finish asks the platform to end the hosting activity
	Finish()
}
