package shell

// State is where the shell is in the window lifecycle
type State int

// Lifecycle states. Frames are only produced in WindowLive.
const (
	// NoWindow means there is no window and no rendering context
	NoWindow State = iota

	// WindowCreating is held while the rendering context is created
	WindowCreating

	// WindowLive means the context exists and can present
	WindowLive

	// WindowResizing is held while the swapchain is recreated
	WindowResizing

	// WindowDestroying is held while the context is torn down
	WindowDestroying
)

func (s State) String() string {
	switch s {
	case NoWindow:
		return "no-window"
	case WindowCreating:
		return "window-creating"
	case WindowLive:
		return "window-live"
	case WindowResizing:
		return "window-resizing"
	case WindowDestroying:
		return "window-destroying"
	default:
		return "invalid"
	}
}
