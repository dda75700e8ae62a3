package core

import "math"

// NativeWindow is an opaque handle to a platform window.
// It is owned by the platform and only valid between the
// window being created and destroyed.
type NativeWindow uintptr

// Extent is the size of a swapchain in pixels
type Extent struct {
	Width  uint32
	Height uint32
}

// CurrentExtent asks the backend to size the swapchain to whatever
// the live window currently is. It uses the same special value Vulkan
// reports in VkSurfaceCapabilitiesKHR::currentExtent.
var CurrentExtent = Extent{Width: math.MaxUint32, Height: math.MaxUint32}

// IsCurrent reports whether e is the CurrentExtent marker
func (e Extent) IsCurrent() bool {
	return e == CurrentExtent
}

// Empty reports whether e covers no pixels
func (e Extent) Empty() bool {
	return !e.IsCurrent() && (e.Width == 0 || e.Height == 0)
}

// Backend describes the rendering context machinery.
// The shell decides when each call is made; the backend
// owns the device, surface and swapchain.
type Backend interface {
	// CreateContext creates the surface for window and everything
	// that renders into it
	CreateContext(window NativeWindow) error

	// ResizeSwapchain recreates the swapchain with the given extent.
	// CurrentExtent resolves to the window size. It returns the extent
	// the swapchain ended up with, which is empty when there is
	// nothing to present into. A failed resize leaves no swapchain.
	ResizeSwapchain(extent Extent) (Extent, error)

	// Extent returns the extent of the current swapchain. It is empty
	// when there is none, including after the backend dropped it on
	// its own because the surface shrank to nothing.
	Extent() Extent

	// AcquireBackBuffer waits for the next presentable image
	AcquireBackBuffer() error

	// PresentBackBuffer submits and presents the acquired image
	PresentBackBuffer() error

	// DestroyContext destroys everything CreateContext made
	DestroyContext()

	// Destroy destroys internal members
	Destroy()
}

// Key is a discrete input the application understands
type Key int

// Keys the shell can emit
const (
	KeyUnknown Key = iota
	KeyEsc
	KeyUp
	KeyDown
	KeySpace
)

func (k Key) String() string {
	switch k {
	case KeyEsc:
		return "esc"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeySpace:
		return "space"
	default:
		return "unknown"
	}
}

// Game is the application logic driven by the shell
type Game interface {
	// OnKey is called for every translated input
	OnKey(Key)

	// OnTick advances the simulation by one fixed step
	OnTick()

	// OnFrame prepares the frame about to be presented.
	// framePred is how far into the next tick the frame is, in ticks.
	OnFrame(framePred float32)
}
