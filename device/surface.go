package device

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/korushell/core"
)

// ErrSurfaceCreation is returned when the driver refuses to make a surface
var ErrSurfaceCreation = errors.New("surface creation failed")

// SurfaceProvider turns a native window into a presentable surface
type SurfaceProvider interface {
	// Extensions returns the instance extensions surfaces need
	Extensions() []string

	// CreateSurface creates a surface for window on instance.
	// window must be live for the duration of the call.
	CreateSurface(instance vk.Instance, window core.NativeWindow) (vk.Surface, error)
}
