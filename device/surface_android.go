//go:build android

package device

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/korushell/core"
)

// AndroidSurfaces creates surfaces for ANativeWindow handles
type AndroidSurfaces struct{}

// Extensions implements interface
func (AndroidSurfaces) Extensions() []string {
	return []string{
		"VK_KHR_surface\x00",
		"VK_KHR_android_surface\x00",
	}
}

// CreateSurface implements interface. vulkan-go fills in the
// VkAndroidSurfaceCreateInfoKHR for the window.
func (AndroidSurfaces) CreateSurface(instance vk.Instance, window core.NativeWindow) (vk.Surface, error) {
	if window == 0 {
		return vk.NullSurface, fmt.Errorf("%w: no native window", ErrSurfaceCreation)
	}

	var surface vk.Surface
	if err := vk.Error(vk.CreateWindowSurface(instance, uintptr(window), nil, &surface)); err != nil {
		return vk.NullSurface, fmt.Errorf("%w: vk.CreateAndroidSurface(): %s", ErrSurfaceCreation, err)
	}
	return surface, nil
}
