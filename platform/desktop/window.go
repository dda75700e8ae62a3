package desktop

import (
	"errors"

	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/device"
	"github.com/devblok/korushell/driver"
)

// NewWindow creates a resizable Vulkan window sized from cfg
func NewWindow(title string, cfg core.RendererConfiguration) (*sdl.Window, error) {
	return sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
}

// Surfaces creates Vulkan surfaces for SDL windows
type Surfaces struct {
	Window *sdl.Window
}

// Extensions implements interface
func (s Surfaces) Extensions() []string {
	return s.Window.VulkanGetInstanceExtensions()
}

// CreateSurface implements interface
func (s Surfaces) CreateSurface(instance vk.Instance, window core.NativeWindow) (vk.Surface, error) {
	sdlWindow, err := sdl.GetWindowFromID(uint32(window))
	if err != nil {
		return vk.NullSurface, errors.New("sdl.GetWindowFromID(): " + err.Error())
	}

	surface, err := sdlWindow.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, errors.Join(device.ErrSurfaceCreation, err)
	}
	return vk.SurfaceFromPointer(uintptr(surface)), nil
}

// Open loads the Vulkan library through SDL. The default library
// name is left to SDL, which knows the platform's loader name.
func Open(name string) (driver.Library, error) {
	if name == core.DefaultDriverLibrary {
		name = ""
	}
	if err := sdl.VulkanLoadLibrary(name); err != nil {
		return nil, err
	}
	return sdlLibrary{}, nil
}

type sdlLibrary struct{}

// Sym resolves the one symbol SDL exposes
func (sdlLibrary) Sym(name string) (uintptr, error) {
	if name != core.DefaultEntryPoint {
		return 0, errors.New("undefined symbol: " + name)
	}
	return uintptr(sdl.VulkanGetVkGetInstanceProcAddr()), nil
}

// Close implements interface
func (sdlLibrary) Close() error {
	sdl.VulkanUnloadLibrary()
	return nil
}
