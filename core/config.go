package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gobuffalo/packr"
	"github.com/spf13/viper"
)

// Defaults used when a configuration leaves a value unset
const (
	DefaultTicksPerSecond = 30
	DefaultMaxTicks       = 3
	DefaultDriverLibrary  = "libvulkan.so"
	DefaultEntryPoint     = "vkGetInstanceProcAddr"
)

const defaultConfigName = "koru.toml"

// Configuration defines a global engine configuration setting
type Configuration struct {
	Settings Settings
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Driver   DriverConfiguration
}

// Settings are read-only application settings
type Settings struct {
	// Name tags log output and names the Vulkan application
	Name string

	// Animate keeps frames coming while a window exists.
	// Without it the shell sleeps until the platform has news.
	Animate bool

	// Validate enables the validation layers
	Validate bool
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	TicksPerSecond int  `mapstructure:"ticks_per_second"`
	MaxTicks       int  `mapstructure:"max_ticks"`
	NoTick         bool `mapstructure:"no_tick"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	SwapchainSize    uint32   `mapstructure:"swapchain_size"`
	DeviceExtensions []string `mapstructure:"device_extensions"`

	// ScreenWidth and ScreenHeight are used when the surface
	// leaves the swapchain size up to the application
	ScreenWidth  uint32 `mapstructure:"screen_width"`
	ScreenHeight uint32 `mapstructure:"screen_height"`
}

// DriverConfiguration names the driver library and its bootstrap symbol
type DriverConfiguration struct {
	Library    string
	EntryPoint string `mapstructure:"entry_point"`
}

// LoadConfiguration reads packaged defaults, then the file at path
// if one is given, then KORU_ prefixed environment variables
func LoadConfiguration(path string) (Configuration, error) {
	v := viper.New()
	v.SetConfigType("toml")

	box := packr.NewBox("./resources")
	defaults, err := box.Find(defaultConfigName)
	if err != nil {
		return Configuration{}, fmt.Errorf("default configuration: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Configuration{}, fmt.Errorf("default configuration: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Configuration{}, fmt.Errorf("read configuration %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("KORU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if cfg.Driver.Library == "" {
		cfg.Driver.Library = DefaultDriverLibrary
	}
	if cfg.Driver.EntryPoint == "" {
		cfg.Driver.EntryPoint = DefaultEntryPoint
	}
	return cfg, nil
}
