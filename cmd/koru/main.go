package main

import (
	"flag"
	"runtime"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/demo"
	"github.com/devblok/korushell/device"
	"github.com/devblok/korushell/driver"
	"github.com/devblok/korushell/logging"
	"github.com/devblok/korushell/platform/desktop"
	"github.com/devblok/korushell/shell"
)

func init() {
	runtime.LockOSThread()
}

var configPath = flag.String("config", "", "configuration file layered over the defaults")

func main() {
	flag.Parse()

	// a .env file is optional
	_ = godotenv.Load()

	configuration, err := core.LoadConfiguration(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(configuration.Settings, nil)

	if err := run(configuration, logger); err != nil {
		logger.WithError(err).Fatal("koru exited")
	}
}

func run(configuration core.Configuration, logger *log.Logger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	drv, err := driver.Load(configuration.Driver, desktop.Open)
	if err != nil {
		return err
	}
	logger.WithField("library", drv.Name()).Debug("driver loaded")

	window, err := desktop.NewWindow(configuration.Settings.Name, configuration.Renderer)
	if err != nil {
		drv.Close()
		return err
	}
	defer window.Destroy()

	surfaces := desktop.Surfaces{Window: window}
	if err := device.Bootstrap(drv.EntryPoint()); err != nil {
		drv.Close()
		return err
	}

	instance, err := device.NewVulkanInstance(
		device.NewApplicationInfo(configuration.Settings.Name),
		device.InstanceConfiguration{
			DebugMode:  configuration.Settings.Validate,
			Extensions: surfaces.Extensions(),
			Logger:     logger,
		},
	)
	if err != nil {
		drv.Close()
		return err
	}

	source, err := desktop.NewSource(window)
	if err != nil {
		instance.Destroy()
		drv.Close()
		return err
	}

	backend := device.NewVulkanBackend(instance, surfaces, configuration.Renderer, logger)
	s := shell.New(configuration, source, backend, demo.NewSpinner(backend), drv, logger)
	defer s.Close()

	return s.Run()
}
