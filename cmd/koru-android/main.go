//go:build android

package main

import (
	"github.com/xlab/android-go/app"
	"github.com/xlab/catcher"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/demo"
	"github.com/devblok/korushell/device"
	"github.com/devblok/korushell/driver"
	"github.com/devblok/korushell/logging"
	"github.com/devblok/korushell/platform/android"
	"github.com/devblok/korushell/shell"
)

func init() {
	app.SetLogTag("Koru3D")
}

func main() {
	app.Main(func(a app.NativeActivity) {
		defer catcher.Catch(
			catcher.RecvLog(true),
			catcher.RecvDie(-1),
		)

		configuration, err := core.LoadConfiguration("")
		orPanic(err)
		logger := logging.NewLogger(configuration.Settings, android.LogSink{})

		drv, err := driver.Load(configuration.Driver, driver.Dlopen)
		orPanic(err)
		orPanic(device.Bootstrap(drv.EntryPoint()))

		surfaces := device.AndroidSurfaces{}
		instance, err := device.NewVulkanInstance(
			device.NewApplicationInfo(configuration.Settings.Name),
			device.InstanceConfiguration{
				DebugMode:  configuration.Settings.Validate,
				Extensions: surfaces.Extensions(),
				Logger:     logger,
			},
		)
		orPanic(err)

		backend := device.NewVulkanBackend(instance, surfaces, configuration.Renderer, logger)
		s := shell.New(configuration, android.NewSource(a), backend, demo.NewSpinner(backend), drv, logger)
		defer s.Close()

		if err := s.Run(); err != nil {
			logger.WithError(err).Error("shell stopped")
		}
	})
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
