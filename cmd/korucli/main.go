package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/device"
	"github.com/devblok/korushell/driver"
)

var (
	configPath = flag.String("config", "", "configuration file layered over the defaults")
	indent     = flag.Bool("indent", false, "indent the report")
)

// report is everything the driver tells about itself
type report struct {
	Driver     string
	Layers     []device.LayerInfo
	Extensions []device.ExtensionInfo
	Devices    []device.PhysicalDeviceInfo
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	configuration, err := core.LoadConfiguration(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	bytes, err := run(configuration)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", bytes)
}

func run(configuration core.Configuration) ([]byte, error) {
	drv, err := driver.Load(configuration.Driver, driver.Dlopen)
	if err != nil {
		return nil, err
	}
	defer drv.Close()

	if err := device.Bootstrap(drv.EntryPoint()); err != nil {
		return nil, err
	}

	r := report{Driver: drv.Name()}
	if r.Layers, err = device.InstanceLayers(); err != nil {
		return nil, err
	}
	if r.Extensions, err = device.InstanceExtensions(""); err != nil {
		return nil, err
	}

	instance, err := device.NewVulkanInstance(
		device.NewApplicationInfo(configuration.Settings.Name),
		device.InstanceConfiguration{DebugMode: configuration.Settings.Validate},
	)
	if err != nil {
		return nil, err
	}
	r.Devices = instance.PhysicalDevicesInfo()
	instance.Destroy()

	if *indent {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}
