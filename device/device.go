package device

import (
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        vk.DeviceSize
}

// ExtensionInfo names an extension and its revision
type ExtensionInfo struct {
	Name        string
	SpecVersion uint32
}

// LayerInfo describes an instance layer and the extensions it brings
type LayerInfo struct {
	Name                  string
	Description           string
	SpecVersion           uint32
	ImplementationVersion uint32
	Extensions            []ExtensionInfo
}

// InstanceConfiguration is used to create a Vulkan instance
type InstanceConfiguration struct {
	DebugMode  bool
	Extensions []string
	Layers     []string

	// Logger receives validation messages in DebugMode
	Logger log.FieldLogger
}
