package device

import (
	"errors"
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// NewApplicationInfo describes the application to the driver
func NewApplicationInfo(name string) *vk.ApplicationInfo {
	return &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(1, 0, 0),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(name),
		PEngineName:        "Koru3D\x00",
	}
}

// Bootstrap points vulkan-go at the driver's vkGetInstanceProcAddr
// and loads the global functions
func Bootstrap(entryPoint unsafe.Pointer) error {
	if entryPoint == nil {
		return errors.New("vk.SetGetInstanceProcAddr(): nil entry point")
	}
	vk.SetGetInstanceProcAddr(entryPoint)

	if err := vk.Init(); err != nil {
		return errors.New("vk.Init(): " + err.Error())
	}
	return nil
}

// NewVulkanInstance creates a Vulkan instance. Bootstrap must have been called.
func NewVulkanInstance(appInfo *vk.ApplicationInfo, cfg InstanceConfiguration) (*VulkanInstance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, validationLayer)
		cfg.Extensions = append(cfg.Extensions, "VK_EXT_debug_report")
	}
	cfg.Layers = safeStrings(cfg.Layers)
	cfg.Extensions = safeStrings(cfg.Extensions)

	/* Create instance */
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: cfg.Extensions,
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     cfg.Layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.New("vk.InitInstance(): " + err.Error())
	}

	/* Enumerate devices */
	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.New("device.enumerateDevices(): " + err.Error())
	}

	v := &VulkanInstance{
		configuration:    cfg,
		instance:         instance,
		availableDevices: physicalDevices,
	}

	if cfg.DebugMode {
		if err := v.registerDebugReport(cfg.Logger); err != nil {
			vk.DestroyInstance(instance, nil)
			return nil, err
		}
	}
	return v, nil
}

/* Validation output */

func (v *VulkanInstance) registerDebugReport(logger log.FieldLogger) error {
	if logger == nil {
		logger = log.StandardLogger()
	}

	dbgCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
			object uint64, location uint, messageCode int32, pLayerPrefix string,
			pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			logger.WithFields(log.Fields{
				"layer": pLayerPrefix,
				"code":  messageCode,
			}).Log(debugReportLevel(flags), pMessage)
			return vk.Bool32(vk.False)
		},
	}

	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(v.instance, &dbgCreateInfo, nil, &callback)); err != nil {
		return errors.New("vk.CreateDebugReportCallback(): " + err.Error())
	}
	v.debugCallback = callback
	return nil
}

// debugReportLevel picks the log level for a validation message
func debugReportLevel(flags vk.DebugReportFlags) log.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return log.ErrorLevel
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return log.WarnLevel
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// VulkanInstance describes a Vulkan API Instance
type VulkanInstance struct {
	configuration InstanceConfiguration

	availableDevices []vk.PhysicalDevice
	instance         vk.Instance
	debugCallback    vk.DebugReportCallback
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices[:deviceCount], nil
}

// PhysicalDevicesInfo returns a struct for each Physical Device
// along with info about those devices
func (v *VulkanInstance) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	pdi := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for i := 0; i < len(v.availableDevices); i++ {
		// Get extension info
		var numDeviceExtensions uint32
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(v.availableDevices[i], "", &numDeviceExtensions, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(v.availableDevices[i], "", &numDeviceExtensions, deviceExt)); err != nil {
			pdi[i].Invalid = true
		}
		for _, ext := range deviceExt {
			ext.Deref()
			pdi[i].Extensions = append(pdi[i].Extensions, vk.ToString(ext.ExtensionName[:]))
		}

		// Get layers info
		var numDeviceLayers uint32
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(v.availableDevices[i], &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(v.availableDevices[i], &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(v.availableDevices[i], &memoryProperties)
		memoryProperties.Deref()
		for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory += memoryProperties.MemoryHeaps[iMem].Size
		}

		// Get general device info
		var physicalDeviceProperties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(v.availableDevices[i], &physicalDeviceProperties)
		physicalDeviceProperties.Deref()
		pdi[i].ID = int(physicalDeviceProperties.DeviceID)
		pdi[i].VendorID = int(physicalDeviceProperties.VendorID)
		pdi[i].Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
		pdi[i].DriverVersion = int(physicalDeviceProperties.DriverVersion)
	}
	return pdi
}

// InstanceLayers lists the instance layers the loader knows about
// together with the extensions each layer provides
func InstanceLayers() ([]LayerInfo, error) {
	var layers []vk.LayerProperties
	for {
		var count uint32
		if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
			return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
		}
		if count == 0 {
			return nil, nil
		}

		layers = make([]vk.LayerProperties, count)
		// the layer count can grow between the two calls
		result := vk.EnumerateInstanceLayerProperties(&count, layers)
		if result == vk.Incomplete {
			continue
		}
		if err := vk.Error(result); err != nil {
			return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
		}
		layers = layers[:count]
		break
	}

	infos := make([]LayerInfo, 0, len(layers))
	for _, layer := range layers {
		layer.Deref()
		info := LayerInfo{
			Name:                  vk.ToString(layer.LayerName[:]),
			Description:           vk.ToString(layer.Description[:]),
			SpecVersion:           layer.SpecVersion,
			ImplementationVersion: layer.ImplementationVersion,
		}

		extensions, err := InstanceExtensions(info.Name)
		if err != nil {
			return nil, err
		}
		info.Extensions = extensions
		infos = append(infos, info)
	}
	return infos, nil
}

// InstanceExtensions lists the instance extensions of layer,
// or of the implementation when layer is empty
func InstanceExtensions(layer string) ([]ExtensionInfo, error) {
	var layerName string
	if layer != "" {
		layerName = safeString(layer)
	}

	var extensions []vk.ExtensionProperties
	for {
		var count uint32
		if err := vk.Error(vk.EnumerateInstanceExtensionProperties(layerName, &count, nil)); err != nil {
			return nil, fmt.Errorf("vk.EnumerateInstanceExtensionProperties(%s): %s", layer, err)
		}
		if count == 0 {
			return nil, nil
		}

		extensions = make([]vk.ExtensionProperties, count)
		result := vk.EnumerateInstanceExtensionProperties(layerName, &count, extensions)
		if result == vk.Incomplete {
			continue
		}
		if err := vk.Error(result); err != nil {
			return nil, fmt.Errorf("vk.EnumerateInstanceExtensionProperties(%s): %s", layer, err)
		}
		extensions = extensions[:count]
		break
	}

	infos := make([]ExtensionInfo, 0, len(extensions))
	for _, ext := range extensions {
		ext.Deref()
		infos = append(infos, ExtensionInfo{
			Name:        vk.ToString(ext.ExtensionName[:]),
			SpecVersion: ext.SpecVersion,
		})
	}
	return infos, nil
}

// Instance returns internal vk.Instance
func (v *VulkanInstance) Instance() vk.Instance {
	if v == nil {
		return nil
	}
	return v.instance
}

// Extensions returns enabled instance extensions
func (v *VulkanInstance) Extensions() []string {
	return v.configuration.Extensions
}

// AvailableDevices returns handles of Physical Devices
// from the Vulkan API
func (v *VulkanInstance) AvailableDevices() []vk.PhysicalDevice {
	return v.availableDevices
}

// Destroy destroys internal members
func (v *VulkanInstance) Destroy() {
	if v == nil || v.instance == nil {
		return
	}
	v.availableDevices = nil
	if v.debugCallback != nil {
		vk.DestroyDebugReportCallback(v.instance, v.debugCallback, nil)
		v.debugCallback = nil
	}
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}
