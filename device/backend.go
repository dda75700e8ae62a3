package device

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/korushell/core"
)

// NewVulkanBackend creates a backend that renders into surfaces from
// surfaces on instance. No device exists until CreateContext.
func NewVulkanBackend(instance *VulkanInstance, surfaces SurfaceProvider, cfg core.RendererConfiguration, logger log.FieldLogger) *VulkanBackend {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.SwapchainSize == 0 {
		cfg.SwapchainSize = 3
	}
	if !containsString(cfg.DeviceExtensions, vk.KhrSwapchainExtensionName) {
		cfg.DeviceExtensions = append(cfg.DeviceExtensions, vk.KhrSwapchainExtensionName)
	}
	cfg.DeviceExtensions = safeStrings(cfg.DeviceExtensions)

	return &VulkanBackend{
		configuration: cfg,
		instance:      instance,
		surfaces:      surfaces,
		log:           logger,
		clearColor:    [4]float32{0.05, 0.05, 0.05, 1},
	}
}

// VulkanBackend owns the device, surface and swapchain for one window
// at a time. It only clears the back buffer; what goes into a frame
// is up to the game.
type VulkanBackend struct {
	configuration core.RendererConfiguration
	instance      *VulkanInstance
	surfaces      SurfaceProvider
	log           log.FieldLogger

	clearColor [4]float32

	surface            vk.Surface
	physicalDevice     vk.PhysicalDevice
	logicalDevice      vk.Device
	deviceQueue        vk.Queue
	graphicsQueueIndex uint32

	imageFormat     vk.Format
	imageColorspace vk.ColorSpace
	renderPass      vk.RenderPass

	swapchain           vk.Swapchain
	extent              core.Extent
	swapchainImages     []vk.Image
	swapchainImageViews []vk.ImageView
	framebuffers        []vk.Framebuffer

	commandPool    vk.CommandPool
	commandBuffers []vk.CommandBuffer

	imageFence              vk.Fence
	renderFinishedSemaphore vk.Semaphore
	imageAvailableSemaphore vk.Semaphore
	imageIndex              uint32
	acquired                bool
}

// SetClearColor sets the colour the back buffer is cleared to
func (v *VulkanBackend) SetClearColor(r, g, b, a float32) {
	v.clearColor = [4]float32{r, g, b, a}
}

// Extent returns the current swapchain extent
func (v *VulkanBackend) Extent() core.Extent {
	return v.extent
}

// CreateContext implements interface
func (v *VulkanBackend) CreateContext(window core.NativeWindow) error {
	if window == 0 {
		return fmt.Errorf("%w: no native window", ErrSurfaceCreation)
	}

	surface, err := v.surfaces.CreateSurface(v.instance.Instance(), window)
	if err != nil {
		if errors.Is(err, ErrSurfaceCreation) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSurfaceCreation, err)
	}
	v.surface = surface

	if err := v.createDevice(); err != nil {
		v.DestroyContext()
		return err
	}
	if err := v.chooseFormat(); err != nil {
		v.DestroyContext()
		return err
	}
	if err := v.createRenderPass(); err != nil {
		v.DestroyContext()
		return err
	}
	if err := v.createCommandPool(); err != nil {
		v.DestroyContext()
		return err
	}
	if err := v.createSynchronization(); err != nil {
		v.DestroyContext()
		return err
	}

	v.log.WithField("queue", v.graphicsQueueIndex).Info("rendering context created")
	return nil
}

func (v *VulkanBackend) createDevice() error {
	devices := v.instance.AvailableDevices()
	if len(devices) == 0 {
		return errors.New("vulkan error: no physical devices")
	}

	/* Find a device with a queue family that can draw and present */
	var found bool
	for _, device := range devices {
		if index, ok := v.graphicsQueueFamily(device); ok {
			v.physicalDevice = device
			v.graphicsQueueIndex = index
			found = true
			break
		}
	}
	if !found {
		return errors.New("vulkan error: could not find a queue family that can draw and present")
	}

	/* Logical Device setup */
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: v.graphicsQueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}

	var vkDevice vk.Device
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(v.configuration.DeviceExtensions)),
		PpEnabledExtensionNames: v.configuration.DeviceExtensions,
	}
	if err := vk.Error(vk.CreateDevice(v.physicalDevice, &dci, nil, &vkDevice)); err != nil {
		return errors.New("vk.CreateDevice(): " + err.Error())
	}
	v.logicalDevice = vkDevice

	var deviceQueue vk.Queue
	vk.GetDeviceQueue(vkDevice, v.graphicsQueueIndex, 0, &deviceQueue)
	v.deviceQueue = deviceQueue
	return nil
}

func (v *VulkanBackend) graphicsQueueFamily(device vk.PhysicalDevice) (uint32, bool) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}

		var supportsPresent vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(device, i, v.surface, &supportsPresent)
		if supportsPresent.B() {
			return i, true
		}
	}
	return 0, false
}

func (v *VulkanBackend) chooseFormat() error {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(v.physicalDevice, v.surface, &surfaceFormatCount, nil)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	if surfaceFormatCount == 0 {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): no formats")
	}

	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(v.physicalDevice, v.surface, &surfaceFormatCount, surfaceFormats)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	surfaceFormats[0].Deref()
	v.imageFormat = surfaceFormats[0].Format
	v.imageColorspace = surfaceFormats[0].ColorSpace
	if v.imageFormat == vk.FormatUndefined {
		// the surface has no preference
		v.imageFormat = vk.FormatB8g8r8a8Unorm
	}
	return nil
}

func (v *VulkanBackend) createRenderPass() error {
	attachments := []vk.AttachmentDescription{{
		Format:         v.imageFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorAttachments := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpasses := []vk.SubpassDescription{{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorAttachments)),
		PColorAttachments:    colorAttachments,
	}}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(v.logicalDevice, &rpci, nil, &renderPass)); err != nil {
		return errors.New("vk.CreateRenderPass(): " + err.Error())
	}
	v.renderPass = renderPass
	return nil
}

func (v *VulkanBackend) createCommandPool() error {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: v.graphicsQueueIndex,
	}

	var commandPool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(v.logicalDevice, &cpci, nil, &commandPool)); err != nil {
		return errors.New("vk.CreateCommandPool(): " + err.Error())
	}
	v.commandPool = commandPool
	return nil
}

func (v *VulkanBackend) createSynchronization() error {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var imageAvailable vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(v.logicalDevice, &sci, nil, &imageAvailable)); err != nil {
		return errors.New("vk.CreateSemaphore(imageAvailable): " + err.Error())
	}
	v.imageAvailableSemaphore = imageAvailable

	var renderFinished vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(v.logicalDevice, &sci, nil, &renderFinished)); err != nil {
		return errors.New("vk.CreateSemaphore(renderFinished): " + err.Error())
	}
	v.renderFinishedSemaphore = renderFinished

	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(v.logicalDevice, &fci, nil, &fence)); err != nil {
		return errors.New("vk.CreateFence(): " + err.Error())
	}
	v.imageFence = fence
	return nil
}

// ResizeSwapchain implements interface
func (v *VulkanBackend) ResizeSwapchain(extent core.Extent) (core.Extent, error) {
	if v.logicalDevice == nil {
		return core.Extent{}, errors.New("vulkan error: resize without a device")
	}

	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(v.physicalDevice, v.surface, &surfaceCapabilities)); err != nil {
		return v.extent, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	surfaceCapabilities.Deref()
	surfaceCapabilities.CurrentExtent.Deref()
	surfaceCapabilities.MinImageExtent.Deref()
	surfaceCapabilities.MaxImageExtent.Deref()

	resolved := resolveExtent(
		extent,
		core.Extent{Width: surfaceCapabilities.CurrentExtent.Width, Height: surfaceCapabilities.CurrentExtent.Height},
		core.Extent{Width: surfaceCapabilities.MinImageExtent.Width, Height: surfaceCapabilities.MinImageExtent.Height},
		core.Extent{Width: surfaceCapabilities.MaxImageExtent.Width, Height: surfaceCapabilities.MaxImageExtent.Height},
		core.Extent{Width: v.configuration.ScreenWidth, Height: v.configuration.ScreenHeight},
	)

	if resolved == v.extent && v.swapchain != nil {
		return v.extent, nil
	}

	vk.DeviceWaitIdle(v.logicalDevice)
	if resolved.Empty() {
		// nothing to present into until the window grows again
		v.destroySwapchain()
		v.extent = core.Extent{}
		return v.extent, nil
	}

	if err := v.createSwapchain(resolved, &surfaceCapabilities); err != nil {
		// a half built swapchain is worse than none
		v.destroySwapchain()
		v.extent = core.Extent{}
		return v.extent, err
	}
	v.extent = resolved
	return v.extent, nil
}

// resolveExtent picks the swapchain size. current is what the surface
// reports, which is the CurrentExtent marker when the surface lets the
// swapchain decide; fallback is used in that case.
func resolveExtent(requested, current, lo, hi, fallback core.Extent) core.Extent {
	if !requested.IsCurrent() {
		return requested
	}
	if !current.IsCurrent() {
		return current
	}
	return core.Extent{
		Width:  clamp(fallback.Width, lo.Width, hi.Width),
		Height: clamp(fallback.Height, lo.Height, hi.Height),
	}
}

// clamp keeps value within [lo, hi]; a zero hi means no upper bound
func clamp(value, lo, hi uint32) uint32 {
	if value < lo {
		return lo
	}
	if hi != 0 && value > hi {
		return hi
	}
	return value
}

func (v *VulkanBackend) createSwapchain(extent core.Extent, surfaceCapabilities *vk.SurfaceCapabilities) error {
	imageCount := v.configuration.SwapchainSize
	if imageCount < surfaceCapabilities.MinImageCount {
		imageCount = surfaceCapabilities.MinImageCount
	}
	if surfaceCapabilities.MaxImageCount > 0 && imageCount > surfaceCapabilities.MaxImageCount {
		imageCount = surfaceCapabilities.MaxImageCount
	}

	// PreTransform
	preTransform := vk.SurfaceTransformIdentityBit
	if vk.SurfaceTransformFlagBits(surfaceCapabilities.SupportedTransforms)&preTransform == 0 {
		preTransform = surfaceCapabilities.CurrentTransform
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}

	// CompositeAlpha
	for i := 0; i < len(compositeAlphaFlags); i++ {
		alphaFlags := vk.CompositeAlphaFlags(compositeAlphaFlags[i])
		flagSupported := surfaceCapabilities.SupportedCompositeAlpha&alphaFlags != 0
		if flagSupported {
			compositeAlpha = compositeAlphaFlags[i]
			break
		}
	}

	oldSwapchain := v.swapchain
	v.destroySwapchainImages()

	var swapchain vk.Swapchain
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         v.surface,
		MinImageCount:   imageCount,
		ImageFormat:     v.imageFormat,
		ImageColorSpace: v.imageColorspace,
		ImageExtent: vk.Extent2D{
			Width:  extent.Width,
			Height: extent.Height,
		},
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldSwapchain,
	}

	err := vk.Error(vk.CreateSwapchain(v.logicalDevice, &scci, nil, &swapchain))
	if oldSwapchain != nil {
		vk.DestroySwapchain(v.logicalDevice, oldSwapchain, nil)
		v.swapchain = nil
	}
	if err != nil {
		return errors.New("vk.CreateSwapchain(): " + err.Error())
	}
	v.swapchain = swapchain

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(v.logicalDevice, v.swapchain, &numImages, nil)); err != nil {
		return errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}

	v.swapchainImages = make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(v.logicalDevice, v.swapchain, &numImages, v.swapchainImages)); err != nil {
		return errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}

	if err := v.createImageViews(); err != nil {
		return err
	}
	if err := v.createFramebuffers(extent); err != nil {
		return err
	}
	return v.allocateCommandBuffers()
}

func (v *VulkanBackend) createImageViews() error {
	v.swapchainImageViews = make([]vk.ImageView, 0, len(v.swapchainImages))
	for idx, image := range v.swapchainImages {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   v.imageFormat,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleR,
				G: vk.ComponentSwizzleG,
				B: vk.ComponentSwizzleB,
				A: vk.ComponentSwizzleA,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}

		var imageView vk.ImageView
		if err := vk.Error(vk.CreateImageView(v.logicalDevice, &ivci, nil, &imageView)); err != nil {
			return fmt.Errorf("vk.CreateImageView()[%d]: %s", idx, err.Error())
		}
		v.swapchainImageViews = append(v.swapchainImageViews, imageView)
	}
	return nil
}

func (v *VulkanBackend) createFramebuffers(extent core.Extent) error {
	v.framebuffers = make([]vk.Framebuffer, 0, len(v.swapchainImageViews))
	for idx, imageView := range v.swapchainImageViews {
		fbci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      v.renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{imageView},
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}

		var framebuffer vk.Framebuffer
		if err := vk.Error(vk.CreateFramebuffer(v.logicalDevice, &fbci, nil, &framebuffer)); err != nil {
			return fmt.Errorf("vk.CreateFramebuffer()[%d]: %s", idx, err.Error())
		}
		v.framebuffers = append(v.framebuffers, framebuffer)
	}
	return nil
}

func (v *VulkanBackend) allocateCommandBuffers() error {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        v.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(v.framebuffers)),
	}

	commandBuffers := make([]vk.CommandBuffer, len(v.framebuffers))
	if err := vk.Error(vk.AllocateCommandBuffers(v.logicalDevice, &cbai, commandBuffers)); err != nil {
		return errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}
	v.commandBuffers = commandBuffers
	return nil
}

// AcquireBackBuffer implements interface
func (v *VulkanBackend) AcquireBackBuffer() error {
	v.acquired = false
	if v.logicalDevice == nil {
		return errors.New("vulkan error: acquire without a device")
	}
	if v.swapchain == nil {
		// dropped after the surface shrank to nothing, try again
		if err := v.recreateSwapchain(); err != nil || v.swapchain == nil {
			return err
		}
	}

	fences := []vk.Fence{v.imageFence}
	if err := vk.Error(vk.WaitForFences(v.logicalDevice, 1, fences, vk.True, math.MaxUint64)); err != nil {
		return errors.New("vk.WaitForFences(): " + err.Error())
	}

	result := vk.AcquireNextImage(v.logicalDevice, v.swapchain, math.MaxUint64, v.imageAvailableSemaphore, nil, &v.imageIndex)
	switch result {
	case vk.Success, vk.Suboptimal:
	case vk.ErrorOutOfDate:
		v.log.Debug("swapchain out of date on acquire, recreating")
		return v.recreateSwapchain()
	default:
		return errors.New("vk.AcquireNextImage(): " + vk.Error(result).Error())
	}

	if err := vk.Error(vk.ResetFences(v.logicalDevice, 1, fences)); err != nil {
		return errors.New("vk.ResetFences(): " + err.Error())
	}
	v.acquired = true
	return nil
}

// PresentBackBuffer implements interface
func (v *VulkanBackend) PresentBackBuffer() error {
	if !v.acquired {
		// the acquire recreated the swapchain instead
		return nil
	}
	v.acquired = false

	if int(v.imageIndex) >= len(v.commandBuffers) || int(v.imageIndex) >= len(v.framebuffers) {
		return fmt.Errorf("vulkan error: no command buffer for image %d", v.imageIndex)
	}
	if err := v.recordCommandBuffer(v.imageIndex); err != nil {
		return err
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{v.imageAvailableSemaphore},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{v.commandBuffers[v.imageIndex]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{v.renderFinishedSemaphore},
	}}

	if err := vk.Error(vk.QueueSubmit(v.deviceQueue, 1, submit, v.imageFence)); err != nil {
		return errors.New("vk.QueueSubmit(): " + err.Error())
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{v.renderFinishedSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{v.swapchain},
		PImageIndices:      []uint32{v.imageIndex},
	}

	presentResult := vk.QueuePresent(v.deviceQueue, &presentInfo)
	if presentResult == vk.ErrorOutOfDate || presentResult == vk.Suboptimal {
		v.log.Debug("swapchain out of date on present, recreating")
		return v.recreateSwapchain()
	}

	if err := vk.Error(presentResult); err != nil {
		return errors.New("vk.QueuePresent(): " + err.Error())
	}
	return nil
}

func (v *VulkanBackend) recordCommandBuffer(idx uint32) error {
	commandBuffer := v.commandBuffers[idx]
	if err := vk.Error(vk.ResetCommandBuffer(commandBuffer, 0)); err != nil {
		return fmt.Errorf("vk.ResetCommandBuffer()[%d]: %s", idx, err.Error())
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(commandBuffer, &cbbi)); err != nil {
		return fmt.Errorf("vk.BeginCommandBuffer()[%d]: %s", idx, err.Error())
	}

	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(v.clearColor[:])

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  v.renderPass,
		Framebuffer: v.framebuffers[idx],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{
				X: 0, Y: 0,
			},
			Extent: vk.Extent2D{
				Width:  v.extent.Width,
				Height: v.extent.Height,
			},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(commandBuffer, &rpbi, vk.SubpassContentsInline)
	vk.CmdEndRenderPass(commandBuffer)

	if err := vk.Error(vk.EndCommandBuffer(commandBuffer)); err != nil {
		return fmt.Errorf("vk.EndCommandBuffer()[%d]: %s", idx, err.Error())
	}
	return nil
}

func (v *VulkanBackend) recreateSwapchain() error {
	// force recreation even if the size did not change
	v.extent = core.Extent{}
	if _, err := v.ResizeSwapchain(core.CurrentExtent); err != nil {
		return err
	}
	return nil
}

func (v *VulkanBackend) destroySwapchainImages() {
	if len(v.commandBuffers) > 0 {
		vk.FreeCommandBuffers(v.logicalDevice, v.commandPool, uint32(len(v.commandBuffers)), v.commandBuffers)
	}
	v.commandBuffers = nil

	for _, fb := range v.framebuffers {
		vk.DestroyFramebuffer(v.logicalDevice, fb, nil)
	}
	v.framebuffers = nil

	// Swapchain images belong to the swapchain, only the views are ours
	for _, iv := range v.swapchainImageViews {
		vk.DestroyImageView(v.logicalDevice, iv, nil)
	}
	v.swapchainImageViews = nil
	v.swapchainImages = nil
}

func (v *VulkanBackend) destroySwapchain() {
	v.destroySwapchainImages()
	if v.swapchain != nil {
		vk.DestroySwapchain(v.logicalDevice, v.swapchain, nil)
		v.swapchain = nil
	}
}

// DestroyContext implements interface
func (v *VulkanBackend) DestroyContext() {
	if v.logicalDevice != nil {
		vk.DeviceWaitIdle(v.logicalDevice)

		v.destroySwapchain()

		if v.imageFence != nil {
			vk.DestroyFence(v.logicalDevice, v.imageFence, nil)
		}
		if v.renderFinishedSemaphore != nil {
			vk.DestroySemaphore(v.logicalDevice, v.renderFinishedSemaphore, nil)
		}
		if v.imageAvailableSemaphore != nil {
			vk.DestroySemaphore(v.logicalDevice, v.imageAvailableSemaphore, nil)
		}
		if v.commandPool != nil {
			vk.DestroyCommandPool(v.logicalDevice, v.commandPool, nil)
		}
		if v.renderPass != nil {
			vk.DestroyRenderPass(v.logicalDevice, v.renderPass, nil)
		}
		vk.DestroyDevice(v.logicalDevice, nil)
	}

	if v.surface != nil {
		vk.DestroySurface(v.instance.Instance(), v.surface, nil)
	}

	v.imageFence = nil
	v.renderFinishedSemaphore = nil
	v.imageAvailableSemaphore = nil
	v.commandPool = nil
	v.renderPass = nil
	v.logicalDevice = nil
	v.deviceQueue = nil
	v.physicalDevice = nil
	v.surface = nil
	v.extent = core.Extent{}
	v.acquired = false
	v.log.Info("rendering context destroyed")
}

// Destroy destroys internal members
func (v *VulkanBackend) Destroy() {
	v.instance.Destroy()
}
