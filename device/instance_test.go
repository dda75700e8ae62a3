package device

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestDebugReportLevel(t *testing.T) {
	for flags, level := range map[vk.DebugReportFlagBits]log.Level{
		vk.DebugReportErrorBit:                                log.ErrorLevel,
		vk.DebugReportWarningBit:                              log.WarnLevel,
		vk.DebugReportPerformanceWarningBit:                   log.WarnLevel,
		vk.DebugReportInformationBit:                          log.InfoLevel,
		vk.DebugReportDebugBit:                                log.DebugLevel,
		vk.DebugReportErrorBit | vk.DebugReportInformationBit: log.ErrorLevel,
	} {
		require.Equal(t, level, debugReportLevel(vk.DebugReportFlags(flags)), "flags %b", flags)
	}
}

func TestInstanceNilSafe(t *testing.T) {
	var instance *VulkanInstance
	require.Nil(t, instance.Instance())
	instance.Destroy()
}
