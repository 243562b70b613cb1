//go:build linux

package platform

import (
	"os"
	"strings"
)

// boardModel reads the device-tree model string, present on Pi-class
// single-board computers. The string is NUL terminated on disk.
func boardModel() string {
	data, err := os.ReadFile("/proc/device-tree/model")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\x00\n ")
}
