// Package platform links exactly one audio driver into the binary.
//
// Selection is static, by build tag, mirroring a compile-time platform
// macro. Default Linux builds get the ALSA pull driver; `-tags board`
// selects the single-board ALSA+GPIO driver; `-tags embedded` selects
// the task-driven serial-channel driver; all other platforms get the
// no-op stub. There is no runtime driver loading.
package platform

import "github.com/kestrelvoice/go-kestrel/pkg/audio"

// Driver returns a fresh instance of the linked platform driver.
func Driver() audio.Driver {
	return newDriver()
}

// Name returns the linked platform's name without constructing a driver.
func Name() string {
	return platformName
}
