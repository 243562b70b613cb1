//go:build linux && !board && !embedded

package platform

import (
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	"github.com/kestrelvoice/go-kestrel/pkg/audio/alsa"
)

const platformName = "linux"

func newDriver() audio.Driver {
	return alsa.New()
}
