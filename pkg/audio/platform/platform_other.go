//go:build !linux && !embedded

package platform

import (
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	"github.com/kestrelvoice/go-kestrel/pkg/audio/stub"
)

const platformName = "desktop"

func newDriver() audio.Driver {
	return stub.New()
}
