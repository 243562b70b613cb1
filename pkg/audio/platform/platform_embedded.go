//go:build embedded

package platform

import (
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	"github.com/kestrelvoice/go-kestrel/pkg/audio/embedded"
)

const platformName = "embedded"

func newDriver() audio.Driver {
	return embedded.New()
}
