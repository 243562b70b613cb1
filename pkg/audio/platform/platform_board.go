//go:build linux && board && !embedded

package platform

import (
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	"github.com/kestrelvoice/go-kestrel/pkg/audio/board"
)

const platformName = "board"

func newDriver() audio.Driver {
	return board.New()
}
