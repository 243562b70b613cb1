//go:build !linux || !cgo

package alsa

import "github.com/kestrelvoice/go-kestrel/pkg/audio"

// systemOpener on non-Linux builds: ALSA is unavailable.
type systemOpener struct{}

func (systemOpener) OpenCapture(device string, cfg audio.Config) (pcm, int, error) {
	return nil, 0, audio.ErrUnsupported
}

func (systemOpener) OpenPlayback(device string, cfg audio.Config) (pcm, int, error) {
	return nil, 0, audio.ErrUnsupported
}
