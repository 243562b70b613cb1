//go:build !cgo

package embedded

import "github.com/kestrelvoice/go-kestrel/pkg/audio"

// Without cgo there is no system audio channel.
type noChannel struct{}

func newSystemChannel() Channel {
	return noChannel{}
}

func (noChannel) Open(cfg audio.Config) error          { return audio.ErrUnsupported }
func (noChannel) ReadSamples(buf []int16) (int, error) { return 0, audio.ErrUnsupported }
func (noChannel) Close() error                         { return nil }
