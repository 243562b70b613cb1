//go:build !linux

package board

import "github.com/kestrelvoice/go-kestrel/pkg/audio"

// No GPIO off-board; Init degrades to plain ALSA.
type noArray struct{}

func newGPIOArray(pins Pins) micArray {
	return noArray{}
}

func (noArray) Setup() error          { return audio.ErrUnsupported }
func (noArray) Select(idx int) error  { return audio.ErrUnsupported }
func (noArray) Enable(on bool) error  { return audio.ErrUnsupported }
func (noArray) Close() error          { return nil }
