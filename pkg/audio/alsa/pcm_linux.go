//go:build linux && cgo

package alsa

import (
	"errors"

	goalsa "github.com/cocoonlife/goalsa"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// systemOpener opens real ALSA PCM streams via alsa-lib. Hardware
// parameters are negotiated inside the library: the requested format and
// channel count are mandatory, the rate is set with set_rate_near.
type systemOpener struct{}

func (systemOpener) OpenCapture(device string, cfg audio.Config) (pcm, int, error) {
	c, err := goalsa.NewCaptureDevice(device, cfg.Channels, goalsa.FormatS16LE,
		cfg.SampleRate, goalsa.BufferParams{})
	if err != nil {
		return nil, 0, err
	}
	return &capturePCM{dev: c, device: device, cfg: cfg}, cfg.SampleRate, nil
}

func (systemOpener) OpenPlayback(device string, cfg audio.Config) (pcm, int, error) {
	p, err := goalsa.NewPlaybackDevice(device, cfg.Channels, goalsa.FormatS16LE,
		cfg.SampleRate, goalsa.BufferParams{})
	if err != nil {
		return nil, 0, err
	}
	return &playbackPCM{dev: p}, cfg.SampleRate, nil
}

// capturePCM wraps an open capture stream. Recover closes and reopens the
// stream, which re-prepares the hardware after an overrun.
type capturePCM struct {
	dev    *goalsa.CaptureDevice
	device string
	cfg    audio.Config
}

// overrun marks an error as the recoverable transient condition.
type overrun struct{ err error }

func (o overrun) Error() string   { return o.err.Error() }
func (o overrun) Unwrap() error   { return o.err }
func (o overrun) Transient() bool { return true }

func (c *capturePCM) ReadS16(buf []int16) (int, error) {
	n, err := c.dev.Read(buf)
	if err != nil {
		if errors.Is(err, goalsa.ErrOverrun) {
			return n, overrun{err}
		}
		return n, err
	}
	return n, nil
}

func (c *capturePCM) Recover() error {
	c.dev.Close()
	dev, err := goalsa.NewCaptureDevice(c.device, c.cfg.Channels, goalsa.FormatS16LE,
		c.cfg.SampleRate, goalsa.BufferParams{})
	if err != nil {
		return err
	}
	c.dev = dev
	return nil
}

func (c *capturePCM) Close() {
	c.dev.Close()
}

type playbackPCM struct {
	dev *goalsa.PlaybackDevice
}

func (p *playbackPCM) ReadS16(buf []int16) (int, error) {
	return 0, errors.New("alsa: playback stream is write-only")
}

func (p *playbackPCM) Recover() error { return nil }

func (p *playbackPCM) Close() {
	p.dev.Close()
}
