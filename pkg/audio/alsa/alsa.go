// Package alsa implements the Linux ALSA capture/playback driver.
//
// Frames are pulled synchronously: Read blocks inside the ALSA stack
// until one configured batch is filled. Device opening walks a fixed
// candidate list (environment override, then "default", then
// "sysdefault") and uses the first name that opens.
package alsa

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// DeviceEnv names the environment variable that overrides the ALSA
// capture/playback device (e.g. "hw:1,0", "plughw:0").
const DeviceEnv = "KESTREL_AUDIO_DEVICE"

// pcm is one open PCM stream.
type pcm interface {
	// ReadS16 blocks until it has read some samples into buf.
	ReadS16(buf []int16) (int, error)

	// Recover re-arms the stream after an overrun/busy condition.
	Recover() error

	Close()
}

// opener opens PCM streams by ALSA device name. The returned rate is the
// nearest rate the hardware accepted; channel count is never substituted.
type opener interface {
	OpenCapture(device string, cfg audio.Config) (pcm, int, error)
	OpenPlayback(device string, cfg audio.Config) (pcm, int, error)
}

// isTransient reports whether a read error is the standard
// "overrun / device temporarily busy" condition worth one retry.
type transientError interface {
	Transient() bool
}

func isTransient(err error) bool {
	te, ok := err.(transientError)
	return ok && te.Transient()
}

// Driver is the ALSA pull driver.
type Driver struct {
	logger *slog.Logger
	opener opener

	mu       sync.Mutex
	cfg      audio.Config
	inited   bool
	capture  pcm
	playback pcm
	rate     int // negotiated capture rate

	// readMu is held for the whole of a blocking Read. StopCapture
	// detaches the handle under mu, then takes readMu before closing it,
	// so the handle is never closed under a read still blocked inside
	// the native stack.
	readMu sync.Mutex
}

// New returns the ALSA driver backed by the system PCM layer.
func New() *Driver {
	return &Driver{
		logger: slog.Default().With("component", "audio.alsa"),
		opener: systemOpener{},
	}
}

// Name returns "alsa".
func (d *Driver) Name() string { return "alsa" }

// Init stores the configuration. No device is opened yet; ALSA handles
// are only claimed by StartCapture/StartPlayback.
func (d *Driver) Init(cfg audio.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg = cfg
	d.rate = cfg.SampleRate
	d.inited = true
	d.logger.Info("alsa driver initialized",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
	)
	return nil
}

// candidates returns the device-open order: the environment override
// first when set, then the ALSA defaults.
func (d *Driver) candidates() []string {
	names := make([]string, 0, 3)
	if env := os.Getenv(DeviceEnv); env != "" {
		names = append(names, env)
	}
	return append(names, "default", "sysdefault")
}

// openFirst walks the candidate list and returns the first stream that
// opens, logging every failed attempt.
func (d *Driver) openFirst(open func(string) (pcm, int, error)) (pcm, int, string, error) {
	for _, name := range d.candidates() {
		p, rate, err := open(name)
		if err == nil {
			return p, rate, name, nil
		}
		d.logger.Warn("device open failed", "device", name, "error", err)
	}
	return nil, 0, "", audio.ErrDeviceOpen
}

// StartCapture opens the capture device, accepting the nearest supported
// rate. Calling it while capture is open is a no-op.
func (d *Driver) StartCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inited {
		return audio.ErrNotInitialized
	}
	if d.capture != nil {
		return nil
	}

	p, rate, name, err := d.openFirst(func(dev string) (pcm, int, error) {
		return d.opener.OpenCapture(dev, d.cfg)
	})
	if err != nil {
		return fmt.Errorf("alsa: open capture: %w", err)
	}

	if rate != d.cfg.SampleRate {
		d.logger.Warn("hardware adjusted sample rate",
			"requested", d.cfg.SampleRate,
			"actual", rate,
		)
	}
	d.capture = p
	d.rate = rate
	d.logger.Info("capture device opened", "device", name, "rate", rate)
	return nil
}

// StopCapture closes the capture handle. Safe no-op when not capturing.
// An in-flight Read completes its batch first; the close waits for it.
func (d *Driver) StopCapture() error {
	d.mu.Lock()
	p := d.capture
	d.capture = nil
	d.mu.Unlock()

	if p == nil {
		return nil
	}

	d.readMu.Lock()
	p.Close()
	d.readMu.Unlock()

	d.logger.Info("capture device closed")
	return nil
}

// StartPlayback opens the playback device with the same candidate walk.
func (d *Driver) StartPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inited {
		return audio.ErrNotInitialized
	}
	if d.playback != nil {
		return nil
	}

	p, _, name, err := d.openFirst(func(dev string) (pcm, int, error) {
		return d.opener.OpenPlayback(dev, d.cfg)
	})
	if err != nil {
		return fmt.Errorf("alsa: open playback: %w", err)
	}
	d.playback = p
	d.logger.Info("playback device opened", "device", name)
	return nil
}

// StopPlayback closes the playback handle. Safe no-op when not playing.
func (d *Driver) StopPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.playback == nil {
		return nil
	}
	d.playback.Close()
	d.playback = nil
	d.logger.Info("playback device closed")
	return nil
}

// Read blocks until exactly one configured batch is filled. Overrun/busy
// conditions are recovered once per batch (re-arm and continue); any other
// error, or a second transient in the same batch, fails outward. A
// concurrent StopCapture takes effect after the batch completes.
func (d *Driver) Read() (*audio.Buffer, error) {
	d.readMu.Lock()
	defer d.readMu.Unlock()

	d.mu.Lock()
	p := d.capture
	cfg := d.cfg
	d.mu.Unlock()

	if p == nil {
		return nil, audio.ErrNotCapturing
	}

	scratch := make([]int16, cfg.SamplesPerBatch())
	filled := 0
	recovered := false

	for filled < len(scratch) {
		n, err := p.ReadS16(scratch[filled:])
		if err != nil {
			if isTransient(err) && !recovered {
				recovered = true
				if rerr := p.Recover(); rerr != nil {
					return nil, fmt.Errorf("alsa: recover after overrun: %w", rerr)
				}
				d.logger.Debug("recovered from overrun")
				continue
			}
			return nil, fmt.Errorf("alsa: read: %w", err)
		}
		filled += n
	}

	return audio.NewBuffer(scratch, cfg.Channels, time.Now().UnixMicro()), nil
}

// Cleanup stops any open streams and drops driver state.
func (d *Driver) Cleanup() error {
	_ = d.StopCapture()
	_ = d.StopPlayback()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inited = false
	d.logger.Info("alsa driver cleaned up")
	return nil
}

// Rate returns the negotiated capture rate (the configured rate until
// capture has started).
func (d *Driver) Rate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rate
}

// Verify Driver implements audio.Driver at compile time.
var _ audio.Driver = (*Driver)(nil)
