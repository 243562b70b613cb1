// Package stub implements the desktop no-op driver. It accepts the whole
// lifecycle without touching hardware and serves silent batches at the
// configured cadence, so development machines without audio devices can
// run the full pipeline.
package stub

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// Driver is the no-op desktop driver.
type Driver struct {
	logger *slog.Logger

	mu        sync.Mutex
	cfg       audio.Config
	inited    bool
	capturing bool
	playing   bool
}

// New returns the stub driver.
func New() *Driver {
	return &Driver{
		logger: slog.Default().With("component", "audio.stub"),
	}
}

// Name returns "stub".
func (d *Driver) Name() string { return "stub" }

// Init stores the configuration.
func (d *Driver) Init(cfg audio.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.inited = true
	d.logger.Info("stub driver initialized (no hardware)")
	return nil
}

// StartCapture marks capture active. No device is opened.
func (d *Driver) StartCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inited {
		return audio.ErrNotInitialized
	}
	d.capturing = true
	return nil
}

// StopCapture is a safe no-op when not capturing.
func (d *Driver) StopCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.capturing = false
	return nil
}

// StartPlayback marks playback active.
func (d *Driver) StartPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inited {
		return audio.ErrNotInitialized
	}
	d.playing = true
	return nil
}

// StopPlayback is a safe no-op when not playing.
func (d *Driver) StopPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
	return nil
}

// Read sleeps for one batch duration and returns silence, pacing callers
// the way a real blocking device read would.
func (d *Driver) Read() (*audio.Buffer, error) {
	d.mu.Lock()
	cfg := d.cfg
	capturing := d.capturing
	d.mu.Unlock()

	if !capturing {
		return nil, audio.ErrNotCapturing
	}

	time.Sleep(time.Duration(cfg.BufferSize) * time.Second / time.Duration(cfg.SampleRate))

	return &audio.Buffer{
		Data:        make([]float32, cfg.SamplesPerBatch()),
		Samples:     cfg.SamplesPerBatch(),
		Channels:    cfg.Channels,
		TimestampUS: time.Now().UnixMicro(),
	}, nil
}

// Cleanup drops driver state.
func (d *Driver) Cleanup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.capturing = false
	d.playing = false
	d.inited = false
	d.logger.Info("stub driver cleaned up")
	return nil
}

// Verify Driver implements audio.Driver at compile time.
var _ audio.Driver = (*Driver)(nil)
