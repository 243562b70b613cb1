// Package embedded implements the task-driven capture driver for boards
// whose microphone is wired to a synchronous serial audio channel
// (I2S-style, master role, DMA-backed).
//
// One dedicated capture goroutine owns the channel and a fixed scratch
// buffer. Each iteration blocks on a hardware read, normalizes the
// fixed-point samples to float32, invokes the registered capture callback
// synchronously, then yields. Teardown is cooperative: the control side
// clears the running flag and closes the channel; the task and the
// control side never contend on lifecycle flags.
package embedded

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// Channel models the serial audio channel: opened in master role with
// the runtime's configuration, read synchronously, closed to release the
// DMA buffers. Close must unblock a pending ReadSamples.
type Channel interface {
	Open(cfg audio.Config) error
	ReadSamples(buf []int16) (int, error)
	Close() error
}

// Driver is the embedded capture driver. Frames are delivered only
// through the registered capture callback; Read pulls are unsupported.
type Driver struct {
	logger *slog.Logger
	ch     Channel

	mu        sync.Mutex
	cfg       audio.Config
	inited    bool
	capturing bool
	playing   bool
	scratch   []int16

	running atomic.Bool
	wg      sync.WaitGroup

	fnMu sync.RWMutex
	fn   audio.CaptureFunc
}

// New returns the embedded driver backed by the system audio channel.
func New() *Driver {
	return newWithChannel(newSystemChannel())
}

func newWithChannel(ch Channel) *Driver {
	return &Driver{
		logger: slog.Default().With("component", "audio.embedded"),
		ch:     ch,
	}
}

// Name returns "embedded".
func (d *Driver) Name() string { return "embedded" }

// SetCaptureFunc registers the frame callback. It may be swapped at any
// time; the capture task reads it once per iteration.
func (d *Driver) SetCaptureFunc(fn audio.CaptureFunc) {
	d.fnMu.Lock()
	d.fn = fn
	d.fnMu.Unlock()
}

// Init installs the channel configuration and allocates the scratch
// buffer. The channel itself is not opened until StartCapture.
func (d *Driver) Init(cfg audio.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg = cfg
	d.scratch = make([]int16, cfg.SamplesPerBatch())
	d.inited = true
	d.logger.Info("embedded driver initialized",
		"sample_rate", cfg.SampleRate,
		"batch_samples", len(d.scratch),
	)
	return nil
}

// StartCapture opens the channel and spawns the capture task.
// Calling it while already capturing is a no-op.
func (d *Driver) StartCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inited {
		return audio.ErrNotInitialized
	}
	if d.capturing {
		return nil
	}

	if err := d.ch.Open(d.cfg); err != nil {
		d.logger.Error("channel open failed", "error", err)
		return err
	}

	d.running.Store(true)
	d.wg.Add(1)
	go d.captureTask()

	d.capturing = true
	d.logger.Info("capture task started")
	return nil
}

// captureTask is the single dedicated capture loop. It owns the channel
// and the scratch buffer for its whole lifetime.
func (d *Driver) captureTask() {
	defer d.wg.Done()

	for d.running.Load() {
		n, err := d.ch.ReadSamples(d.scratch)
		if err != nil {
			if d.running.Load() {
				d.logger.Error("channel read failed, capture task exiting", "error", err)
			}
			return
		}
		if n == 0 {
			continue
		}

		d.fnMu.RLock()
		fn := d.fn
		d.fnMu.RUnlock()

		if fn != nil {
			fn(audio.NewBuffer(d.scratch[:n], d.cfg.Channels, time.Now().UnixMicro()))
		}

		runtime.Gosched()
	}
}

// StopCapture clears the running flag, closes the channel to unblock the
// task, and joins it. Safe no-op when not capturing.
func (d *Driver) StopCapture() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.capturing {
		return nil
	}

	d.running.Store(false)
	if err := d.ch.Close(); err != nil {
		d.logger.Warn("channel close reported error", "error", err)
	}
	d.wg.Wait()

	d.capturing = false
	d.logger.Info("capture task stopped")
	return nil
}

// StartPlayback marks playback active. On these boards output shares the
// serial channel and is driven by the playback path of the channel
// implementation.
func (d *Driver) StartPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inited {
		return audio.ErrNotInitialized
	}
	d.playing = true
	return nil
}

// StopPlayback marks playback inactive. Safe no-op when not playing.
func (d *Driver) StopPlayback() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
	return nil
}

// Read is unsupported: frames arrive via the capture callback.
func (d *Driver) Read() (*audio.Buffer, error) {
	return nil, audio.ErrPullUnsupported
}

// Cleanup stops capture if still active and drops driver state.
func (d *Driver) Cleanup() error {
	_ = d.StopCapture()
	_ = d.StopPlayback()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.scratch = nil
	d.inited = false
	d.logger.Info("embedded driver cleaned up")
	return nil
}

// Verify Driver implements audio.CallbackDriver at compile time.
var _ audio.CallbackDriver = (*Driver)(nil)
