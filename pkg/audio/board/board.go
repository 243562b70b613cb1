// Package board implements the single-board-computer driver: ALSA PCM
// capture plus GPIO control of an 8-microphone array multiplexer.
//
// The mic array is driven by one enable pin and three select pins (a
// 3-bit mic index). GPIO bring-up happens at Init, before any device is
// opened; if it fails the driver degrades to plain ALSA capture with a
// warning rather than failing init.
package board

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	"github.com/kestrelvoice/go-kestrel/pkg/audio/alsa"
)

// micArray abstracts the GPIO multiplexer so the selection logic is
// testable without hardware.
type micArray interface {
	Setup() error
	Select(idx int) error
	Enable(on bool) error
	Close() error
}

// Pins names the GPIO lines driving the mic-array multiplexer.
type Pins struct {
	Enable string
	Select [3]string
}

// DefaultPins returns the reference wiring for the supported hats.
func DefaultPins() Pins {
	return Pins{
		Enable: "GPIO24",
		Select: [3]string{"GPIO25", "GPIO8", "GPIO7"},
	}
}

// Driver wraps the ALSA driver with mic-array control.
type Driver struct {
	*alsa.Driver
	logger *slog.Logger

	mu    sync.Mutex
	array micArray
	mic   int
}

// New returns the single-board driver with the reference pin wiring.
func New() *Driver {
	return &Driver{
		Driver: alsa.New(),
		logger: slog.Default().With("component", "audio.board"),
		array:  newGPIOArray(DefaultPins()),
	}
}

// Name returns "board".
func (d *Driver) Name() string { return "board" }

// Init initializes ALSA state and brings up the mic-array GPIO. GPIO
// failure is downgraded to a warning: capture still works through
// whatever microphone the codec exposes by default.
func (d *Driver) Init(cfg audio.Config) error {
	if err := d.Driver.Init(cfg); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.array == nil {
		return nil
	}
	if err := d.array.Setup(); err != nil {
		d.logger.Warn("mic array GPIO setup failed, continuing without mux", "error", err)
		d.array = nil
		return nil
	}
	d.logger.Info("mic array GPIO initialized")
	return nil
}

// StartCapture selects the primary microphone, enables the array and
// opens the ALSA capture device.
func (d *Driver) StartCapture() error {
	d.mu.Lock()
	if d.array != nil {
		if err := d.array.Select(0); err != nil {
			d.logger.Warn("mic select failed", "mic", 0, "error", err)
		}
		if err := d.array.Enable(true); err != nil {
			d.logger.Warn("mic array enable failed", "error", err)
		}
		d.mic = 0
	}
	d.mu.Unlock()

	return d.Driver.StartCapture()
}

// StopCapture closes the capture device and disables the mic array.
func (d *Driver) StopCapture() error {
	err := d.Driver.StopCapture()

	d.mu.Lock()
	if d.array != nil {
		if derr := d.array.Enable(false); derr != nil {
			d.logger.Warn("mic array disable failed", "error", derr)
		}
	}
	d.mu.Unlock()
	return err
}

// SelectMicrophone switches the array multiplexer to the given mic (0-7).
// Returns audio.ErrUnsupported when no mux is available.
func (d *Driver) SelectMicrophone(idx int) error {
	if idx < 0 || idx > 7 {
		return fmt.Errorf("board: mic index %d out of range", idx)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.array == nil {
		return audio.ErrUnsupported
	}
	if err := d.array.Select(idx); err != nil {
		return fmt.Errorf("board: select mic %d: %w", idx, err)
	}
	d.mic = idx
	return nil
}

// Microphone returns the currently selected mic index.
func (d *Driver) Microphone() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mic
}

// Cleanup releases ALSA state and the GPIO lines.
func (d *Driver) Cleanup() error {
	err := d.Driver.Cleanup()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.array != nil {
		if cerr := d.array.Close(); cerr != nil {
			d.logger.Warn("mic array close failed", "error", cerr)
		}
	}
	return err
}

// Verify Driver implements audio.Driver at compile time.
var _ audio.Driver = (*Driver)(nil)
