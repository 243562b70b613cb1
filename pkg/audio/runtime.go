package audio

import (
	"fmt"
	"log/slog"
	"sync"
)

// Runtime owns one platform driver and dispatches every public call to it.
//
// States: Uninitialized -> Initialized -> {Capturing, Playing}, where
// capturing and playing are independent sub-states. A failed operation
// leaves the runtime in its prior state; there is no error state.
// Lifecycle flags are touched only by these runtime-layer calls, never by
// driver capture goroutines.
type Runtime struct {
	cfg    Config
	drv    Driver
	logger *slog.Logger

	mu          sync.Mutex
	initialized bool
	capturing   bool
	playing     bool

	// Ambient metadata for non-core collaborators (dialogue, STT).
	language       string
	langConfidence float64
}

// NewRuntime copies the config, initializes the driver and returns an
// initialized runtime. A nil config or driver fails before anything is
// allocated. On driver init failure nothing is left open.
func NewRuntime(cfg *Config, drv Driver, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if drv == nil {
		return nil, ErrNilDriver
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("audio: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audio.runtime", "driver", drv.Name())

	if err := drv.Init(*cfg); err != nil {
		logger.Error("driver init failed", "error", err)
		return nil, err
	}

	logger.Info("audio runtime initialized",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"buffer_frames", cfg.BufferSize,
	)

	return &Runtime{
		cfg:            *cfg,
		drv:            drv,
		logger:         logger,
		initialized:    true,
		language:       "en",
		langConfidence: 1.0,
	}, nil
}

// StartCapture opens the input device and begins capture.
// Calling it while already capturing is a no-op: the device is not
// opened a second time.
func (r *Runtime) StartCapture() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if r.capturing {
		return nil
	}

	if err := r.drv.StartCapture(); err != nil {
		r.logger.Error("start capture failed", "error", err)
		return err
	}
	r.capturing = true
	r.logger.Info("capture started")
	return nil
}

// StopCapture releases the input device. Safe no-op when not capturing.
func (r *Runtime) StopCapture() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.capturing {
		return nil
	}

	err := r.drv.StopCapture()
	r.capturing = false
	if err != nil {
		r.logger.Warn("stop capture reported error", "error", err)
		return err
	}
	r.logger.Info("capture stopped")
	return nil
}

// StartPlayback opens the output device.
// Calling it while already playing is a no-op.
func (r *Runtime) StartPlayback() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if r.playing {
		return nil
	}

	if err := r.drv.StartPlayback(); err != nil {
		r.logger.Error("start playback failed", "error", err)
		return err
	}
	r.playing = true
	r.logger.Info("playback started")
	return nil
}

// StopPlayback releases the output device. Safe no-op when not playing.
func (r *Runtime) StopPlayback() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.playing {
		return nil
	}

	err := r.drv.StopPlayback()
	r.playing = false
	if err != nil {
		r.logger.Warn("stop playback reported error", "error", err)
		return err
	}
	r.logger.Info("playback stopped")
	return nil
}

// Start begins capture and playback together.
// On a capture failure playback is not attempted.
func (r *Runtime) Start() error {
	if err := r.StartCapture(); err != nil {
		return err
	}
	return r.StartPlayback()
}

// Stop halts capture and playback. The first error wins but both stops run.
func (r *Runtime) Stop() error {
	err := r.StopCapture()
	if perr := r.StopPlayback(); err == nil {
		err = perr
	}
	return err
}

// Read pulls exactly one batch from the driver, blocking until it is
// filled or a hard error occurs. Ownership of the returned buffer passes
// to the caller, who must Release it. Stop takes effect at the next
// driver-call boundary: an in-flight read may complete one more batch.
func (r *Runtime) Read() (*Buffer, error) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if !r.capturing {
		r.mu.Unlock()
		return nil, ErrNotCapturing
	}
	drv := r.drv
	r.mu.Unlock()

	// The blocking hardware read happens outside the lock so Stop and
	// Cleanup remain callable while a read is in flight.
	return drv.Read()
}

// Cleanup is callable from any state. It forces both stops, ignoring
// their results, then releases driver resources, ending Uninitialized.
func (r *Runtime) Cleanup() {
	_ = r.StopCapture()
	_ = r.StopPlayback()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.drv.Cleanup(); err != nil {
		r.logger.Warn("driver cleanup reported error", "error", err)
	}
	r.initialized = false
	r.logger.Info("audio runtime cleaned up")
}

// Config returns the runtime's copy of the configuration.
func (r *Runtime) Config() Config {
	return r.cfg
}

// Driver returns the registered platform driver.
func (r *Runtime) Driver() Driver {
	return r.drv
}

// IsInitialized reports whether Init succeeded and Cleanup has not run.
func (r *Runtime) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// IsCapturing reports whether capture is active.
func (r *Runtime) IsCapturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capturing
}

// IsPlaying reports whether playback is active.
func (r *Runtime) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// Language returns the current ambient language and its confidence.
func (r *Runtime) Language() (string, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.language, r.langConfidence
}

// SetLanguage records ambient language metadata for collaborators.
func (r *Runtime) SetLanguage(code string, confidence float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.language = code
	r.langConfidence = confidence
}
