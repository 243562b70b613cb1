package audio

import "errors"

// Sentinel errors for the audio layer.
var (
	// ErrNilConfig is returned when a Runtime is created without a config.
	ErrNilConfig = errors.New("audio: nil config")

	// ErrNilDriver is returned when a Runtime is created without a driver.
	ErrNilDriver = errors.New("audio: nil driver")

	// ErrNotInitialized is returned when an operation requires a
	// successfully initialized runtime.
	ErrNotInitialized = errors.New("audio: runtime not initialized")

	// ErrNotCapturing is returned by Read when capture has not started.
	ErrNotCapturing = errors.New("audio: capture not started")

	// ErrDeviceOpen is returned when no capture or playback device
	// could be opened.
	ErrDeviceOpen = errors.New("audio: cannot open device")

	// ErrUnsupported is the fixed failure for operations a platform
	// does not provide (e.g. GPIO control on desktop). Expected and
	// non-fatal.
	ErrUnsupported = errors.New("audio: operation not supported on this platform")

	// ErrPullUnsupported is returned by Read on drivers that deliver
	// frames only through the capture callback.
	ErrPullUnsupported = errors.New("audio: driver delivers frames via callback, not Read")
)
