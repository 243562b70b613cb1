package audio

// CaptureFunc receives one captured batch. Task-driven drivers invoke it
// synchronously on their own capture goroutine: implementations must not
// perform long blocking work inside it and must not touch runtime
// lifecycle state from it. Ownership of the buffer passes to the callback.
type CaptureFunc func(*Buffer)

// Driver is the fixed per-platform operation set. Exactly one
// implementation is linked per binary (see the platform subpackage).
//
// Contract:
//   - Init allocates platform state and performs any bring-up that is safe
//     without opening a device. On failure no partial device handles are
//     left open.
//   - StartCapture opens the input device and either arms the blocking
//     Read path or spawns the driver's capture goroutine. It never
//     silently retries a failed open.
//   - StopCapture and StopPlayback release the device handle; calling
//     them when not active is a safe no-op.
//   - Read blocks until exactly one configured batch is filled, recovering
//     transparently once from overrun/busy conditions, and failing outward
//     on any other error. Pull drivers only; callback drivers return
//     ErrPullUnsupported.
//   - Cleanup stops any active capture/playback and releases platform
//     state. Safe to call in any state.
type Driver interface {
	Init(cfg Config) error
	StartCapture() error
	StopCapture() error
	StartPlayback() error
	StopPlayback() error
	Read() (*Buffer, error)
	Cleanup() error

	// Name identifies the driver ("alsa", "board", "embedded", "stub").
	Name() string
}

// CallbackDriver is implemented by task-driven drivers that push frames
// through a registered callback instead of servicing Read pulls.
// The callback may be registered or swapped at any time; frames produced
// while none is registered are discarded.
type CallbackDriver interface {
	Driver
	SetCaptureFunc(fn CaptureFunc)
}
