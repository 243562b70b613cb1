package audio

import (
	"sync"
	"time"
)

// MockDriver implements Driver for testing. All operations can be
// customized via function fields; defaults succeed and produce silence.
// It tracks hardware opens/closes and platform-state allocations so
// tests can assert lifecycle invariants.
type MockDriver struct {
	// InitFunc is called by Init. If nil, Init succeeds.
	InitFunc func(cfg Config) error

	// StartCaptureFunc is called by StartCapture. If nil, it succeeds.
	StartCaptureFunc func() error

	// ReadFunc is called by Read. If nil, Read returns one silent batch.
	ReadFunc func() (*Buffer, error)

	mu  sync.Mutex
	cfg Config

	// Counters
	Allocs       int
	Frees        int
	DeviceOpens  int
	DeviceCloses int
	calls        []string
}

// NewMockDriver returns a mock with succeeding defaults.
func NewMockDriver() *MockDriver {
	return &MockDriver{}
}

func (m *MockDriver) record(op string) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	m.mu.Unlock()
}

// Init records a platform-state allocation.
func (m *MockDriver) Init(cfg Config) error {
	m.record("init")
	if m.InitFunc != nil {
		if err := m.InitFunc(cfg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.cfg = cfg
	m.Allocs++
	m.mu.Unlock()
	return nil
}

// StartCapture records a device open.
func (m *MockDriver) StartCapture() error {
	m.record("start_capture")
	if m.StartCaptureFunc != nil {
		if err := m.StartCaptureFunc(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.DeviceOpens++
	m.mu.Unlock()
	return nil
}

// StopCapture records a device close.
func (m *MockDriver) StopCapture() error {
	m.record("stop_capture")
	m.mu.Lock()
	m.DeviceCloses++
	m.mu.Unlock()
	return nil
}

// StartPlayback succeeds.
func (m *MockDriver) StartPlayback() error {
	m.record("start_playback")
	return nil
}

// StopPlayback succeeds.
func (m *MockDriver) StopPlayback() error {
	m.record("stop_playback")
	return nil
}

// Read returns ReadFunc's result, or one silent batch.
func (m *MockDriver) Read() (*Buffer, error) {
	m.record("read")
	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	m.mu.Lock()
	cfg := m.cfg
	m.mu.Unlock()
	return &Buffer{
		Data:        make([]float32, cfg.SamplesPerBatch()),
		Samples:     cfg.SamplesPerBatch(),
		Channels:    cfg.Channels,
		TimestampUS: time.Now().UnixMicro(),
	}, nil
}

// Cleanup records a platform-state free.
func (m *MockDriver) Cleanup() error {
	m.record("cleanup")
	m.mu.Lock()
	m.Frees++
	m.mu.Unlock()
	return nil
}

// Name returns "mock".
func (m *MockDriver) Name() string {
	return "mock"
}

// Calls returns the recorded operation sequence.
func (m *MockDriver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times an operation ran.
func (m *MockDriver) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Verify MockDriver implements Driver at compile time.
var _ Driver = (*MockDriver)(nil)
