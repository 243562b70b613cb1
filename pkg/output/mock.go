package output

import (
	"context"
	"sync"
)

// MockBackend is a configurable backend for tests. Zero value is a
// text backend that always succeeds.
type MockBackend struct {
	IDValue   string
	KindValue Kind
	PlayFunc  func(ctx context.Context, in Input, opts Options) error
	CloseFunc func() error

	mu     sync.Mutex
	plays  []Input
	closed bool
}

func (m *MockBackend) ID() string {
	if m.IDValue == "" {
		return "mock"
	}
	return m.IDValue
}

func (m *MockBackend) Description() string { return "mock backend" }

func (m *MockBackend) Kind() Kind {
	if m.KindValue == "" {
		return KindText
	}
	return m.KindValue
}

func (m *MockBackend) Play(ctx context.Context, in Input, opts Options) error {
	m.mu.Lock()
	m.plays = append(m.plays, in)
	m.mu.Unlock()
	if m.PlayFunc != nil {
		return m.PlayFunc(ctx, in, opts)
	}
	return nil
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Plays returns every input passed to Play, in order.
func (m *MockBackend) Plays() []Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Input(nil), m.plays...)
}

// Closed reports whether Close was called.
func (m *MockBackend) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Backend = (*MockBackend)(nil)
