package speech

import (
	"context"
	"sync"
)

// MockSynthesizer implements Synthesizer for testing. If SynthesizeFunc
// is nil it returns ~20ms of silence per character at 16kHz.
type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]int16, int, error)

	mu    sync.Mutex
	texts []string
}

// Synthesize records the call and delegates to SynthesizeFunc.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]int16, int, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	const rate = 16000
	return make([]int16, len(text)*rate/50), rate, nil
}

// Texts returns every synthesized string in order.
func (m *MockSynthesizer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.texts))
	copy(out, m.texts)
	return out
}

// Verify MockSynthesizer implements Synthesizer at compile time.
var _ Synthesizer = (*MockSynthesizer)(nil)
