// Package events provides a small in-process event bus for playback
// status. It replaces a global emitter with an explicit instance that is
// constructed once and passed to the components that publish on it.
package events

import (
	"log/slog"
	"sync"
)

// PlaybackEvent reports the outcome of one output request.
type PlaybackEvent struct {
	// Played is true for a successful playback, false for exhaustion.
	Played bool

	// Backend is the backend that played the audio (empty on failure).
	Backend string

	// Fallback is true when the playing backend was reached by walking
	// past a failed one.
	Fallback bool

	// Tried lists every backend attempted during the call, in order.
	Tried []string
}

// Bus fans out events to subscribers. Slow subscribers lose events
// rather than blocking publishers.
type Bus struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[chan PlaybackEvent]struct{}
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger.With("component", "events"),
		subs:   make(map[chan PlaybackEvent]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel function removes
// the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan PlaybackEvent, func()) {
	ch := make(chan PlaybackEvent, 16)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(ev PlaybackEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("subscriber behind, dropping event")
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
