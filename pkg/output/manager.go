package output

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/kestrelvoice/go-kestrel/pkg/events"
)

// Candidate constructs a backend during the probe step. Returning an
// error marks the backend unavailable; probes must not have side effects
// a failed construction would leave behind.
type Candidate func() (Backend, error)

// Manager owns the available-backend registry and the fallback walk.
// Play is safe for concurrent use; concurrent calls are not serialized.
type Manager struct {
	logger *slog.Logger
	bus    *events.Bus

	mu       sync.Mutex
	registry map[string]Backend
	prefs    []string
	current  string // "" means silent mode
}

// NewManager probes the default candidate set and selects the first
// preferred backend that is available. prefs is the caller's fallback
// chain (DefaultPreferences when empty); entries not present in the
// registry are skipped. With no available backend the manager runs in
// silent mode.
func NewManager(prefs []string, bus *events.Bus, logger *slog.Logger) *Manager {
	return NewManagerWith(DefaultCandidates(), prefs, bus, logger)
}

// NewManagerWith probes an explicit candidate set. Each probe is
// isolated: a failure (or panic) is logged and recorded as unavailable,
// never propagated.
func NewManagerWith(candidates map[string]Candidate, prefs []string, bus *events.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "output.manager")
	if bus == nil {
		bus = events.NewBus(logger)
	}
	if len(prefs) == 0 {
		prefs = DefaultPreferences()
	}

	m := &Manager{
		logger:   logger,
		bus:      bus,
		registry: make(map[string]Backend),
		prefs:    append([]string(nil), prefs...),
	}

	for id, probe := range candidates {
		b, err := probeOne(probe)
		if err != nil {
			logger.Info("output backend unavailable", "backend", id, "error", err)
			continue
		}
		m.registry[b.ID()] = b
	}

	m.selectCurrent()
	if m.current == "" {
		logger.Warn("no output backend available, running silent")
	} else {
		logger.Info("output backend selected", "backend", m.current)
	}
	return m
}

// probeOne isolates a single probe, converting panics into errors.
func probeOne(probe Candidate) (b Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return probe()
}

// selectCurrent walks the preference chain and picks the first available
// backend. Caller holds no lock during construction; afterwards callers
// must hold m.mu.
func (m *Manager) selectCurrent() {
	for _, id := range m.prefs {
		if _, ok := m.registry[id]; ok {
			m.current = id
			return
		}
	}
	m.current = ""
}

// Register adds a backend after construction (e.g. a synthesizer
// adapter). If the manager was silent and the backend is on the
// preference chain, it becomes current.
func (m *Manager) Register(b Backend) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[b.ID()] = b
	if m.current == "" {
		m.selectCurrent()
	}
}

// Play performs one playback request. It never returns an error: on
// backend failure it walks the preference chain starting immediately
// after the current backend's position, trying each subsequent available
// backend at most once, and reports the outcome on the event bus. In
// silent mode the call is a logged no-op.
func (m *Manager) Play(ctx context.Context, in Input, opts Options) {
	m.mu.Lock()
	current := m.current
	prefs := append([]string(nil), m.prefs...)
	registry := make(map[string]Backend, len(m.registry))
	for id, b := range m.registry {
		registry[id] = b
	}
	m.mu.Unlock()

	if current == "" {
		m.logger.Info("silent mode, dropping playback", "kind", in.Kind())
		return
	}

	var tried []string

	attempt := func(id string) bool {
		b := registry[id]
		tried = append(tried, id)
		err := playOne(ctx, b, in, opts)
		if err == nil {
			fallback := len(tried) > 1
			m.mu.Lock()
			m.current = id
			m.mu.Unlock()
			m.logger.Info("playback succeeded",
				"backend", id,
				"fallback", fallback,
			)
			m.bus.Publish(events.PlaybackEvent{
				Played:   true,
				Backend:  id,
				Fallback: fallback,
				Tried:    tried,
			})
			return true
		}
		m.logger.Warn("output backend failed, walking chain",
			"backend", id,
			"error", err,
		)
		return false
	}

	if attempt(current) {
		return
	}

	// Walk resumes after the current backend's preference position,
	// skipping unavailable entries. Each backend is tried at most once
	// per call.
	start := 0
	for i, id := range prefs {
		if id == current {
			start = i + 1
			break
		}
	}
	for _, id := range prefs[start:] {
		if _, ok := registry[id]; !ok {
			continue
		}
		if id == current {
			continue
		}
		if attempt(id) {
			return
		}
	}

	m.logger.Warn("all output backends failed", "tried", tried)
	m.bus.Publish(events.PlaybackEvent{
		Played: false,
		Tried:  tried,
	})
}

// playOne isolates one backend attempt, converting panics into errors.
func playOne(ctx context.Context, b Backend, in Input, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panicked: %v", r)
		}
	}()
	return b.Play(ctx, in, opts)
}

// Say is shorthand for playing a text request.
func (m *Manager) Say(ctx context.Context, text string) {
	m.Play(ctx, TextInput(text), Options{})
}

// Status reports the current backend, the full registry and the
// platform tags.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	available := make([]BackendInfo, 0, len(m.registry))
	for _, b := range m.registry {
		available = append(available, BackendInfo{
			ID:          b.ID(),
			Description: b.Description(),
			Kind:        b.Kind(),
		})
	}
	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })

	current := m.current
	if current == "" {
		current = None
	}
	return Status{
		CurrentOutput: current,
		Available:     available,
		Platform:      runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
}

// Events returns the bus playback outcomes are published on.
func (m *Manager) Events() *events.Bus {
	return m.bus
}

// Close closes every registered backend.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for _, b := range m.registry {
		if err := b.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
