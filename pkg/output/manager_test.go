package output

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrelvoice/go-kestrel/pkg/events"
)

func candidateFor(b Backend) Candidate {
	return func() (Backend, error) { return b, nil }
}

func failingCandidate(err error) Candidate {
	return func() (Backend, error) { return nil, err }
}

func newTestManager(t *testing.T, candidates map[string]Candidate, prefs []string) (*Manager, <-chan events.PlaybackEvent) {
	t.Helper()
	bus := events.NewBus(nil)
	mgr := NewManagerWith(candidates, prefs, bus, nil)
	ch, cancel := bus.Subscribe()
	t.Cleanup(cancel)
	t.Cleanup(func() { mgr.Close() })
	return mgr, ch
}

func nextEvent(t *testing.T, ch <-chan events.PlaybackEvent) events.PlaybackEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	default:
		t.Fatal("expected a playback event")
		return events.PlaybackEvent{}
	}
}

func TestBackendSelection(t *testing.T) {
	t.Run("picks the first available preference", func(t *testing.T) {
		mgr, _ := newTestManager(t, map[string]Candidate{
			"a": failingCandidate(errors.New("not installed")),
			"b": candidateFor(&MockBackend{IDValue: "b"}),
			"c": candidateFor(&MockBackend{IDValue: "c"}),
		}, []string{"a", "b", "c"})

		if st := mgr.Status(); st.CurrentOutput != "b" {
			t.Errorf("expected b selected, got %s", st.CurrentOutput)
		}
	})

	t.Run("last preference alone still wins", func(t *testing.T) {
		mgr, _ := newTestManager(t, map[string]Candidate{
			"c": candidateFor(&MockBackend{IDValue: "c"}),
		}, []string{"a", "b", "c"})

		if st := mgr.Status(); st.CurrentOutput != "c" {
			t.Errorf("expected c selected, got %s", st.CurrentOutput)
		}
	})

	t.Run("nothing available means silent mode", func(t *testing.T) {
		mgr, _ := newTestManager(t, map[string]Candidate{
			"a": failingCandidate(errors.New("not installed")),
		}, []string{"a"})

		if st := mgr.Status(); st.CurrentOutput != None {
			t.Errorf("expected %q, got %s", None, st.CurrentOutput)
		}
	})

	t.Run("panicking probe is just unavailable", func(t *testing.T) {
		mgr, _ := newTestManager(t, map[string]Candidate{
			"a": func() (Backend, error) { panic("probe exploded") },
			"b": candidateFor(&MockBackend{IDValue: "b"}),
		}, []string{"a", "b"})

		if st := mgr.Status(); st.CurrentOutput != "b" {
			t.Errorf("expected b selected, got %s", st.CurrentOutput)
		}
	})
}

func TestPlayFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("success on current publishes a non-fallback event", func(t *testing.T) {
		b := &MockBackend{IDValue: "a"}
		mgr, ch := newTestManager(t, map[string]Candidate{
			"a": candidateFor(b),
		}, []string{"a"})

		mgr.Play(ctx, TextInput("hello"), Options{})

		ev := nextEvent(t, ch)
		if !ev.Played || ev.Backend != "a" || ev.Fallback {
			t.Errorf("unexpected event: %+v", ev)
		}
		if len(b.Plays()) != 1 {
			t.Errorf("expected 1 play, got %d", len(b.Plays()))
		}
	})

	t.Run("failure walks the chain and flags the fallback", func(t *testing.T) {
		fail := errors.New("device gone")
		a := &MockBackend{IDValue: "a", PlayFunc: func(context.Context, Input, Options) error { return fail }}
		b := &MockBackend{IDValue: "b", PlayFunc: func(context.Context, Input, Options) error { return fail }}
		c := &MockBackend{IDValue: "c"}
		mgr, ch := newTestManager(t, map[string]Candidate{
			"a": candidateFor(a), "b": candidateFor(b), "c": candidateFor(c),
		}, []string{"a", "b", "c"})

		mgr.Play(ctx, TextInput("hello"), Options{})

		ev := nextEvent(t, ch)
		if !ev.Played || ev.Backend != "c" || !ev.Fallback {
			t.Errorf("unexpected event: %+v", ev)
		}
		if len(ev.Tried) != 3 {
			t.Errorf("expected 3 attempts, got %v", ev.Tried)
		}
		if st := mgr.Status(); st.CurrentOutput != "c" {
			t.Errorf("expected current moved to c, got %s", st.CurrentOutput)
		}
	})

	t.Run("next call starts from the promoted backend", func(t *testing.T) {
		fail := errors.New("device gone")
		a := &MockBackend{IDValue: "a", PlayFunc: func(context.Context, Input, Options) error { return fail }}
		b := &MockBackend{IDValue: "b"}
		mgr, ch := newTestManager(t, map[string]Candidate{
			"a": candidateFor(a), "b": candidateFor(b),
		}, []string{"a", "b"})

		mgr.Play(ctx, TextInput("one"), Options{})
		nextEvent(t, ch)
		mgr.Play(ctx, TextInput("two"), Options{})

		ev := nextEvent(t, ch)
		if ev.Fallback {
			t.Error("second play should go straight to the promoted backend")
		}
		if len(a.Plays()) != 1 {
			t.Errorf("failed backend retried: %d plays", len(a.Plays()))
		}
	})

	t.Run("exhaustion publishes one failed event", func(t *testing.T) {
		fail := errors.New("device gone")
		a := &MockBackend{IDValue: "a", PlayFunc: func(context.Context, Input, Options) error { return fail }}
		b := &MockBackend{IDValue: "b", PlayFunc: func(context.Context, Input, Options) error { return fail }}
		mgr, ch := newTestManager(t, map[string]Candidate{
			"a": candidateFor(a), "b": candidateFor(b),
		}, []string{"a", "b"})

		mgr.Play(ctx, TextInput("hello"), Options{})

		ev := nextEvent(t, ch)
		if ev.Played {
			t.Errorf("expected failure event, got %+v", ev)
		}
		if len(ev.Tried) != 2 {
			t.Errorf("expected 2 attempts, got %v", ev.Tried)
		}
		select {
		case extra := <-ch:
			t.Errorf("expected exactly one event, got extra %+v", extra)
		default:
		}
	})

	t.Run("silent mode publishes nothing", func(t *testing.T) {
		mgr, ch := newTestManager(t, map[string]Candidate{}, []string{"a"})

		mgr.Play(ctx, TextInput("hello"), Options{})

		select {
		case ev := <-ch:
			t.Errorf("expected no event, got %+v", ev)
		default:
		}
	})

	t.Run("panicking backend counts as a failure", func(t *testing.T) {
		a := &MockBackend{IDValue: "a", PlayFunc: func(context.Context, Input, Options) error { panic("boom") }}
		b := &MockBackend{IDValue: "b"}
		mgr, ch := newTestManager(t, map[string]Candidate{
			"a": candidateFor(a), "b": candidateFor(b),
		}, []string{"a", "b"})

		mgr.Play(ctx, TextInput("hello"), Options{})

		ev := nextEvent(t, ch)
		if !ev.Played || ev.Backend != "b" || !ev.Fallback {
			t.Errorf("unexpected event: %+v", ev)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("registration lifts silent mode", func(t *testing.T) {
		mgr, ch := newTestManager(t, map[string]Candidate{}, []string{"custom"})

		mgr.Register(&MockBackend{IDValue: "custom"})
		if st := mgr.Status(); st.CurrentOutput != "custom" {
			t.Fatalf("expected custom selected, got %s", st.CurrentOutput)
		}

		mgr.Play(context.Background(), TextInput("hi"), Options{})
		if ev := nextEvent(t, ch); !ev.Played {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("registration does not displace a working backend", func(t *testing.T) {
		mgr, _ := newTestManager(t, map[string]Candidate{
			"a": candidateFor(&MockBackend{IDValue: "a"}),
		}, []string{"a", "custom"})

		mgr.Register(&MockBackend{IDValue: "custom"})
		if st := mgr.Status(); st.CurrentOutput != "a" {
			t.Errorf("expected a still current, got %s", st.CurrentOutput)
		}
	})
}

func TestManagerClose(t *testing.T) {
	a := &MockBackend{IDValue: "a"}
	b := &MockBackend{IDValue: "b"}
	bus := events.NewBus(nil)
	mgr := NewManagerWith(map[string]Candidate{
		"a": candidateFor(a), "b": candidateFor(b),
	}, []string{"a", "b"}, bus, nil)

	if err := mgr.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Closed() || !b.Closed() {
		t.Error("expected every backend closed")
	}
}
