package audio_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// callbackMock wraps MockDriver with capture-callback registration.
type callbackMock struct {
	*audio.MockDriver

	mu sync.Mutex
	fn audio.CaptureFunc
}

func (c *callbackMock) SetCaptureFunc(fn audio.CaptureFunc) {
	c.mu.Lock()
	c.fn = fn
	c.mu.Unlock()
}

func (c *callbackMock) emit(b *audio.Buffer) {
	c.mu.Lock()
	fn := c.fn
	c.mu.Unlock()
	if fn != nil {
		fn(b)
	}
}

func TestFramesPull(t *testing.T) {
	t.Run("delivers batches until cancelled", func(t *testing.T) {
		rt := newTestRuntime(t, audio.NewMockDriver())
		rt.StartCapture()

		ctx, cancel := context.WithCancel(context.Background())
		frames := rt.Frames(ctx)

		for i := 0; i < 3; i++ {
			buf, ok := <-frames
			if !ok {
				t.Fatalf("stream closed after %d frames", i)
			}
			if buf.Samples == 0 {
				t.Error("expected non-empty batch")
			}
			buf.Release()
		}

		cancel()
		for range frames {
		}
	})

	t.Run("closes when capture stops", func(t *testing.T) {
		mock := audio.NewMockDriver()
		rt := newTestRuntime(t, mock)
		rt.StartCapture()

		frames := rt.Frames(context.Background())
		buf := <-frames
		buf.Release()

		rt.StopCapture()

		// Drain whatever was in flight; the channel must close.
		deadline := time.After(2 * time.Second)
		for {
			select {
			case b, ok := <-frames:
				if !ok {
					return
				}
				b.Release()
			case <-deadline:
				t.Fatal("stream did not close after capture stopped")
			}
		}
	})
}

func TestFramesCallback(t *testing.T) {
	t.Run("forwards callback buffers", func(t *testing.T) {
		cb := &callbackMock{MockDriver: audio.NewMockDriver()}
		rt := newTestRuntime(t, cb)
		rt.StartCapture()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		frames := rt.Frames(ctx)

		want := audio.NewBuffer([]int16{1, 2, 3, 4}, 1, 99)
		cb.emit(want)

		select {
		case got := <-frames:
			if got.TimestampUS != 99 || got.Samples != 4 {
				t.Errorf("unexpected buffer: %+v", got)
			}
			got.Release()
		case <-time.After(2 * time.Second):
			t.Fatal("buffer was not forwarded")
		}
	})

	t.Run("drops instead of blocking the capture goroutine", func(t *testing.T) {
		cb := &callbackMock{MockDriver: audio.NewMockDriver()}
		rt := newTestRuntime(t, cb)
		rt.StartCapture()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		rt.Frames(ctx)

		// Nobody reads; emitting far past both buffers must not block.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				cb.emit(audio.NewBuffer([]int16{0}, 1, int64(i)))
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("capture callback blocked on a slow consumer")
		}
	})

	t.Run("unregisters callback on cancel", func(t *testing.T) {
		cb := &callbackMock{MockDriver: audio.NewMockDriver()}
		rt := newTestRuntime(t, cb)
		rt.StartCapture()

		ctx, cancel := context.WithCancel(context.Background())
		frames := rt.Frames(ctx)
		cancel()
		for range frames {
		}

		cb.mu.Lock()
		fn := cb.fn
		cb.mu.Unlock()
		if fn != nil {
			t.Error("capture callback still registered after cancel")
		}
	})
}
