package audio

import (
	"context"
	"errors"
)

// Frames unifies the two capture delivery models behind one stream.
//
// For callback drivers the channel is fed from the driver's own capture
// goroutine; for pull drivers a forwarding goroutine services Read. Either
// way the consumer sees an ordered stream of buffers and owns each one it
// receives (Release when done). Buffers are dropped, not queued without
// bound, when the consumer falls behind.
//
// The channel closes when ctx is cancelled or capture stops. Call after
// StartCapture for pull drivers; callback drivers accept registration at
// any point.
func (r *Runtime) Frames(ctx context.Context) <-chan *Buffer {
	out := make(chan *Buffer, 8)

	if cd, ok := r.drv.(CallbackDriver); ok {
		// Callback path. The capture goroutine must never block, so it
		// feeds an inner channel non-blockingly and a forwarder fans out.
		in := make(chan *Buffer, 8)
		cd.SetCaptureFunc(func(b *Buffer) {
			select {
			case in <- b:
			default:
				b.Release()
				r.logger.Debug("frame dropped, consumer behind")
			}
		})

		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					cd.SetCaptureFunc(nil)
					return
				case b := <-in:
					select {
					case out <- b:
					case <-ctx.Done():
						b.Release()
						cd.SetCaptureFunc(nil)
						return
					}
				}
			}
		}()
		return out
	}

	// Pull path: one forwarding goroutine blocks inside the driver.
	go func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}
			b, err := r.Read()
			if err != nil {
				if !errors.Is(err, ErrNotCapturing) {
					r.logger.Warn("frame stream ended", "error", err)
				}
				return
			}
			select {
			case out <- b:
			case <-ctx.Done():
				b.Release()
				return
			}
		}
	}()
	return out
}
