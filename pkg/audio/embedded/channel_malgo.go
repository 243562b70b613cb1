//go:build cgo

package embedded

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// malgoChannel bridges the serial audio channel onto miniaudio. The
// device's DMA/interrupt callback pushes raw PCM16 into a bounded queue;
// ReadSamples drains it, blocking like a hardware FIFO read.
type malgoChannel struct {
	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	dev     *malgo.Device
	frames  chan []byte
	pending []byte
	done    chan struct{}
}

func newSystemChannel() Channel {
	return &malgoChannel{}
}

func (c *malgoChannel) Open(cfg audio.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev != nil {
		return errors.New("embedded: channel already open")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("embedded: audio context: %w", err)
	}

	frames := make(chan []byte, 8)
	done := make(chan struct{})

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatS16
	deviceCfg.Capture.Channels = uint32(cfg.Channels)
	deviceCfg.SampleRate = uint32(cfg.SampleRate)
	deviceCfg.PeriodSizeInFrames = uint32(cfg.BufferSize)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			buf := make([]byte, len(input))
			copy(buf, input)
			select {
			case frames <- buf:
			case <-done:
			default:
				// Queue full: drop, same as a DMA overrun.
			}
		},
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceCfg, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("embedded: init device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("embedded: start device: %w", err)
	}

	c.ctx = ctx
	c.dev = dev
	c.frames = frames
	c.pending = nil
	c.done = done
	return nil
}

// ReadSamples blocks until buf is filled or the channel is closed.
func (c *malgoChannel) ReadSamples(buf []int16) (int, error) {
	c.mu.Lock()
	frames, done := c.frames, c.done
	c.mu.Unlock()

	if frames == nil {
		return 0, io.EOF
	}

	need := len(buf) * 2
	raw := make([]byte, 0, need)

	c.mu.Lock()
	if len(c.pending) > 0 {
		take := min(len(c.pending), need)
		raw = append(raw, c.pending[:take]...)
		c.pending = c.pending[take:]
	}
	c.mu.Unlock()

	for len(raw) < need {
		select {
		case <-done:
			return 0, io.EOF
		case chunk := <-frames:
			take := min(len(chunk), need-len(raw))
			raw = append(raw, chunk[:take]...)
			if take < len(chunk) {
				c.mu.Lock()
				c.pending = append(c.pending, chunk[take:]...)
				c.mu.Unlock()
			}
		}
	}

	copy(buf, audio.BytesToSamples(raw))
	return len(buf), nil
}

func (c *malgoChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev == nil {
		return nil
	}
	close(c.done)
	c.dev.Uninit()
	err := c.ctx.Uninit()
	c.ctx.Free()
	c.dev = nil
	c.ctx = nil
	c.frames = nil
	c.pending = nil
	return err
}
