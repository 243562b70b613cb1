package output

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// speakerRate is the mixer rate the in-process speaker runs at.
// Requests at other rates are resampled on the way in.
const speakerRate = beep.SampleRate(44100)

const speakerBuffer = 50 * time.Millisecond

// beepBackend plays raw PCM through the process's own audio device,
// with no external player involved.
type beepBackend struct{}

// NewSpeakerBackend probes by opening the default playback device. The
// device stays open for the manager's lifetime.
func NewSpeakerBackend() (Backend, error) {
	if err := speaker.Init(speakerRate, speakerRate.N(speakerBuffer)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return &beepBackend{}, nil
}

func (b *beepBackend) ID() string          { return "speaker" }
func (b *beepBackend) Description() string { return "in-process PCM playback" }
func (b *beepBackend) Kind() Kind          { return KindAudio }

func (b *beepBackend) Play(ctx context.Context, in Input, opts Options) error {
	if in.Kind() != KindAudio {
		return fmt.Errorf("speaker: %w", ErrWrongKind)
	}
	switch in.Format {
	case "", "pcm", "pcm16":
	default:
		return fmt.Errorf("speaker: unsupported format %q", in.Format)
	}

	rate := opts.SampleRate
	if rate <= 0 {
		rate = 16000
	}
	channels := opts.Channels
	if channels <= 0 {
		channels = 1
	}

	pcm := make([]int16, len(in.Audio)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(in.Audio[i*2:]))
	}

	var s beep.Streamer = &pcmStreamer{pcm: pcm, channels: channels}
	if beep.SampleRate(rate) != speakerRate {
		s = beep.Resample(4, beep.SampleRate(rate), speakerRate, s)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (b *beepBackend) Close() error {
	speaker.Close()
	return nil
}

// pcmStreamer adapts a 16-bit sample slice to the streaming interface.
// Mono input is duplicated onto both channels.
type pcmStreamer struct {
	pcm      []int16
	channels int
	pos      int
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.pcm) {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.pos < len(s.pcm) {
		l := float64(s.pcm[s.pos]) / 32768
		r := l
		if s.channels >= 2 && s.pos+1 < len(s.pcm) {
			r = float64(s.pcm[s.pos+1]) / 32768
			s.pos += 2
		} else {
			s.pos++
		}
		samples[n][0] = l
		samples[n][1] = r
		n++
	}
	return n, true
}

func (s *pcmStreamer) Err() error { return nil }
