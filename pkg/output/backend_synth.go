package output

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/kestrelvoice/go-kestrel/pkg/speech"
)

// synthBackend renders text through a synthesizer and hands the PCM to
// an audio sink backend.
type synthBackend struct {
	id    string
	synth speech.Synthesizer
	sink  Backend
}

// NewSynthesizerBackend adapts a synthesizer into a text backend. sink
// must accept audio input; its lifetime stays with its own registration.
func NewSynthesizerBackend(id string, synth speech.Synthesizer, sink Backend) (Backend, error) {
	if sink.Kind() != KindAudio {
		return nil, fmt.Errorf("%s: sink %s does not take audio", id, sink.ID())
	}
	return &synthBackend{id: id, synth: synth, sink: sink}, nil
}

func (b *synthBackend) ID() string          { return b.id }
func (b *synthBackend) Description() string { return "synthesized speech via " + b.sink.ID() }
func (b *synthBackend) Kind() Kind          { return KindText }
func (b *synthBackend) Close() error        { return nil }

func (b *synthBackend) Play(ctx context.Context, in Input, opts Options) error {
	if in.Kind() != KindText {
		return fmt.Errorf("%s: %w", b.id, ErrWrongKind)
	}

	pcm, rate, err := b.synth.Synthesize(ctx, in.Text)
	if err != nil {
		return fmt.Errorf("%s: synthesize: %w", b.id, err)
	}

	data := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	opts.SampleRate = rate
	opts.Channels = 1
	return b.sink.Play(ctx, AudioInput(data, "pcm16"), opts)
}
