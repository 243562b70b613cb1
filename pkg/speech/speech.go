// Package speech defines the interfaces through which external speech
// engines consume captured audio and produce synthesized audio. Engine
// internals (models, APIs, routing) live outside this repository.
package speech

import (
	"context"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// Transcript is one recognition result.
type Transcript struct {
	Text       string
	Language   string
	Confidence float64
	Final      bool
}

// Recognizer turns captured frames into transcripts.
type Recognizer interface {
	// Transcribe consumes one buffer. The recognizer must copy any data
	// it keeps; the buffer is released by the caller afterwards.
	Transcribe(ctx context.Context, buf *audio.Buffer) (Transcript, error)
}

// Synthesizer turns text into PCM16 audio at the returned sample rate.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (pcm []int16, sampleRate int, err error)
}
