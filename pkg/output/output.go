// Package output makes "speak this" and "play this" reliable despite
// heterogeneous, frequently unavailable output mechanisms.
//
// At construction the Manager probes a set of candidate backends (native
// OS speech synthesizers, command-line file players, an in-process PCM
// speaker); unavailable ones are simply absent from the registry. A
// caller-supplied preference chain picks the current backend, and on
// playback failure the manager walks the chain to the next available
// backend. Callers never see an error from Play; outcomes are reported
// on the event bus.
package output

import (
	"context"
	"errors"
)

// Kind describes what input a backend accepts. Speech synthesizers take
// text; file players and PCM speakers take binary audio. A backend handed
// the other kind fails with ErrWrongKind and the fallback walk continues.
type Kind string

const (
	// KindText marks backends that synthesize speech from text.
	KindText Kind = "text"

	// KindAudio marks backends that play binary audio.
	KindAudio Kind = "audio"
)

// ErrWrongKind is returned by a backend handed the input type it does
// not accept.
var ErrWrongKind = errors.New("output: input kind not accepted by backend")

// Input is one playback request: either text or binary audio.
type Input struct {
	// Text to synthesize. Set for KindText requests.
	Text string

	// Audio holds encoded audio ("wav", "mp3") or raw little-endian
	// PCM16 ("pcm"). Set for KindAudio requests.
	Audio  []byte
	Format string
}

// TextInput builds a synthesis request.
func TextInput(text string) Input {
	return Input{Text: text}
}

// AudioInput builds a binary playback request.
func AudioInput(data []byte, format string) Input {
	return Input{Audio: data, Format: format}
}

// Kind returns the request kind.
func (in Input) Kind() Kind {
	if in.Text != "" {
		return KindText
	}
	return KindAudio
}

// Options tunes a playback request. Zero values mean backend defaults.
type Options struct {
	// Voice selects a synthesizer voice where supported.
	Voice string

	// Rate is the speech rate in words per minute (0 = backend default).
	Rate int

	// SampleRate and Channels describe raw PCM input.
	SampleRate int
	Channels   int
}

// Backend is one probed output mechanism.
type Backend interface {
	// ID is the stable identifier used in preference chains.
	ID() string

	// Description is a human-readable summary for status output.
	Description() string

	// Kind reports which input the backend accepts.
	Kind() Kind

	// Play performs one playback. Any error triggers the fallback walk.
	Play(ctx context.Context, in Input, opts Options) error

	// Close releases backend resources.
	Close() error
}

// BackendInfo describes one available backend in a Status report.
type BackendInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// Status is the queryable state of the manager.
type Status struct {
	// CurrentOutput is the selected backend ID, or "none" in silent mode.
	CurrentOutput string `json:"current_output"`

	// Available lists every backend that probed successfully.
	Available []BackendInfo `json:"available"`

	// Platform and Arch tag the running system.
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
}

// None is the CurrentOutput value when no backend is available.
const None = "none"
