package output

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
)

// playerBackend drives an external audio player. Raw PCM input is
// wrapped into a temporary WAV file; encoded input is stored as-is. The
// temp file is removed before Play returns, on every path.
type playerBackend struct {
	id          string
	description string
	path        string
	args        func(file string) []string
}

func (b *playerBackend) ID() string          { return b.id }
func (b *playerBackend) Description() string { return b.description }
func (b *playerBackend) Kind() Kind          { return KindAudio }
func (b *playerBackend) Close() error        { return nil }

func (b *playerBackend) Play(ctx context.Context, in Input, opts Options) error {
	if in.Kind() != KindAudio {
		return fmt.Errorf("%s: %w", b.id, ErrWrongKind)
	}

	file, err := materialize(in, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", b.id, err)
	}
	defer os.Remove(file)

	cmd := exec.CommandContext(ctx, b.path, b.args(file)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", b.id, err, out)
	}
	return nil
}

// materialize writes the request's audio to a unique temp file and
// returns its path.
func materialize(in Input, opts Options) (string, error) {
	switch in.Format {
	case "", "pcm", "pcm16":
		pcm := make([]int16, len(in.Audio)/2)
		for i := range pcm {
			pcm[i] = int16(binary.LittleEndian.Uint16(in.Audio[i*2:]))
		}
		return writeTempWAV(pcm, opts.SampleRate, opts.Channels)
	default:
		return writeRawTemp(in.Audio, in.Format)
	}
}

func newPlayerBackend(id, description, command string, args func(string) []string) (Backend, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", command, err)
	}
	return &playerBackend{id: id, description: description, path: path, args: args}, nil
}

// NewAplayBackend wraps the ALSA aplay utility.
func NewAplayBackend() (Backend, error) {
	return newPlayerBackend("aplay", "ALSA file playback", "aplay",
		func(file string) []string { return []string{"-q", file} })
}

// NewAfplayBackend wraps the macOS afplay utility.
func NewAfplayBackend() (Backend, error) {
	return newPlayerBackend("afplay", "macOS file playback", "afplay",
		func(file string) []string { return []string{file} })
}

// NewFfplayBackend wraps ffplay from ffmpeg.
func NewFfplayBackend() (Backend, error) {
	return newPlayerBackend("ffplay", "ffmpeg file playback", "ffplay",
		func(file string) []string {
			return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", file}
		})
}
