package output

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// speechBackend drives an external text-to-speech command. The command
// receives the utterance as an argument and is expected to block until
// playback completes.
type speechBackend struct {
	id          string
	description string
	path        string
	args        func(text string, opts Options) []string
}

func (b *speechBackend) ID() string          { return b.id }
func (b *speechBackend) Description() string { return b.description }
func (b *speechBackend) Kind() Kind          { return KindText }
func (b *speechBackend) Close() error        { return nil }

func (b *speechBackend) Play(ctx context.Context, in Input, opts Options) error {
	if in.Kind() != KindText {
		return fmt.Errorf("%s: %w", b.id, ErrWrongKind)
	}
	cmd := exec.CommandContext(ctx, b.path, b.args(in.Text, opts)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", b.id, err, out)
	}
	return nil
}

// newSpeechBackend probes for the command on PATH.
func newSpeechBackend(id, description, command string, args func(string, Options) []string) (Backend, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", command, err)
	}
	return &speechBackend{id: id, description: description, path: path, args: args}, nil
}

// NewSayBackend wraps the macOS `say` command.
func NewSayBackend() (Backend, error) {
	if runtime.GOOS != "darwin" {
		return nil, fmt.Errorf("say requires darwin")
	}
	return newSpeechBackend("say", "macOS speech synthesis", "say",
		func(text string, opts Options) []string {
			args := []string{}
			if opts.Voice != "" {
				args = append(args, "-v", opts.Voice)
			}
			if opts.Rate > 0 {
				args = append(args, "-r", strconv.Itoa(opts.Rate))
			}
			return append(args, text)
		})
}

// NewEspeakBackend wraps espeak-ng, falling back to the classic espeak
// binary when only that is installed.
func NewEspeakBackend() (Backend, error) {
	args := func(text string, opts Options) []string {
		a := []string{}
		if opts.Voice != "" {
			a = append(a, "-v", opts.Voice)
		}
		if opts.Rate > 0 {
			a = append(a, "-s", strconv.Itoa(opts.Rate))
		}
		return append(a, text)
	}
	if b, err := newSpeechBackend("espeak", "eSpeak NG speech synthesis", "espeak-ng", args); err == nil {
		return b, nil
	}
	return newSpeechBackend("espeak", "eSpeak speech synthesis", "espeak", args)
}

// NewFliteBackend wraps the flite synthesizer.
func NewFliteBackend() (Backend, error) {
	return newSpeechBackend("flite", "CMU Flite speech synthesis", "flite",
		func(text string, opts Options) []string {
			args := []string{}
			if opts.Voice != "" {
				args = append(args, "-voice", opts.Voice)
			}
			return append(args, "-t", text)
		})
}

// NewSAPIBackend wraps the Windows SAPI voice through PowerShell.
func NewSAPIBackend() (Backend, error) {
	if runtime.GOOS != "windows" {
		return nil, fmt.Errorf("sapi requires windows")
	}
	return newSpeechBackend("sapi", "Windows SAPI speech synthesis", "powershell",
		func(text string, opts Options) []string {
			script := "Add-Type -AssemblyName System.Speech; " +
				"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; " +
				"$s.Speak(" + psQuote(text) + ")"
			return []string{"-NoProfile", "-Command", script}
		})
}

func psQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
			continue
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}
