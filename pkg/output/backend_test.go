package output

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kestrelvoice/go-kestrel/pkg/speech"
)

func TestSynthesizerBackend(t *testing.T) {
	t.Run("renders text through the sink", func(t *testing.T) {
		sink := &MockBackend{IDValue: "sink", KindValue: KindAudio}
		b, err := NewSynthesizerBackend("voice", &speech.MockSynthesizer{}, sink)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := b.Play(context.Background(), TextInput("hello"), Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		plays := sink.Plays()
		if len(plays) != 1 {
			t.Fatalf("expected 1 sink play, got %d", len(plays))
		}
		if plays[0].Kind() != KindAudio || len(plays[0].Audio) == 0 {
			t.Errorf("expected PCM handed to sink, got %+v", plays[0])
		}
	})

	t.Run("rejects a text sink", func(t *testing.T) {
		sink := &MockBackend{IDValue: "sink", KindValue: KindText}
		if _, err := NewSynthesizerBackend("voice", &speech.MockSynthesizer{}, sink); err == nil {
			t.Fatal("expected error for non-audio sink")
		}
	})

	t.Run("rejects audio input", func(t *testing.T) {
		sink := &MockBackend{IDValue: "sink", KindValue: KindAudio}
		b, _ := NewSynthesizerBackend("voice", &speech.MockSynthesizer{}, sink)
		err := b.Play(context.Background(), AudioInput([]byte{0, 0}, "pcm16"), Options{})
		if !errors.Is(err, ErrWrongKind) {
			t.Fatalf("expected ErrWrongKind, got %v", err)
		}
	})
}

func TestSpeechBackendKind(t *testing.T) {
	b := &speechBackend{id: "test", path: "/bin/true", args: func(string, Options) []string { return nil }}
	err := b.Play(context.Background(), AudioInput([]byte{0}, "pcm16"), Options{})
	if !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestPSQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "'hello'"},
		{"", "''"},
		{"it's up", "'it''s up'"},
		{"'", "''''"},
	}
	for _, c := range cases {
		if got := psQuote(c.in); got != c.want {
			t.Errorf("psQuote(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestWriteTempWAV(t *testing.T) {
	pcm := make([]int16, 1600)
	path, err := writeTempWAV(pcm, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(path)

	if !strings.HasPrefix(filepath.Base(path), "kestrel-") {
		t.Errorf("unexpected temp name %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("temp file missing: %v", err)
	}
	// 44-byte header plus the sample data.
	if info.Size() < int64(len(pcm)*2) {
		t.Errorf("temp file too small: %d bytes", info.Size())
	}

	other, err := writeTempWAV(pcm, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(other)
	if other == path {
		t.Error("temp paths must be unique per call")
	}
}

func TestPlayerBackendCleansUp(t *testing.T) {
	countTemps := func() int {
		matches, _ := filepath.Glob(filepath.Join(os.TempDir(), "kestrel-*"))
		return len(matches)
	}

	run := func(t *testing.T, command string, wantErr bool) {
		path, err := exec.LookPath(command)
		if err != nil {
			t.Skipf("%s not on PATH", command)
		}
		b := &playerBackend{id: command, path: path, args: func(string) []string { return nil }}

		before := countTemps()
		err = b.Play(context.Background(), AudioInput(make([]byte, 3200), "pcm16"), Options{SampleRate: 16000})
		if wantErr && err == nil {
			t.Fatal("expected error")
		}
		if !wantErr && err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after := countTemps(); after != before {
			t.Errorf("temp files leaked: %d before, %d after", before, after)
		}
	}

	t.Run("removes the temp file on success", func(t *testing.T) { run(t, "true", false) })
	t.Run("removes the temp file on failure", func(t *testing.T) { run(t, "false", true) })
}
