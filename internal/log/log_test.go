package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestHandlerFormat(t *testing.T) {
	t.Run("production mode emits json", func(t *testing.T) {
		t.Setenv(EnvMode, "production")
		var buf bytes.Buffer
		slog.New(newHandler(slog.LevelInfo, &buf)).Info("started", "component", "audio")

		out := buf.String()
		if !strings.HasPrefix(out, "{") {
			t.Errorf("expected JSON output, got %q", out)
		}
		if !strings.Contains(out, `"component":"audio"`) {
			t.Errorf("expected component attribute, got %q", out)
		}
	})

	t.Run("development mode emits text", func(t *testing.T) {
		t.Setenv(EnvMode, "")
		var buf bytes.Buffer
		slog.New(newHandler(slog.LevelInfo, &buf)).Info("started")

		out := buf.String()
		if strings.HasPrefix(out, "{") {
			t.Errorf("expected text output, got %q", out)
		}
		if !strings.Contains(out, "msg=started") {
			t.Errorf("expected text key=value output, got %q", out)
		}
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Setenv(EnvMode, "")
		var buf bytes.Buffer
		l := slog.New(newHandler(parseLevel("warn"), &buf))
		l.Info("dropped")
		l.Warn("kept")

		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Errorf("info record not filtered: %q", out)
		}
		if !strings.Contains(out, "kept") {
			t.Errorf("warn record missing: %q", out)
		}
	})
}

func TestComponent(t *testing.T) {
	if Component("audio") == nil {
		t.Fatal("expected a logger")
	}
}
