package output

import (
	"fmt"
	"os"
	"path/filepath"

	audiobuf "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// writeTempWAV writes 16-bit PCM to a uniquely named file under the
// system temp dir and returns its path. The caller removes the file.
func writeTempWAV(pcm []int16, sampleRate, channels int) (string, error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}

	path := filepath.Join(os.TempDir(), "kestrel-"+uuid.NewString()+".wav")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audiobuf.IntBuffer{
		Format:         &audiobuf.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(pcm)),
	}
	for i, s := range pcm {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("finalize temp wav: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp wav: %w", err)
	}
	return path, nil
}

// writeRawTemp stores already-encoded audio bytes under a unique temp
// path, for player backends that take a file argument.
func writeRawTemp(data []byte, ext string) (string, error) {
	if ext == "" {
		ext = "bin"
	}
	path := filepath.Join(os.TempDir(), "kestrel-"+uuid.NewString()+"."+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp audio: %w", err)
	}
	return path, nil
}
