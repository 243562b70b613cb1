// Package audio provides the hardware abstraction layer for voice capture
// and playback across heterogeneous platforms.
//
// One Runtime API drives very different capture mechanisms: ALSA PCM on
// Linux, ALSA plus GPIO mic-array multiplexing on single-board computers,
// a task-driven I2S-style channel on embedded boards, and a no-op stub for
// desktop development. Exactly one Driver implementation is linked per
// binary; see the platform subpackage for build-time selection.
//
// Example usage:
//
//	cfg := audio.DefaultConfig()
//	rt, err := audio.NewRuntime(&cfg, platform.Driver(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Cleanup()
//
//	if err := rt.StartCapture(); err != nil {
//	    log.Fatal(err)
//	}
//	for buf := range rt.Frames(ctx) {
//	    process(buf)
//	    buf.Release()
//	}
package audio

import (
	"fmt"
)

// Config holds audio hardware configuration.
// It is immutable once passed to a Runtime; the Runtime keeps its own copy.
type Config struct {
	// SampleRate is the capture/playback rate in Hz.
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// Channels is the number of audio channels (1 = mono).
	Channels int `yaml:"channels" json:"channels"`

	// BitsPerSample is the hardware sample width (16 for PCM16).
	BitsPerSample int `yaml:"bits_per_sample" json:"bits_per_sample"`

	// BufferSize is the number of frames per read batch.
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`

	// NoiseSuppression is passed through to drivers that support it.
	// This layer does not implement DSP.
	NoiseSuppression bool `yaml:"noise_suppression" json:"noise_suppression"`

	// EchoCancellation is passed through to drivers that support it.
	EchoCancellation bool `yaml:"echo_cancellation" json:"echo_cancellation"`
}

// DefaultConfig returns a Config with the system defaults:
// 16kHz mono PCM16 with 1024-frame buffers.
func DefaultConfig() Config {
	return Config{
		SampleRate:       16000,
		Channels:         1,
		BitsPerSample:    16,
		BufferSize:       1024,
		NoiseSuppression: true,
		EchoCancellation: true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.BitsPerSample != 16 {
		return fmt.Errorf("bits_per_sample must be 16, got %d", c.BitsPerSample)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	return nil
}

// FrameBytes returns the size in bytes of one read batch
// (BufferSize frames of interleaved PCM16).
func (c *Config) FrameBytes() int {
	return c.BufferSize * c.Channels * 2
}

// SamplesPerBatch returns the number of interleaved samples in one batch.
func (c *Config) SamplesPerBatch() int {
	return c.BufferSize * c.Channels
}
