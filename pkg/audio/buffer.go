package audio

import "time"

// Buffer is one batch of captured or synthesized audio.
//
// Ownership transfers to the receiver when a Buffer is returned from a
// driver Read or delivered through a capture callback. The receiver must
// call Release exactly once when done; the runtime does not detect
// double-release or use-after-release.
type Buffer struct {
	// Data holds normalized float32 samples in [-1, 1], interleaved by channel.
	Data []float32

	// Samples is the number of samples in Data (frames * channels).
	Samples int

	// Channels is the channel count of this batch.
	Channels int

	// TimestampUS is the capture timestamp in microseconds.
	TimestampUS int64
}

// Release frees the payload and zeroes the buffer.
// After Release, Data is nil and Samples is zero.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.Data = nil
	b.Samples = 0
}

// Duration returns the playback duration of the buffer at the given
// sample rate: samples / (rate * channels).
func (b *Buffer) Duration(sampleRate int) time.Duration {
	if b == nil || b.Channels == 0 || sampleRate <= 0 {
		return 0
	}
	secs := float64(b.Samples) / float64(sampleRate*b.Channels)
	return time.Duration(secs * float64(time.Second))
}

// NewBuffer builds a Buffer from PCM16 samples, normalizing to float32
// and stamping it with the current time.
func NewBuffer(pcm []int16, channels int, timestampUS int64) *Buffer {
	return &Buffer{
		Data:        PCM16ToFloat32(pcm),
		Samples:     len(pcm),
		Channels:    channels,
		TimestampUS: timestampUS,
	}
}
