// Capture Test - Debug microphone capture on the current platform
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kestrelvoice/go-kestrel/internal/config"
	"github.com/kestrelvoice/go-kestrel/internal/log"
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	audioplatform "github.com/kestrelvoice/go-kestrel/pkg/audio/platform"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "How long to capture")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	fmt.Println("🎤 Capture Test")
	fmt.Printf("   Platform: %s\n", audioplatform.Name())
	fmt.Printf("   Device:   %s\n", config.AudioDevice("default"))
	fmt.Printf("   Duration: %v\n", *duration)
	fmt.Println()

	cfg := audio.DefaultConfig()
	rt, err := audio.NewRuntime(&cfg, audioplatform.Driver(), log.Component("audio"))
	if err != nil {
		fmt.Printf("❌ Audio init failed: %v\n", err)
		os.Exit(1)
	}
	defer rt.Cleanup()

	if err := rt.StartCapture(); err != nil {
		fmt.Printf("❌ Capture failed to start: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, timeout := context.WithTimeout(ctx, *duration)
	defer timeout()

	var frames, samples int
	var peak float64

	for buf := range rt.Frames(ctx) {
		frames++
		samples += buf.Samples
		for _, s := range buf.Data {
			if v := math.Abs(float64(s)); v > peak {
				peak = v
			}
		}
		if frames%16 == 0 {
			fmt.Printf("\r   %s", meter(peak))
			peak = 0
		}
		buf.Release()
	}

	fmt.Println()
	fmt.Printf("✅ Captured %d frames (%d samples, %.1fs of audio)\n",
		frames, samples, float64(samples)/float64(cfg.SampleRate*cfg.Channels))
}

// meter renders a crude level bar for the terminal.
func meter(peak float64) string {
	const width = 40
	n := int(peak * width)
	if n > width {
		n = width
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat("-", width-n) + "]"
}
