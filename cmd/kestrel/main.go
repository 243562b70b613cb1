// Kestrel - ambient voice assistant daemon.
// Captures microphone audio and speaks responses through whichever
// output backend the host supports.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrelvoice/go-kestrel/internal/config"
	"github.com/kestrelvoice/go-kestrel/internal/log"
	"github.com/kestrelvoice/go-kestrel/internal/platform"
	"github.com/kestrelvoice/go-kestrel/pkg/audio"
	audioplatform "github.com/kestrelvoice/go-kestrel/pkg/audio/platform"
	"github.com/kestrelvoice/go-kestrel/pkg/events"
	"github.com/kestrelvoice/go-kestrel/pkg/output"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Config file path")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}

	log.Init(cfg.LogLevel)
	logger := log.L()

	host := platform.Detect()
	logger.Info("starting kestrel",
		"audio_platform", audioplatform.Name(),
		"os", host.OS,
		"arch", host.Arch,
		"board", host.Board,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := audio.NewRuntime(&cfg.Audio, audioplatform.Driver(), log.Component("audio"))
	if err != nil {
		stdlog.Fatalf("❌ Audio initialization failed: %v", err)
	}
	defer rt.Cleanup()

	bus := events.NewBus(log.Component("events"))
	mgr := output.NewManager(cfg.Output.Preferred, bus, logger)
	defer mgr.Close()

	go logPlayback(ctx, bus, logger)

	status := mgr.Status()
	logger.Info("output ready", "backend", status.CurrentOutput)
	mgr.Play(ctx, output.TextInput("Kestrel is listening."), output.Options{Voice: cfg.Output.Voice})

	if err := rt.StartCapture(); err != nil {
		logger.Error("capture unavailable", "error", err)
	} else {
		go monitorLevel(ctx, rt, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")
}

// logPlayback reports every playback outcome until ctx ends.
func logPlayback(ctx context.Context, bus *events.Bus, logger *slog.Logger) {
	ch, cancel := bus.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if ev.Played {
				logger.Debug("audio played", "backend", ev.Backend, "fallback", ev.Fallback)
			} else {
				logger.Warn("audio failed", "tried", ev.Tried)
			}
		}
	}
}

// monitorLevel consumes the capture stream and periodically logs the
// input level, mostly so a misconfigured device is visible.
func monitorLevel(ctx context.Context, rt *audio.Runtime, logger *slog.Logger) {
	frames := rt.Frames(ctx)
	last := time.Now()
	for buf := range frames {
		if time.Since(last) >= 5*time.Second {
			logger.Debug("input level", "rms", rms(buf.Data), "samples", buf.Samples)
			last = time.Now()
		}
		buf.Release()
	}
}

// rms computes the root-mean-square level of normalized samples.
func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
