// Speak - say a phrase through the best available output backend.
// Exits non-zero when every backend fails.
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"github.com/kestrelvoice/go-kestrel/internal/config"
	"github.com/kestrelvoice/go-kestrel/internal/log"
	"github.com/kestrelvoice/go-kestrel/pkg/events"
	"github.com/kestrelvoice/go-kestrel/pkg/output"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Config file path")
	voice := flag.String("voice", "", "Voice name for speech backends")
	status := flag.Bool("status", false, "Print backend availability and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}
	log.Init(cfg.LogLevel)

	bus := events.NewBus(log.L())
	mgr := output.NewManager(cfg.Output.Preferred, bus, log.L())
	defer mgr.Close()

	if *status {
		printStatus(mgr.Status())
		return
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: speak [flags] <text to speak>")
		os.Exit(2)
	}

	v := *voice
	if v == "" {
		v = cfg.Output.Voice
	}

	ch, cancel := bus.Subscribe()
	defer cancel()

	mgr.Play(context.Background(), output.TextInput(text), output.Options{Voice: v})

	select {
	case ev := <-ch:
		if !ev.Played {
			fmt.Fprintf(os.Stderr, "❌ Playback failed (tried %s)\n", strings.Join(ev.Tried, ", "))
			os.Exit(1)
		}
		if ev.Fallback {
			fmt.Printf("⚠️  Spoke via fallback backend %s\n", ev.Backend)
		}
	default:
		// Silent mode publishes nothing.
		fmt.Fprintln(os.Stderr, "❌ No output backend available")
		os.Exit(1)
	}
}

func printStatus(st output.Status) {
	fmt.Printf("Platform: %s/%s\n", st.Platform, st.Arch)
	fmt.Printf("Current:  %s\n", st.CurrentOutput)
	fmt.Println("Available:")
	if len(st.Available) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, b := range st.Available {
		fmt.Printf("  %-8s %-5s %s\n", b.ID, b.Kind, b.Description)
	}
}
