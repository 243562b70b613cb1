// Package config provides configuration for go-kestrel commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kestrelvoice/go-kestrel/pkg/audio"
)

// Environment variables honored by every command.
const (
	// EnvConfig overrides the config file path.
	EnvConfig = "KESTREL_CONFIG"

	// EnvAudioDevice overrides the capture/playback device name.
	EnvAudioDevice = "KESTREL_AUDIO_DEVICE"
)

// Config holds all application configuration.
type Config struct {
	Audio    audio.Config `yaml:"audio"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level"`
}

// OutputConfig holds playback settings.
type OutputConfig struct {
	// Preferred lists backend IDs in fallback order.
	Preferred []string `yaml:"preferred"`

	// Voice passed through to speech backends, when set.
	Voice string `yaml:"voice"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kestrel")
}

// DefaultConfigPath returns the config file path, honoring EnvConfig.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return expandTilde(p)
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Audio: audio.DefaultConfig(),
		Output: OutputConfig{
			Preferred: []string{"say", "espeak", "flite", "sapi", "speaker", "aplay", "afplay", "ffplay"},
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return err
	}

	if len(c.Output.Preferred) == 0 {
		return fmt.Errorf("output.preferred must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// AudioDevice returns the device name from EnvAudioDevice.
// Falls back to the provided default if not set.
func AudioDevice(defaultName string) string {
	if dev := os.Getenv(EnvAudioDevice); dev != "" {
		return dev
	}
	return defaultName
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
