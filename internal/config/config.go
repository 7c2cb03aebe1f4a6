// Package config loads the leapmedia configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/leapmedia/internal/gesture"
	"github.com/ayusman/leapmedia/internal/hand"
)

// Frame source kinds.
const (
	SourceLeap   = "leap"
	SourceReplay = "replay"
)

// DefaultLeapURL is the Leap Motion service's JSON WebSocket endpoint.
const DefaultLeapURL = "ws://127.0.0.1:6437/v6.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Server struct {
	Addr string `yaml:"addr"`
}

type Source struct {
	Kind       string `yaml:"kind"`
	LeapURL    string `yaml:"leap_url"`
	ReplayPath string `yaml:"replay_path"`
	// ReplayLoop restarts the replay file when it ends.
	ReplayLoop bool `yaml:"replay_loop"`
}

type Gestures struct {
	Laterality hand.Laterality `yaml:"laterality"`
	Presets    []string        `yaml:"presets"`
	Timing     gesture.Timing  `yaml:"timing"`
}

type Plugins struct {
	Dir       string        `yaml:"dir"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queue_size"`
}

type Cue struct {
	Enabled bool          `yaml:"enabled"`
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

type Store struct {
	Path string `yaml:"path"`
	// Retention prunes events older than this at startup. Zero keeps everything.
	Retention time.Duration `yaml:"retention"`
}

// Config is the root of the configuration file.
type Config struct {
	Server   Server   `yaml:"server"`
	Source   Source   `yaml:"source"`
	Gestures Gestures `yaml:"gestures"`
	Plugins  Plugins  `yaml:"plugins"`
	Cue      Cue      `yaml:"cue"`
	Store    Store    `yaml:"store"`
	Tray     bool     `yaml:"tray"`
}

// Dir returns the leapmedia data directory, ~/.leapmedia.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leapmedia"
	}
	return filepath.Join(home, ".leapmedia")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := Dir()
	return &Config{
		Server: Server{Addr: "127.0.0.1:8080"},
		Source: Source{Kind: SourceLeap, LeapURL: DefaultLeapURL},
		Gestures: Gestures{
			Laterality: hand.Right,
			Presets:    append([]string(nil), gesture.DefaultPresets...),
			Timing:     gesture.DefaultTiming(),
		},
		Plugins: Plugins{
			Dir:       filepath.Join(dir, "plugins"),
			Timeout:   5 * time.Second,
			QueueSize: 16,
		},
		Cue:   Cue{Enabled: true, Timeout: 2 * time.Second},
		Store: Store{Path: filepath.Join(dir, "leapmedia.db")},
		Tray:  true,
	}
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}

	switch c.Source.Kind {
	case SourceLeap:
		if c.Source.LeapURL == "" {
			return fmt.Errorf("%w: source.leap_url is empty", ErrInvalid)
		}
	case SourceReplay:
		if c.Source.ReplayPath == "" {
			return fmt.Errorf("%w: source.replay_path is empty", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalid, c.Source.Kind)
	}

	if l := c.Gestures.Laterality; l != hand.Left && l != hand.Right {
		return fmt.Errorf("%w: laterality must be left or right, got %q", ErrInvalid, l)
	}
	for _, name := range c.Gestures.Presets {
		if !gesture.IsPreset(name) {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
		}
	}

	t := c.Gestures.Timing
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"min_hold", t.MinHold},
		{"min_cooldown", t.MinCooldown},
		{"min_action_spacing", t.MinActionSpacing},
		{"direction_debounce", t.DirectionDebounce},
		{"min_time_visible", t.MinTimeVisible},
		{"plugins.timeout", c.Plugins.Timeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalid, d.name, d.d)
		}
	}

	if c.Plugins.QueueSize <= 0 {
		return fmt.Errorf("%w: plugins.queue_size must be positive", ErrInvalid)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalid)
	}
	if c.Store.Retention < 0 {
		return fmt.Errorf("%w: store.retention is negative", ErrInvalid)
	}
	return nil
}
