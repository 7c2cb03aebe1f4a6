package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/leapmedia/internal/gesture"
	"github.com/ayusman/leapmedia/internal/hand"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
source:
  kind: replay
  replay_path: /tmp/frames.jsonl
gestures:
  laterality: left
  presets: [open-hand-toggle, scrub-volume]
  timing:
    min_hold: 250ms
tray: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %q", cfg.Server.Addr)
	}
	if cfg.Source.Kind != SourceReplay || cfg.Source.ReplayPath != "/tmp/frames.jsonl" {
		t.Errorf("unexpected source: %+v", cfg.Source)
	}
	if cfg.Source.LeapURL != DefaultLeapURL {
		t.Errorf("unset leap_url should keep its default, got %q", cfg.Source.LeapURL)
	}
	if cfg.Gestures.Laterality != hand.Left {
		t.Errorf("expected left laterality, got %q", cfg.Gestures.Laterality)
	}
	if diff := cmp.Diff([]string{gesture.PresetOpenHandToggle, gesture.PresetScrubVolume}, cfg.Gestures.Presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}

	want := gesture.DefaultTiming()
	want.MinHold = 250 * time.Millisecond
	if diff := cmp.Diff(want, cfg.Gestures.Timing); diff != "" {
		t.Errorf("timing mismatch (-want +got):\n%s", diff)
	}
	if cfg.Tray {
		t.Error("expected tray disabled")
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"unknown source", func(c *Config) { c.Source.Kind = "camera" }},
		{"leap without url", func(c *Config) { c.Source.LeapURL = "" }},
		{"replay without path", func(c *Config) { c.Source.Kind = SourceReplay }},
		{"bad laterality", func(c *Config) { c.Gestures.Laterality = "both" }},
		{"unknown preset", func(c *Config) { c.Gestures.Presets = []string{"wave"} }},
		{"zero hold", func(c *Config) { c.Gestures.Timing.MinHold = 0 }},
		{"negative cooldown", func(c *Config) { c.Gestures.Timing.MinCooldown = -time.Second }},
		{"zero plugin timeout", func(c *Config) { c.Plugins.Timeout = 0 }},
		{"zero queue", func(c *Config) { c.Plugins.QueueSize = 0 }},
		{"empty db path", func(c *Config) { c.Store.Path = "" }},
		{"negative retention", func(c *Config) { c.Store.Retention = -time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "gestures:\n  presets: [wave]\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
