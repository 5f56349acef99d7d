package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twisty.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Size != 3 || cfg.Spacing != cube.DefaultSpacing || cfg.Threshold != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	p, err := cfg.Palette.Colors()
	if err != nil {
		t.Fatalf("Colors: %v", err)
	}
	if p != cube.DefaultPalette() {
		t.Errorf("default palette = %v", p)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
size: 4
turn_duration: 100ms
palette:
  front: "#123456"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Size != 4 {
		t.Errorf("Size = %d, want 4", cfg.Size)
	}
	if cfg.TurnDuration != 100*time.Millisecond {
		t.Errorf("TurnDuration = %v, want 100ms", cfg.TurnDuration)
	}
	if cfg.Palette.Front != "#123456" || cfg.Palette.Back != "#009b48" {
		t.Errorf("Palette = %+v", cfg.Palette)
	}
	if cfg.Spacing != cube.DefaultSpacing {
		t.Errorf("unset key changed Spacing to %v", cfg.Spacing)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "size: 4\nlog_level: warn\n")
	t.Setenv("TWISTY_SIZE", "5")
	t.Setenv("TWISTY_COLOR_TOP", "#000000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Size != 5 {
		t.Errorf("Size = %d, want 5 from the environment", cfg.Size)
	}
	if cfg.Palette.Top != "#000000" {
		t.Errorf("Palette.Top = %q", cfg.Palette.Top)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("Level = %v, want warn from the file", cfg.Level())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"size", func(c *Config) { c.Size = 0 }, "size"},
		{"too big", func(c *Config) { c.Size = MaxSize + 1 }, "size"},
		{"spacing", func(c *Config) { c.Spacing = 0 }, "spacing"},
		{"threshold", func(c *Config) { c.Threshold = -1 }, "drag_threshold"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"color", func(c *Config) { c.Palette.Left = "blue" }, "palette"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should be an error")
	}
}

func TestBadYAML(t *testing.T) {
	path := writeFile(t, "size: [\n")
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should be an error")
	}
}
