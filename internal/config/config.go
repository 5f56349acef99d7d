// Package config loads twisty settings from defaults, an optional YAML file
// and TWISTY_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// MaxSize bounds the puzzle size accepted from configuration.
const MaxSize = 16

// Config holds every runtime setting.
type Config struct {
	Size         int           `yaml:"size" env:"TWISTY_SIZE"`
	Spacing      float64       `yaml:"spacing" env:"TWISTY_SPACING"`
	Threshold    float64       `yaml:"drag_threshold" env:"TWISTY_DRAG_THRESHOLD"`
	TurnDuration time.Duration `yaml:"turn_duration" env:"TWISTY_TURN_DURATION"`
	ShuffleMoves int           `yaml:"shuffle_moves" env:"TWISTY_SHUFFLE_MOVES"`
	Seed         uint64        `yaml:"seed" env:"TWISTY_SEED"`
	DBPath       string        `yaml:"db_path" env:"TWISTY_DB"`
	Listen       string        `yaml:"listen" env:"TWISTY_LISTEN"`
	LogLevel     string        `yaml:"log_level" env:"TWISTY_LOG_LEVEL"`
	Palette      Palette       `yaml:"palette" envPrefix:"TWISTY_COLOR_"`
}

// Palette holds one #rrggbb color per face.
type Palette struct {
	Front  string `yaml:"front" env:"FRONT"`
	Back   string `yaml:"back" env:"BACK"`
	Bottom string `yaml:"bottom" env:"BOTTOM"`
	Top    string `yaml:"top" env:"TOP"`
	Left   string `yaml:"left" env:"LEFT"`
	Right  string `yaml:"right" env:"RIGHT"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := cube.DefaultPalette()
	return Config{
		Size:         3,
		Spacing:      cube.DefaultSpacing,
		Threshold:    5,
		TurnDuration: 250 * time.Millisecond,
		ShuffleMoves: 30,
		DBPath:       "twisty.db",
		Listen:       "127.0.0.1:8080",
		LogLevel:     "info",
		Palette: Palette{
			Front:  p[cube.Front].Hex(),
			Back:   p[cube.Back].Hex(),
			Bottom: p[cube.Bottom].Hex(),
			Top:    p[cube.Top].Hex(),
			Left:   p[cube.Left].Hex(),
			Right:  p[cube.Right].Hex(),
		},
	}
}

// Load builds the configuration. An empty path skips the file; a missing
// file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv applies environment overrides to target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Size < 1 || c.Size > MaxSize {
		errs = append(errs, fmt.Errorf("size %d outside [1,%d]", c.Size, MaxSize))
	}
	if c.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("spacing must be positive, got %v", c.Spacing))
	}
	if c.Threshold < 0 {
		errs = append(errs, fmt.Errorf("drag_threshold must not be negative, got %v", c.Threshold))
	}
	if c.TurnDuration < 0 {
		errs = append(errs, fmt.Errorf("turn_duration must not be negative, got %v", c.TurnDuration))
	}
	if c.ShuffleMoves < 0 {
		errs = append(errs, fmt.Errorf("shuffle_moves must not be negative, got %d", c.ShuffleMoves))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Palette.Colors(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}

// Colors converts the palette to sticker colors.
func (p Palette) Colors() (cube.Palette, error) {
	raw := [6]string{
		cube.Front:  p.Front,
		cube.Back:   p.Back,
		cube.Bottom: p.Bottom,
		cube.Top:    p.Top,
		cube.Left:   p.Left,
		cube.Right:  p.Right,
	}

	var out cube.Palette
	for f, s := range raw {
		c, err := cube.ParseColor(s)
		if err != nil {
			return out, fmt.Errorf("palette %v: %w", cube.Face(f), err)
		}
		out[f] = c
	}
	return out, nil
}
