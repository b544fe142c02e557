// Package config loads the lab's TOML configuration. Every field has a default, so a
// missing file or a partial file is valid; unknown keys are rejected to catch typos.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the configuration file.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Engine  EngineConfig  `toml:"engine"`
	Router  RouterConfig  `toml:"router"`
	Texture TextureConfig `toml:"texture"`
	Sphere  SphereConfig  `toml:"sphere"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig controls the native window and swap chain.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	MSAA   int    `toml:"msaa"`
}

// EngineConfig controls the tick and render loops.
type EngineConfig struct {
	TickRate   int  `toml:"tick_rate"`
	FrameLimit int  `toml:"frame_limit"`
	Profiling  bool `toml:"profiling"`
}

// RouterConfig selects the first lab and the lab shown for unknown routes.
type RouterConfig struct {
	Start    string `toml:"start"`
	Fallback string `toml:"fallback"`
}

// TextureConfig points the texture lab at an image. An empty path uses a generated checkerboard.
type TextureConfig struct {
	Path       string `toml:"path"`
	Watch      bool   `toml:"watch"`
	DebounceMS int    `toml:"debounce_ms"`
}

// SphereConfig holds the initial sphere lab slider values.
type SphereConfig struct {
	Radius float32 `toml:"radius"`
	Stacks int     `toml:"stacks"`
	Slices int     `toml:"slices"`
	Speed  float32 `toml:"speed"`
}

// LogConfig sets the minimum log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "WebGL Lab",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Engine: EngineConfig{
			TickRate:   60,
			FrameLimit: 0,
		},
		Router: RouterConfig{
			Start:    "/triangle",
			Fallback: "/triangle",
		},
		Texture: TextureConfig{
			DebounceMS: 100,
		},
		Sphere: SphereConfig{
			Radius: 1,
			Stacks: 16,
			Slices: 32,
			Speed:  0.5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file on top of Default. A missing file yields the defaults.
//
// Parameters:
//   - path: the configuration file path; empty means defaults only
//
// Returns:
//   - Config: the merged configuration
//   - error: read, parse or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes TOML bytes on top of Default and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: parse error (including unknown keys) or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks ranges that would otherwise fail later at window or mesh creation.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.MSAA != 1 && c.Window.MSAA != 4 {
		errs = append(errs, fmt.Errorf("msaa must be 1 or 4, got %d", c.Window.MSAA))
	}
	if c.Engine.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.Engine.TickRate))
	}
	if c.Engine.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("frame_limit must not be negative, got %d", c.Engine.FrameLimit))
	}
	if c.Sphere.Stacks < 1 || c.Sphere.Slices < 1 {
		errs = append(errs, fmt.Errorf("sphere stacks and slices must be at least 1, got %d and %d", c.Sphere.Stacks, c.Sphere.Slices))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Debounce returns the texture watcher debounce interval.
func (t TextureConfig) Debounce() time.Duration {
	return time.Duration(t.DebounceMS) * time.Millisecond
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return lvl, nil
}
