// Package config loads the TOML file that configures the window, renderer, texture loader and
// frame loop of an oxy-gl program.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// Config is the whole configuration file. Keys that are absent keep their Default value.
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Textures Textures `toml:"textures"`
	Engine   Engine   `toml:"engine"`
	Log      Log      `toml:"log"`
}

// Window is the [window] section.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Renderer is the [renderer] section.
type Renderer struct {
	PoolCapacity int        `toml:"pool_capacity"`
	UniformCache bool       `toml:"uniform_cache"`
	ClearColor   [4]float32 `toml:"clear_color"`
}

// Textures is the [textures] section.
type Textures struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// Engine is the [engine] section.
type Engine struct {
	Profiling  bool    `toml:"profiling"`
	FrameLimit float64 `toml:"frame_limit"`
}

// Log is the [log] section.
type Log struct {
	// Level is one of debug, info, warn or error, optionally with an offset such as "info+2".
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns the configuration used for absent keys.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: Renderer{
			PoolCapacity: buffer.DefaultPoolCapacity,
			ClearColor:   [4]float32{0, 0, 0, 1},
		},
		Textures: Textures{
			Workers:   2,
			QueueSize: 64,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a configuration file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the parsed configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration on top of Default and validates it. Unknown keys are errors.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value against its allowed range.
//
// Returns:
//   - error: the joined validation errors, each wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, key string, value any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalid, key, value))
		}
	}
	check(c.Window.Width > 0, "window.width", c.Window.Width)
	check(c.Window.Height > 0, "window.height", c.Window.Height)
	check(c.Renderer.PoolCapacity > 0, "renderer.pool_capacity", c.Renderer.PoolCapacity)
	for _, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			check(false, "renderer.clear_color", c.Renderer.ClearColor)
			break
		}
	}
	check(c.Textures.Workers > 0, "textures.workers", c.Textures.Workers)
	check(c.Textures.QueueSize >= 0, "textures.queue_size", c.Textures.QueueSize)
	check(c.Engine.FrameLimit >= 0, "engine.frame_limit", c.Engine.FrameLimit)
	_, err := c.Log.level()
	check(err == nil, "log.level", c.Log.Level)
	f := strings.ToLower(c.Log.Format)
	check(f == "text" || f == "json", "log.format", c.Log.Format)
	return errors.Join(errs...)
}

// WindowOptions translates the [window] section.
//
// Returns:
//   - []window.WindowBuilderOption: options for window.NewWindow
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithVSync(c.Window.VSync),
	}
}

// RendererOptions translates the [renderer] and [textures] sections.
//
// Returns:
//   - []renderer.RendererBuilderOption: options for renderer.NewRenderer
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPoolCapacity(c.Renderer.PoolCapacity),
		renderer.WithUniformCache(c.Renderer.UniformCache),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
		renderer.WithTextureOptions(
			texture.WithWorkers(c.Textures.Workers),
			texture.WithQueueSize(c.Textures.QueueSize),
		),
	}
}

// EngineOptions translates the [engine] section.
//
// Returns:
//   - []engine.EngineBuilderOption: options for engine.NewEngine
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithProfiling(c.Engine.Profiling),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
	}
}

// Logger builds the logger described by the [log] section. An invalid level falls back to info.
//
// Parameters:
//   - w: where records are written
//
// Returns:
//   - *slog.Logger: the logger, ready for common.SetLogger
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Log.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l Log) level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
