package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
)

const sample = `
[window]
title = "demo"
width = 640
height = 480

[renderer]
uniform_cache = true
clear_color = [0.1, 0.2, 0.3, 1.0]

[textures]
workers = 4

[engine]
profiling = true
frame_limit = 60

[log]
level = "debug"
format = "json"
`

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, Window{Title: "demo", Width: 640, Height: 480, VSync: true}, cfg.Window)
	assert.Equal(t, buffer.DefaultPoolCapacity, cfg.Renderer.PoolCapacity, "absent keys keep their default")
	assert.True(t, cfg.Renderer.UniformCache)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, Textures{Workers: 4, QueueSize: 64}, cfg.Textures)
	assert.Equal(t, Engine{Profiling: true, FrameLimit: 60}, cfg.Engine)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Default().Validate())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[window]\nfullscreen = true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fullscreen")
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	_, err := Parse([]byte("[window\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: decode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"width", func(c *Config) { c.Window.Width = 0 }, "window.width"},
		{"height", func(c *Config) { c.Window.Height = -1 }, "window.height"},
		{"pool", func(c *Config) { c.Renderer.PoolCapacity = 0 }, "renderer.pool_capacity"},
		{"clear color", func(c *Config) { c.Renderer.ClearColor[2] = 2 }, "renderer.clear_color"},
		{"workers", func(c *Config) { c.Textures.Workers = 0 }, "textures.workers"},
		{"queue", func(c *Config) { c.Textures.QueueSize = -1 }, "textures.queue_size"},
		{"frame limit", func(c *Config) { c.Engine.FrameLimit = -30 }, "engine.frame_limit"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Textures.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.width")
	assert.Contains(t, err.Error(), "textures.workers")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxygl.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[window]\nwidth = 0\n"), 0o600))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), bad)
}

func TestOptionHelpers(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Len(t, cfg.WindowOptions(), 3)
	assert.Len(t, cfg.RendererOptions(), 4)
	assert.Len(t, cfg.EngineOptions(), 2)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	l := cfg.Logger(&buf)
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))
	l.Debug("hello", "component", "config")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg = Default()
	cfg.Log.Level = "warn"
	l = cfg.Logger(&buf)
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	l.Warn("careful")
	assert.Contains(t, buf.String(), "msg=careful")
}
