package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/geometa/internal/zoom"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "geometa.yaml", `concurrency: 4
pretty: true
log_level: debug
zoom:
  max_tile_bytes: 1048576
  point_max_zoom_floor: 14
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1048576.0, cfg.Zoom.MaxTileBytes)
	assert.Equal(t, 14, cfg.Zoom.PointMaxZoomFloor)

	def := zoom.DefaultConfig()
	assert.Equal(t, def.MinTileBytes, cfg.Zoom.MinTileBytes, "unset keys keep defaults")
	assert.Equal(t, def.RasterSpan, cfg.Zoom.RasterSpan)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "geometa.toml", `concurrency = 2
log_level = "info"

[zoom]
min_tile_bytes = 2000.0
max_zoom_floor = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Concurrency)
	assert.False(t, cfg.Pretty)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2000.0, cfg.Zoom.MinTileBytes)
	assert.Equal(t, 8, cfg.Zoom.MaxZoomFloor)
	assert.Equal(t, zoom.DefaultConfig().MaxTileBytes, cfg.Zoom.MaxTileBytes)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "geometa.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"geometa.yaml": "{{invalid",
		"geometa.toml": "concurrency = = 3",
		"geometa.json": `{"concurrency": 3}`,
		"range.yaml":   "concurrency: -1",
		"level.yml":    "log_level: loud",
		"zoom.yaml":    "zoom:\n  min_tile_bytes: 600000",
		"span.toml":    "[zoom]\nraster_span = 30",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvConcurrency: "3"}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, 3, cfg.Concurrency)

	env[EnvConcurrency] = "many"
	assert.ErrorIs(t, cfg.ApplyEnv(func(k string) string { return env[k] }), ErrInvalidConfig)

	cfg = Default()
	require.NoError(t, cfg.ApplyEnv(func(string) string { return "" }))
	assert.Equal(t, 0, cfg.Concurrency)
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
