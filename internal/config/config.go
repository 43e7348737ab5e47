// Package config loads geometa CLI settings from YAML or TOML files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/geometa/internal/types"
	"github.com/simonhull/geometa/internal/zoom"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned for unreadable or out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables read by ApplyEnv.
const (
	EnvConfig      = "GEOMETA_CONFIG"
	EnvConcurrency = "GEOMETA_CONCURRENCY"
)

// Config holds the CLI settings.
type Config struct {
	// Concurrency bounds the queries in flight per digest; 0 means one per CPU.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`

	// Pretty indents JSON output even when stdout is not a terminal.
	Pretty bool `yaml:"pretty" toml:"pretty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Zoom zoom.Config `yaml:"zoom" toml:"zoom"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Zoom:     zoom.DefaultConfig(),
	}
}

// Load reads a config file, choosing the decoder by extension (.yaml,
// .yml or .toml). Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvConcurrency, v)
		}
		c.Concurrency = n
	}
	return c.Validate()
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	switch {
	case c.Concurrency < 0:
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidConfig)
	case c.Zoom.MaxTileBytes <= 0 || c.Zoom.MinTileBytes <= 0:
		return fmt.Errorf("%w: zoom tile byte thresholds must be positive", ErrInvalidConfig)
	case c.Zoom.MinTileBytes >= c.Zoom.MaxTileBytes:
		return fmt.Errorf("%w: zoom.min_tile_bytes must be below zoom.max_tile_bytes", ErrInvalidConfig)
	case c.Zoom.SmallSourceBytes < 0:
		return fmt.Errorf("%w: zoom.small_source_bytes must not be negative", ErrInvalidConfig)
	case !inZoomRange(c.Zoom.PointMaxZoomFloor) || !inZoomRange(c.Zoom.MaxZoomFloor) || !inZoomRange(c.Zoom.RasterSpan):
		return fmt.Errorf("%w: zoom floors and raster span must be within 0-%d", ErrInvalidConfig, types.MaxZoom)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func inZoomRange(z int) bool {
	return z >= 0 && z <= types.MaxZoom
}
