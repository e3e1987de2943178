// Package config loads shoreline.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/shoreline/internal/logger"
	"github.com/samdwyer/shoreline/internal/telemetry"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = "shoreline.yaml"

// Config holds all game configuration.
type Config struct {
	Map       MapConfig        `yaml:"map"`
	Preview   PreviewConfig    `yaml:"preview"`
	Terrain   TerrainConfig    `yaml:"terrain"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// MapConfig controls wave generation. Height and Width count wave cells;
// the explorable map is three times larger in each direction.
type MapConfig struct {
	Height int  `yaml:"height"`
	Width  int  `yaml:"width"`
	Wrap   bool `yaml:"wrap"`

	// Seed for random number generation. A seed of 0 means one is derived
	// from the clock.
	Seed int64 `yaml:"seed"`

	// MaxAttempts bounds how many fresh waves are tried after contradictions.
	MaxAttempts uint `yaml:"max_attempts"`
}

// PreviewConfig controls the step-by-step generation view.
type PreviewConfig struct {
	FrameMillis int `yaml:"frame_ms"`
}

// Frame returns the delay between preview steps.
func (p PreviewConfig) Frame() time.Duration {
	return time.Duration(p.FrameMillis) * time.Millisecond
}

// TerrainConfig optionally replaces the embedded terrain set.
type TerrainConfig struct {
	// File is a JSON or YAML terrain file. Empty uses the built-in coastline.
	File string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Map: MapConfig{
			Height:      20,
			Width:       30,
			Wrap:        false,
			Seed:        0,
			MaxAttempts: 10,
		},
		Preview:   PreviewConfig{FrameMillis: 30},
		Logging:   logger.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads configuration from a YAML file over the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides map settings from SHORELINE_SEED, SHORELINE_WRAP,
// SHORELINE_HEIGHT and SHORELINE_WIDTH, then the logging overrides.
// Malformed values are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SHORELINE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SHORELINE_SEED: %w", err)
		}
		c.Map.Seed = seed
	}
	if v := os.Getenv("SHORELINE_WRAP"); v != "" {
		wrap, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SHORELINE_WRAP: %w", err)
		}
		c.Map.Wrap = wrap
	}
	if v := os.Getenv("SHORELINE_HEIGHT"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHORELINE_HEIGHT: %w", err)
		}
		c.Map.Height = h
	}
	if v := os.Getenv("SHORELINE_WIDTH"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHORELINE_WIDTH: %w", err)
		}
		c.Map.Width = w
	}

	c.Logging.ApplyEnv()
	return nil
}

// Validate rejects settings generation cannot run with.
func (c *Config) Validate() error {
	if c.Map.Height <= 0 || c.Map.Width <= 0 {
		return fmt.Errorf("map size %dx%d: dimensions must be positive", c.Map.Width, c.Map.Height)
	}
	if c.Map.MaxAttempts == 0 {
		return errors.New("map.max_attempts must be at least 1")
	}
	if c.Preview.FrameMillis < 0 {
		return errors.New("preview.frame_ms cannot be negative")
	}
	return nil
}

// ResolveSeed returns the configured seed, or one derived from now when the
// seed is 0. The resolved value is written back so it can be reported.
func (c *Config) ResolveSeed(now time.Time) int64 {
	if c.Map.Seed == 0 {
		c.Map.Seed = now.UnixNano()
	}
	return c.Map.Seed
}
