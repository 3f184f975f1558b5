// Package config provides configuration loading and management for the
// tiled unwrapping pipeline. It handles loading configuration from YAML
// files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"phaseunwrap/pkg/unwrap"
)

// Config represents the pipeline configuration loaded from YAML.
type Config struct {
	// Tiling controls how the full raster is partitioned.
	Tiling struct {
		// TilesDown and TilesAcross are the per-axis tile counts.
		TilesDown   int `yaml:"tilesDown"`
		TilesAcross int `yaml:"tilesAcross"`

		// Overhang is the fraction of the tile length shared between
		// adjacent tiles, in [0, 1].
		Overhang float64 `yaml:"overhang"`

		// SnapRows and SnapCols optionally snap tile lengths up to a
		// multiple of the given granularity. Zero snaps to the
		// downsample factor.
		SnapRows int `yaml:"snapRows"`
		SnapCols int `yaml:"snapCols"`
	} `yaml:"tiling"`

	// Multiscale controls the coarse seeding pass.
	Multiscale struct {
		// DownsampleRows and DownsampleCols are the per-axis decimation
		// factors of the coarse pass. (1, 1) disables it.
		DownsampleRows int `yaml:"downsampleRows"`
		DownsampleCols int `yaml:"downsampleCols"`
	} `yaml:"multiscale"`

	// Processing controls resource usage and logging.
	Processing struct {
		// Workers bounds the number of tiles unwrapped concurrently.
		Workers int `yaml:"workers"`

		// Verbose enables per-tile debug logging.
		Verbose bool `yaml:"verbose"`
	} `yaml:"processing"`
}

// DefaultConfig returns a configuration with default values: a single
// full-extent tile, no downsampling, half-tile overhang, and one worker
// per CPU.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Tiling.TilesDown = 1
	cfg.Tiling.TilesAcross = 1
	cfg.Tiling.Overhang = 0.5

	cfg.Multiscale.DownsampleRows = 1
	cfg.Multiscale.DownsampleCols = 1

	cfg.Processing.Workers = runtime.NumCPU()
	cfg.Processing.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Params converts the configuration into orchestrator parameters bound to
// the given backend.
func (c *Config) Params(backend unwrap.Unwrapper) *unwrap.Params {
	return &unwrap.Params{
		Backend:        backend,
		DownsampleRows: c.Multiscale.DownsampleRows,
		DownsampleCols: c.Multiscale.DownsampleCols,
		TilesDown:      c.Tiling.TilesDown,
		TilesAcross:    c.Tiling.TilesAcross,
		Overhang:       c.Tiling.Overhang,
		SnapRows:       c.Tiling.SnapRows,
		SnapCols:       c.Tiling.SnapCols,
		Workers:        c.Processing.Workers,
	}
}
