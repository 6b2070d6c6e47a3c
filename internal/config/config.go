// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config manages application configuration.
//
// Priority order (highest to lowest):
//  1. Environment variables (REVOFOTO_*)
//  2. Config file: ~/.revofoto/config.toml
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the root configuration.
type Config struct {
	// DataDir holds the database and any legacy store.
	// Default: ~/.revofoto
	DataDir string `toml:"data_dir"`

	Storage   StorageConfig   `toml:"storage"`
	Export    ExportConfig    `toml:"export"`
	Watermark WatermarkConfig `toml:"watermark"`
	Logging   LoggingConfig   `toml:"logging"`
}

// StorageConfig controls the snapshot store.
type StorageConfig struct {
	// DatabaseFile is the sqlite file name inside DataDir.
	DatabaseFile string `toml:"database_file"`
}

// ExportConfig controls image export.
type ExportConfig struct {
	// JPEGQuality in 1..100.
	JPEGQuality int `toml:"jpeg_quality"`
}

// WatermarkConfig controls the export watermark.
type WatermarkConfig struct {
	// Enabled toggles stamping on export.
	Enabled bool `toml:"enabled"`

	// AssetURL fetches the mark over HTTP when set.
	AssetURL string `toml:"asset_url"`

	// AssetPath reads the mark from disk when set. Takes precedence
	// over AssetURL.
	AssetPath string `toml:"asset_path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// JSON selects JSON output over text.
	JSON bool `toml:"json"`
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".revofoto")
	}
	return &Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			DatabaseFile: "revofoto.db",
		},
		Export: ExportConfig{
			JPEGQuality: 95,
		},
		Watermark: WatermarkConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".revofoto", "config.toml"), nil
}

// Load builds the effective configuration: defaults, then the config
// file when present, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads defaults plus the file at path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over the given config.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// ApplyEnvOverrides applies REVOFOTO_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("REVOFOTO_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if url := os.Getenv("REVOFOTO_WATERMARK_URL"); url != "" {
		c.Watermark.AssetURL = url
	}
	if path := os.Getenv("REVOFOTO_WATERMARK_PATH"); path != "" {
		c.Watermark.AssetPath = path
	}
	if v := os.Getenv("REVOFOTO_WATERMARK_DISABLED"); v == "1" || v == "true" {
		c.Watermark.Enabled = false
	}
	if q := os.Getenv("REVOFOTO_JPEG_QUALITY"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			c.Export.JPEGQuality = n
		}
	}
	if level := os.Getenv("REVOFOTO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks invariants the rest of the app relies on.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	if c.Storage.DatabaseFile == "" {
		return fmt.Errorf("storage.database_file must be set")
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("export.jpeg_quality must be in 1..100, got %d", c.Export.JPEGQuality)
	}
	return nil
}

// DatabasePath joins the data directory and database file name.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.Storage.DatabaseFile)
}
