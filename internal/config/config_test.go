// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.DatabaseFile != "revofoto.db" {
		t.Errorf("DatabaseFile = %q", cfg.Storage.DatabaseFile)
	}
	if cfg.Export.JPEGQuality != 95 {
		t.Errorf("JPEGQuality = %d, want 95", cfg.Export.JPEGQuality)
	}
	if !cfg.Watermark.Enabled {
		t.Error("Watermark should default to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_dir = "/tmp/revofoto-test"

[export]
jpeg_quality = 80

[watermark]
enabled = false

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if cfg.DataDir != "/tmp/revofoto-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Export.JPEGQuality != 80 {
		t.Errorf("JPEGQuality = %d, want 80", cfg.Export.JPEGQuality)
	}
	if cfg.Watermark.Enabled {
		t.Error("Watermark should be disabled by file")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset sections keep their defaults.
	if cfg.Storage.DatabaseFile != "revofoto.db" {
		t.Errorf("DatabaseFile = %q, want default", cfg.Storage.DatabaseFile)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("REVOFOTO_DATA_DIR", "/env/dir")
	t.Setenv("REVOFOTO_JPEG_QUALITY", "70")
	t.Setenv("REVOFOTO_WATERMARK_DISABLED", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.DataDir != "/env/dir" {
		t.Errorf("DataDir = %q, want /env/dir", cfg.DataDir)
	}
	if cfg.Export.JPEGQuality != 70 {
		t.Errorf("JPEGQuality = %d, want 70", cfg.Export.JPEGQuality)
	}
	if cfg.Watermark.Enabled {
		t.Error("Watermark should be disabled by env")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Export.JPEGQuality = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Quality 0 should fail validation")
	}

	cfg = Default()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Empty data dir should fail validation")
	}
}
