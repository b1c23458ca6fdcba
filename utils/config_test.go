package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{"grid_size": 40, "tick_interval": 250000000, "pattern": "block"}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GridSize != 40 {
		t.Fatalf("grid size = %d, want 40", cfg.GridSize)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Fatalf("tick interval = %v, want 250ms", cfg.TickInterval)
	}
	if cfg.Pattern != PatternBlock {
		t.Fatalf("pattern = %q, want block", cfg.Pattern)
	}
	if cfg.MaxGridSize != DefaultConfig().MaxGridSize {
		t.Fatalf("unset field lost its default: %d", cfg.MaxGridSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("err = %v, want not-exist cause", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("missing file did not fall back to defaults")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, `{"grid_size": `)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid", func(c *Config) { c.GridSize = 0 }},
		{"grid over limit", func(c *Config) { c.GridSize = c.MaxGridSize + 1 }},
		{"zero interval", func(c *Config) { c.TickInterval = 0 }},
		{"negative generations", func(c *Config) { c.MaxGenerations = -1 }},
		{"unknown pattern", func(c *Config) { c.Pattern = "glider" }},
		{"density above one", func(c *Config) { c.RandomDensity = 1.5 }},
		{"zero stagnation threshold", func(c *Config) { c.StagnationThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); errors.Cause(err) != ErrInvalidConfig {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateGridSizeWithoutCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxGridSize = 0
	if err := cfg.ValidateGridSize(5000); err != nil {
		t.Fatalf("uncapped size rejected: %v", err)
	}
}

func TestValidateSmallestGridPerPattern(t *testing.T) {
	for _, pattern := range []string{PatternBlinker, PatternBlock, PatternRandom} {
		t.Run(pattern, func(t *testing.T) {
			minSize, ok := MinGridSize(pattern)
			if !ok {
				t.Fatalf("MinGridSize(%q) unknown", pattern)
			}

			cfg := DefaultConfig()
			cfg.Pattern = pattern
			cfg.GridSize = minSize
			if err := cfg.Validate(); err != nil {
				t.Fatalf("size %d rejected: %v", minSize, err)
			}

			cfg.GridSize = minSize - 1
			if err := cfg.Validate(); errors.Cause(err) != ErrInvalidConfig {
				t.Fatalf("size %d err = %v, want ErrInvalidConfig", cfg.GridSize, err)
			}
		})
	}
}

func TestBlinkerRejectsSizeOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pattern = PatternBlinker
	cfg.GridSize = 1
	if err := cfg.Validate(); errors.Cause(err) != ErrInvalidConfig {
		t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
	}
}
