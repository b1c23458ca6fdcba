package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	PatternBlinker = "blinker"
	PatternBlock   = "block"
	PatternRandom  = "random"
)

// ErrInvalidConfig is returned by Validate for unusable settings
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the simulation
type Config struct {
	GridSize            int           `json:"grid_size"`
	MaxGridSize         int           `json:"max_grid_size"`
	TickInterval        time.Duration `json:"tick_interval"`
	MaxGenerations      int           `json:"max_generations"`
	Pattern             string        `json:"pattern"`
	RandomDensity       float64       `json:"random_density"`
	Seed                int64         `json:"seed"`
	UseMemoryPool       bool          `json:"use_memory_pool"`
	StopOnStagnation    bool          `json:"stop_on_stagnation"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	Render              bool          `json:"render"`
	Interactive         bool          `json:"interactive"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GridSize:            20,
		MaxGridSize:         200, // bounds terminal rendering cost
		TickInterval:        time.Second,
		MaxGenerations:      0,
		Pattern:             PatternBlinker,
		RandomDensity:       0.15,
		Seed:                1,
		UseMemoryPool:       true,
		StopOnStagnation:    true,
		StagnationThreshold: 5,
		Render:              true,
		Interactive:         false,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}
	return config, nil
}

// MinGridSize returns the smallest grid that holds a pattern seeded at the
// grid center. A blinker spans three columns, which a size 2 grid (0..2) holds.
func MinGridSize(pattern string) (int, bool) {
	switch pattern {
	case PatternBlinker:
		return 2, true
	case PatternBlock, PatternRandom:
		return 1, true
	default:
		return 0, false
	}
}

// ValidateGridSize checks a requested grid dimension against the configured cap
func (c Config) ValidateGridSize(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[ValidateGridSize] grid size must be positive, got %d", n)
	}
	if c.MaxGridSize > 0 && n > c.MaxGridSize {
		return errors.Wrapf(ErrInvalidConfig, "[ValidateGridSize] grid size %d exceeds limit %d", n, c.MaxGridSize)
	}
	return nil
}

// Validate checks the configuration for values the simulation cannot run with
func (c Config) Validate() error {
	if err := c.ValidateGridSize(c.GridSize); err != nil {
		return errors.WithMessage(err, "[Validate]")
	}
	if c.TickInterval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] tick interval must be positive, got %v", c.TickInterval)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max generations must not be negative, got %d", c.MaxGenerations)
	}
	minSize, ok := MinGridSize(c.Pattern)
	if !ok {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] unknown pattern %q", c.Pattern)
	}
	if c.GridSize < minSize {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] pattern %q needs grid size of at least %d, got %d",
			c.Pattern, minSize, c.GridSize)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random density must be within [0, 1], got %v", c.RandomDensity)
	}
	if c.StopOnStagnation && c.StagnationThreshold <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] stagnation threshold must be positive, got %d", c.StagnationThreshold)
	}
	return nil
}
