// Package config provides YAML-based configuration loading and presets for
// blockfall.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
)

// ErrInvalidConfig is returned by Validate for values the game cannot run on.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// BlockfallConfig contains all configuration for a blockfall game.
type BlockfallConfig struct {
	Field   FieldConfig   `yaml:"field"`
	Gravity GravityConfig `yaml:"gravity"`
	Scoring ScoringConfig `yaml:"scoring"`
	Palette []string      `yaml:"palette"`
}

// FieldConfig defines the playing field dimensions.
type FieldConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GravityConfig defines how often the active piece falls one row.
type GravityConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// ScoringConfig defines score awards.
type ScoringConfig struct {
	LineBonus int `yaml:"line_bonus"` // Points per cleared row
}

// Preset represents a named field layout.
type Preset string

const (
	PresetClassic Preset = "classic"
	PresetMini    Preset = "mini"
)

// ParsePreset validates a preset name. Empty means classic.
func ParsePreset(name string) (Preset, error) {
	switch Preset(name) {
	case "", PresetClassic:
		return PresetClassic, nil
	case PresetMini:
		return PresetMini, nil
	default:
		return "", fmt.Errorf("%w: unknown preset %q (want classic or mini)", ErrInvalidConfig, name)
	}
}

// ApplyPreset modifies the config for a preset. Classic keeps whatever was
// loaded; mini shrinks the field and speeds gravity up.
func ApplyPreset(cfg *BlockfallConfig, preset Preset) {
	if preset == PresetMini {
		cfg.Field.Rows = 14
		cfg.Field.Cols = 8
		cfg.Gravity.IntervalMS = 400
	}
}

// GravityInterval returns the gravity period.
func (c BlockfallConfig) GravityInterval() time.Duration {
	return time.Duration(c.Gravity.IntervalMS) * time.Millisecond
}

// Colors resolves the palette names.
func (c BlockfallConfig) Colors() ([]core.Color, error) {
	colors := make([]core.Color, 0, len(c.Palette))
	for _, name := range c.Palette {
		color, ok := core.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown palette color %q", ErrInvalidConfig, name)
		}
		if color == core.ColorDefault {
			return nil, fmt.Errorf("%w: palette color %q is reserved for empty cells", ErrInvalidConfig, name)
		}
		colors = append(colors, color)
	}
	return colors, nil
}

// Validate checks the values the game depends on. Shape fit is checked by the
// engine, which knows the catalog.
func (c BlockfallConfig) Validate() error {
	if c.Field.Rows <= 0 || c.Field.Cols <= 0 {
		return fmt.Errorf("%w: field.rows and field.cols must be positive, got %dx%d",
			ErrInvalidConfig, c.Field.Rows, c.Field.Cols)
	}
	if c.Gravity.IntervalMS <= 0 {
		return fmt.Errorf("%w: gravity.interval_ms must be positive, got %d", ErrInvalidConfig, c.Gravity.IntervalMS)
	}
	if c.Scoring.LineBonus < 0 {
		return fmt.Errorf("%w: scoring.line_bonus must not be negative, got %d", ErrInvalidConfig, c.Scoring.LineBonus)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}
