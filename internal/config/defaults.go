package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the default configuration.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Field: FieldConfig{
			Rows: 20,
			Cols: 10,
		},
		Gravity: GravityConfig{
			IntervalMS: 500,
		},
		Scoring: ScoringConfig{
			LineBonus: 100,
		},
		Palette: []string{"red", "green", "blue", "yellow", "magenta", "cyan", "orange"},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBlockfallYAML
}
