package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const blockfallFile = "blockfall.yaml"

// LoadBlockfall loads blockfall configuration. Values missing from the file
// keep their defaults.
// Search order: customPath -> ~/.blockfall/configs/blockfall.yaml -> ./configs/blockfall.yaml -> embedded default
func LoadBlockfall(customPath string) (BlockfallConfig, error) {
	cfg := DefaultBlockfallConfig()

	// Try custom path first; unlike the search path it must exist and parse.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decodeStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(blockfallFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if loaded, ok := tryDecode(data); ok {
				return loaded, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", blockfallFile)); err == nil {
		if loaded, ok := tryDecode(data); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if loaded, ok := tryDecode(defaultBlockfallYAML); ok {
		return loaded, nil
	}
	return DefaultBlockfallConfig(), nil // Fallback to hardcoded if embed fails
}

// tryDecode decodes data over the defaults, reporting failure instead of an error.
func tryDecode(data []byte) (BlockfallConfig, bool) {
	cfg := DefaultBlockfallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// decodeStrict decodes YAML rejecting unknown keys, so typos in a file the
// user named explicitly are reported.
func decodeStrict(data []byte, cfg *BlockfallConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockfall", "configs", filename)
}

// LoadAndValidate loads the configuration, applies the preset and validates it.
func LoadAndValidate(customPath string, preset Preset) (BlockfallConfig, error) {
	cfg, err := LoadBlockfall(customPath)
	if err != nil {
		return cfg, err
	}
	ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
