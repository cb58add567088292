package config

import (
	_ "embed"
)

//go:embed defaults/sandfall.yaml
var defaultSandfallYAML []byte

// DefaultSandfallConfig returns the built-in configuration, used when the
// embedded YAML is unreadable.
func DefaultSandfallConfig() SandfallConfig {
	return SandfallConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 24,
		},
		Rules: RulesConfig{
			Difficulty:    "easy",
			TimeLimitSecs: 180,
			ClearLines:    40,
			InitialLevel:  1,
			SpawnDelayMs:  0,
		},
		Input: InputConfig{
			RepeatDelayMs:    80,
			RepeatIntervalMs: 38,
		},
		Visual: VisualConfig{
			Palette: PaletteNormal,
		},
	}
}
