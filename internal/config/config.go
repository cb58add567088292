// Package config provides YAML-based game configuration loading for the
// sandfall platform.
package config

// SandfallConfig contains all tunable settings for a game session. The CLI
// overrides individual fields from flags; the game reads the merged result.
type SandfallConfig struct {
	Board  BoardConfig  `yaml:"board"`
	Rules  RulesConfig  `yaml:"rules"`
	Input  InputConfig  `yaml:"input"`
	Visual VisualConfig `yaml:"visual"`
}

// BoardConfig defines the playfield size in block-cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RulesConfig defines mode parameters and pacing.
type RulesConfig struct {
	Difficulty    string `yaml:"difficulty"`      // easy, medium, hard
	TimeLimitSecs int    `yaml:"time_limit_secs"` // timed mode
	ClearLines    int    `yaml:"clear_lines"`     // clear mode target
	InitialLevel  int    `yaml:"initial_level"`
	SpawnDelayMs  int    `yaml:"spawn_delay_ms"` // piece inert after spawn
	Relaxed       bool   `yaml:"relaxed"`        // no speed-up per level
	HighColor     bool   `yaml:"high_color"`     // six sand colors instead of four
}

// InputConfig defines held-key auto-shift timing.
type InputConfig struct {
	RepeatDelayMs    int `yaml:"repeat_delay_ms"`
	RepeatIntervalMs int `yaml:"repeat_interval_ms"`
}

// VisualConfig defines presentation options.
type VisualConfig struct {
	Palette     string `yaml:"palette"` // normal, high-contrast, colorblind
	NoAnimation bool   `yaml:"no_animation"`
}

// Palette names accepted in VisualConfig and on the CLI.
const (
	PaletteNormal       = "normal"
	PaletteHighContrast = "high-contrast"
	PaletteColorblind   = "colorblind"
)

// ValidPalette reports whether the name is a known palette.
func ValidPalette(name string) bool {
	switch name {
	case PaletteNormal, PaletteHighContrast, PaletteColorblind:
		return true
	}
	return false
}
