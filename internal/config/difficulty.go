package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets from easiest to hardest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset parses a preset name. An empty name is normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	name := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets() {
		if p == name {
			return p, nil
		}
	}
	return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q", s)
}

// LivesForPreset returns the lives a preset grants.
func LivesForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 1
	default:
		return 3
	}
}

// MoveBonusForPreset returns the extra tool uses a preset grants per level.
func MoveBonusForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 2
	default:
		return 0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.Session.Lives = LivesForPreset(preset)
	cfg.Session.MoveBonus = MoveBonusForPreset(preset)

	switch preset {
	case DifficultyHard:
		cfg.Tools.LightningPower = 1
	case DifficultyEasy:
		if cfg.Tools.LightningPower < 2 {
			cfg.Tools.LightningPower = 2
		}
	}
}
