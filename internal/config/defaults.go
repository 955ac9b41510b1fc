package config

import (
	_ "embed"
)

//go:embed defaults/wayhome.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Sim: SimConfig{
			TickRate:    30,
			CellSize:    1,
			ActorSpeed:  0.25, // four ticks per tile
			EntitySpeed: 0.25,
		},
		Actor: ActorConfig{
			StepCost:        1,
			ScoreMultiplier: 10,
		},
		Tools: ToolsConfig{
			LightningPower: 2,
			TremorSize:     2,
		},
		Clips: map[string]int{
			"death":   12,
			"destroy": 9,
			"fall":    15,
			"revive":  6,
		},
		Session: SessionConfig{
			Lives: 3,
		},
		Storage: StorageConfig{
			DBPath: "~/.wayhome/wayhome.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
