// Package config provides YAML-based game configuration loading and
// difficulty presets.
package config

// Config contains all game configuration.
type Config struct {
	Sim     SimConfig      `yaml:"sim"`
	Actor   ActorConfig    `yaml:"actor"`
	Tools   ToolsConfig    `yaml:"tools"`
	Clips   map[string]int `yaml:"clips"` // clip name -> length in ticks
	Session SessionConfig  `yaml:"session"`
	Storage StorageConfig  `yaml:"storage"`
	Log     LogConfig      `yaml:"log"`
}

// SimConfig defines the simulation clock and movement speeds.
type SimConfig struct {
	TickRate    int     `yaml:"tick_rate"`    // ticks per second
	CellSize    float64 `yaml:"cell_size"`    // world units per tile
	ActorSpeed  float64 `yaml:"actor_speed"`  // world units per tick
	EntitySpeed float64 `yaml:"entity_speed"` // world units per tick
}

// ActorConfig defines the character's energy economy.
type ActorConfig struct {
	StepCost        int `yaml:"step_cost"`        // energy per tile entered
	ScoreMultiplier int `yaml:"score_multiplier"` // score = energy * multiplier
}

// ToolsConfig defines tool strength.
type ToolsConfig struct {
	LightningPower int `yaml:"lightning_power"`
	TremorSize     int `yaml:"tremor_size"` // side of the square shaken
}

// SessionConfig defines what a player gets per level attempt.
type SessionConfig struct {
	Lives     int `yaml:"lives"`
	MoveBonus int `yaml:"move_bonus"` // added to every level's move budget
}

// StorageConfig locates the database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig sets the log level name.
type LogConfig struct {
	Level string `yaml:"level"`
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Sim.TickRate <= 0 {
		c.Sim.TickRate = def.Sim.TickRate
	}
	if c.Sim.CellSize <= 0 {
		c.Sim.CellSize = def.Sim.CellSize
	}
	if c.Actor.StepCost <= 0 {
		c.Actor.StepCost = def.Actor.StepCost
	}
	if c.Actor.ScoreMultiplier <= 0 {
		c.Actor.ScoreMultiplier = def.Actor.ScoreMultiplier
	}
	if c.Tools.LightningPower <= 0 {
		c.Tools.LightningPower = def.Tools.LightningPower
	}
	if c.Tools.TremorSize <= 0 {
		c.Tools.TremorSize = def.Tools.TremorSize
	}
	if c.Session.Lives <= 0 {
		c.Session.Lives = def.Session.Lives
	}
	if c.Clips == nil {
		c.Clips = map[string]int{}
	}
	for name, n := range def.Clips {
		if _, ok := c.Clips[name]; !ok {
			c.Clips[name] = n
		}
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = def.Storage.DBPath
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
