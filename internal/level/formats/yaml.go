// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     YAMLSize          `yaml:"size"`
	Map      []string          `yaml:"map"`
	Start    YAMLPoint         `yaml:"start"`
	Home     *YAMLPoint        `yaml:"home,omitempty"`
	Moves    int               `yaml:"moves"`
	Energy   int               `yaml:"energy"`
	Required int               `yaml:"required,omitempty"`
	Essences []YAMLEssence     `yaml:"essences"`
	Entities []YAMLEntity      `yaml:"entities"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPoint is a tile coordinate.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLEssence is a collectible goal.
type YAMLEssence struct {
	ID      string `yaml:"id"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Restore int    `yaml:"restore"`
}

// YAMLEntity places one obstacle or creature.
type YAMLEntity struct {
	ID     string         `yaml:"id"`
	Kind   string         `yaml:"kind"`
	X      int            `yaml:"x"`
	Y      int            `yaml:"y"`
	HP     int            `yaml:"hp,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Essence is a parsed goal.
type Essence struct {
	ID      string
	At      core.Coord
	Restore int
}

// Entity is a parsed entity placement.
type Entity struct {
	ID     string
	Kind   string
	At     core.Coord
	HP     int
	Params map[string]any
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Width    int
	Height   int
	Terrain  map[core.Coord]grid.Kind // tiles that are not plain walkable
	Start    core.Coord
	Home     *core.Coord
	Moves    int
	Energy   int
	Required int
	Essences []Essence
	Entities []Entity
	Metadata map[string]string
}

// Map glyphs.
const (
	GlyphWalkable = '.'
	GlyphWater    = '~'
	GlyphTerrain  = '#'
)

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Width:    yl.Size.W,
		Height:   yl.Size.H,
		Terrain:  make(map[core.Coord]grid.Kind),
		Start:    core.C(yl.Start.X, yl.Start.Y),
		Moves:    yl.Moves,
		Energy:   yl.Energy,
		Required: yl.Required,
		Metadata: yl.Metadata,
	}
	if level.Name == "" {
		level.Name = level.ID
	}
	if yl.Home != nil {
		home := core.C(yl.Home.X, yl.Home.Y)
		level.Home = &home
	}

	if len(yl.Map) > 0 && len(yl.Map) != level.Height {
		return Level{}, fmt.Errorf("map has %d rows, size says %d", len(yl.Map), level.Height)
	}
	for y, row := range yl.Map {
		runes := []rune(row)
		if len(runes) != level.Width {
			return Level{}, fmt.Errorf("map row %d has %d tiles, size says %d", y, len(runes), level.Width)
		}
		for x, r := range runes {
			switch r {
			case GlyphWalkable:
			case GlyphWater:
				level.Terrain[core.C(x, y)] = grid.Water
			case GlyphTerrain:
				level.Terrain[core.C(x, y)] = grid.Terrain
			default:
				return Level{}, fmt.Errorf("map row %d: unknown glyph %q", y, r)
			}
		}
	}

	for i, e := range yl.Essences {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("essence-%d", i+1)
		}
		level.Essences = append(level.Essences, Essence{ID: id, At: core.C(e.X, e.Y), Restore: e.Restore})
	}

	for i, e := range yl.Entities {
		if e.Kind == "" {
			return Level{}, fmt.Errorf("entity %d has no kind", i)
		}
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", e.Kind, i+1)
		}
		level.Entities = append(level.Entities, Entity{
			ID:     id,
			Kind:   e.Kind,
			At:     core.C(e.X, e.Y),
			HP:     e.HP,
			Params: e.Params,
		})
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
