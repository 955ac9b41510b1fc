// Package level provides level definitions and loading. Levels are YAML
// files; a default set is embedded in the binary.
package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// ErrNotFound is returned when no level has the requested id.
var ErrNotFound = errors.New("level: not found")

// Essence is a goal the actor must collect.
type Essence struct {
	ID      string
	At      core.Coord
	Restore int // energy restored on pickup
}

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	Width    int
	Height   int
	Terrain  map[core.Coord]grid.Kind
	Start    core.Coord
	Home     *core.Coord
	Moves    int
	Energy   int
	Required int // essences needed; 0 means all
	Essences []Essence
	Entities []entity.Spec
	Metadata map[string]string
	FilePath string
}

// Validate checks the level geometry and ids.
func (l *Level) Validate() error {
	if l.ID == "" {
		return errors.New("level: missing id")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level %s: bad size %dx%d", l.ID, l.Width, l.Height)
	}
	in := func(c core.Coord) bool {
		return c.X >= 0 && c.Y >= 0 && c.X < l.Width && c.Y < l.Height
	}
	walkable := func(c core.Coord) bool {
		_, special := l.Terrain[c]
		return in(c) && !special
	}
	if !walkable(l.Start) {
		return fmt.Errorf("level %s: start %s is not a walkable tile", l.ID, l.Start)
	}
	if l.Home != nil && !walkable(*l.Home) {
		return fmt.Errorf("level %s: home %s is not a walkable tile", l.ID, *l.Home)
	}
	if l.Energy <= 0 {
		return fmt.Errorf("level %s: energy must be positive", l.ID)
	}
	if l.Moves < 0 {
		return fmt.Errorf("level %s: negative moves", l.ID)
	}
	if len(l.Essences) == 0 && l.Home == nil {
		return fmt.Errorf("level %s: no essences and no home", l.ID)
	}
	if l.Required > len(l.Essences) {
		return fmt.Errorf("level %s: requires %d of %d essences", l.ID, l.Required, len(l.Essences))
	}

	ids := make(map[string]bool)
	for _, e := range l.Essences {
		if ids[e.ID] {
			return fmt.Errorf("level %s: duplicate id %q", l.ID, e.ID)
		}
		ids[e.ID] = true
		if !walkable(e.At) {
			return fmt.Errorf("level %s: essence %s at %s is not on a walkable tile", l.ID, e.ID, e.At)
		}
	}
	for _, s := range l.Entities {
		if ids[s.ID] {
			return fmt.Errorf("level %s: duplicate id %q", l.ID, s.ID)
		}
		ids[s.ID] = true
		if !in(s.At) {
			return fmt.Errorf("level %s: %s at %s is out of bounds", l.ID, s.ID, s.At)
		}
	}
	return nil
}

// Grid builds the static terrain of the level. cellSize is the world size
// of one tile.
func (l *Level) Grid(cellSize float64) (*grid.Grid, error) {
	g := grid.NewWithLayout(l.Width, l.Height, core.V(0, 0), cellSize)
	for _, t := range g.Tiles() {
		k, ok := l.Terrain[t.Coord()]
		if !ok {
			continue
		}
		if err := g.SetTerrain(t.Coord(), k); err != nil {
			return nil, fmt.Errorf("level %s: %w", l.ID, err)
		}
	}
	return g, nil
}

// Specs returns copies of the entity specs, safe to modify.
func (l *Level) Specs() []entity.Spec {
	out := make([]entity.Spec, len(l.Entities))
	for i, s := range l.Entities {
		out[i] = s
		if s.Params != nil {
			out[i].Params = make(map[string]any, len(s.Params))
			for k, v := range s.Params {
				out[i].Params[k] = v
			}
		}
	}
	return out
}

// Spec returns the entity spec with the given id.
func (l *Level) Spec(id string) (entity.Spec, bool) {
	for _, s := range l.Specs() {
		if s.ID == id {
			return s, true
		}
	}
	return entity.Spec{}, false
}
