package entity

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// Quarry is the actor as mobile entities see it.
type Quarry interface {
	Coord() core.Coord
	Alive() bool
	Kill()
}

// SpawnFunc builds, places and registers a new entity. An empty spec ID
// asks the spawner to assign one.
type SpawnFunc func(spec Spec) (Entity, error)

// World bundles the scene services entities use.
type World struct {
	Grid   *grid.Grid
	Log    *log.Logger
	Quarry Quarry
	// Speed is how far a moving entity travels per tick, in world units.
	// Zero or less moves one tile per tick.
	Speed float64
	// Clips maps animation clip names to their length in ticks.
	Clips map[string]int

	spawn    SpawnFunc
	onRemove []func(grid.Occupant)
}

// NewWorld creates a World over g. A nil logger discards output.
func NewWorld(g *grid.Grid, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &World{
		Grid:  g,
		Log:   logger,
		Clips: map[string]int{},
	}
}

// SetSpawner installs the function used by Spawn.
func (w *World) SetSpawner(f SpawnFunc) {
	w.spawn = f
}

// Spawn creates a new entity at runtime.
func (w *World) Spawn(spec Spec) (Entity, error) {
	if w.spawn == nil {
		return nil, fmt.Errorf("entity: no spawner bound for %s", spec.Kind)
	}
	return w.spawn(spec)
}

// OnRemove registers a hook run whenever an entity is removed.
func (w *World) OnRemove(f func(grid.Occupant)) {
	w.onRemove = append(w.onRemove, f)
}

func (w *World) removed(o grid.Occupant) {
	w.Log.Debug("entity removed", "id", o.ID(), "kind", o.Kind())
	for _, f := range w.onRemove {
		f(o)
	}
}

// NewPlayer returns an animation player backed by the clip table.
func (w *World) NewPlayer() AnimationPlayer {
	return &ClipPlayer{lengths: w.Clips}
}

// QuarryAt reports whether the living actor stands on c.
func (w *World) QuarryAt(c core.Coord) bool {
	return w.Quarry != nil && w.Quarry.Alive() && w.Quarry.Coord() == c
}
