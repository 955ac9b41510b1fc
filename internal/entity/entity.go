// Package entity holds what every tile occupant shares: identity,
// hitpoints, placement on the grid and removal, plus the scene services an
// entity may call (spawning, animation, the actor it hunts).
package entity

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// ErrInvalidHitpoints is returned when restoring an entity into a
// hitpoint value its kind cannot be in.
var ErrInvalidHitpoints = errors.New("entity: invalid hitpoints")

// Entity is a scene object that occupies one tile slot.
type Entity interface {
	grid.Occupant
	Coord() core.Coord
	Hitpoints() int
	// Init places a freshly built entity on the grid.
	Init() error
	// Restore puts the entity directly into the state encoded by hp.
	// hp 0 removes it.
	Restore(hp int) error
	Removed() bool
	// Remove takes the entity off the grid for good.
	Remove()
}

// Spec describes an entity to build.
type Spec struct {
	ID     string
	Kind   string
	At     core.Coord
	HP     int // 0 selects the kind's default
	Params map[string]any
}

// Int returns an integer parameter or def. Any numeric type is accepted;
// decoders hand back the narrowest one that fits the value.
func (s Spec) Int(name string, def int) int {
	switch v := s.Params[name].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns a boolean parameter or def.
func (s Spec) Bool(name string, def bool) bool {
	if v, ok := s.Params[name].(bool); ok {
		return v
	}
	return def
}

// Base implements the bookkeeping part of Entity. Concrete kinds embed it
// and pass themselves as self so the grid stores the outer value.
type Base struct {
	self     grid.Occupant
	world    *World
	id       string
	kind     string
	hp       int
	coord    core.Coord
	platform bool
	removed  bool
	anim     AnimationPlayer
}

// NewBase initialises the shared part of an entity.
func NewBase(self grid.Occupant, spec Spec, w *World, platform bool) Base {
	return Base{
		self:     self,
		world:    w,
		id:       spec.ID,
		kind:     spec.Kind,
		hp:       spec.HP,
		coord:    spec.At,
		platform: platform,
		anim:     w.NewPlayer(),
	}
}

// ID returns the stable identifier.
func (b *Base) ID() string { return b.id }

// Kind returns the registry kind name.
func (b *Base) Kind() string { return b.kind }

// Hitpoints returns the current hitpoints.
func (b *Base) Hitpoints() int { return b.hp }

// Coord returns the tile coordinate the entity occupies.
func (b *Base) Coord() core.Coord { return b.coord }

// Removed reports whether the entity left the scene.
func (b *Base) Removed() bool { return b.removed }

// World returns the scene services.
func (b *Base) World() *World { return b.world }

// Anim returns the entity's animation player.
func (b *Base) Anim() AnimationPlayer { return b.anim }

// Tile returns the occupied tile.
func (b *Base) Tile() *grid.Tile {
	t, _ := b.world.Grid.Tile(b.coord)
	return t
}

// SetHitpoints stores hp without side effects.
func (b *Base) SetHitpoints(hp int) { b.hp = hp }

// OnInspect describes the entity.
func (b *Base) OnInspect() string {
	return fmt.Sprintf("%s %s at %s, hp %d", b.kind, b.id, b.coord, b.hp)
}

// Place registers the entity in its slot with the given tile kind.
func (b *Base) Place(kind grid.Kind) error {
	t := b.Tile()
	if t == nil {
		return fmt.Errorf("entity: %s at %s is out of bounds", b.id, b.coord)
	}
	if b.platform {
		if t.Platform() != nil && t.Platform() != b.self {
			return fmt.Errorf("entity: %s: platform slot at %s taken by %s", b.id, b.coord, t.Platform().ID())
		}
	} else if t.Obstacle() != nil && t.Obstacle() != b.self {
		return fmt.Errorf("entity: %s: obstacle slot at %s taken by %s", b.id, b.coord, t.Obstacle().ID())
	}
	b.world.Grid.SetOccupant(t, b.self, kind, b.platform)
	return nil
}

// SetCoord records the tile a mover is passing without claiming it.
func (b *Base) SetCoord(c core.Coord) { b.coord = c }

// SetTileKind changes the kind of the occupied tile in place.
func (b *Base) SetTileKind(kind grid.Kind) {
	t := b.Tile()
	if t == nil || t.Obstacle() != b.self {
		return
	}
	b.world.Grid.SetKind(t, kind)
}

// MoveTo moves an obstacle entity to t, releasing its previous tile.
func (b *Base) MoveTo(t *grid.Tile, kind grid.Kind) {
	if old := b.Tile(); old != nil {
		b.world.Grid.Release(old, b.self)
	}
	b.coord = t.Coord()
	b.world.Grid.SetOccupant(t, b.self, kind, b.platform)
}

// Vacate releases the tile without removing the entity. Movers that pass
// through occupied tiles use it.
func (b *Base) Vacate() {
	if t := b.Tile(); t != nil {
		b.world.Grid.Release(t, b.self)
	}
}

// Remove takes the entity off the grid and tells the scene.
func (b *Base) Remove() {
	if b.removed {
		return
	}
	b.removed = true
	b.hp = 0
	b.Vacate()
	b.world.removed(b.self)
}

// Revive puts a removed entity back in play. Restore uses it when a save
// brings an entity back to life.
func (b *Base) Revive(hp int) {
	b.removed = false
	b.hp = hp
}
