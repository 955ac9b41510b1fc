package grid

import "github.com/vovakirdan/wayhome/internal/core"

// Tile is one cell of the grid. Identity is its coordinate.
// Tiles only hold lookup references to their occupants; entities are owned
// by the scene.
type Tile struct {
	coord core.Coord
	world core.Vec

	kind         Kind
	base         Kind // static terrain restored when occupants leave
	platformKind Kind
	open         bool

	obstacle Occupant
	platform Occupant
}

// Coord returns the tile's grid coordinate.
func (t *Tile) Coord() core.Coord { return t.coord }

// World returns the world-space centre of the tile.
func (t *Tile) World() core.Vec { return t.world }

// Kind returns the current terrain kind.
func (t *Tile) Kind() Kind { return t.kind }

// Base returns the static terrain kind the tile was built with.
func (t *Tile) Base() Kind { return t.base }

// Open reports the open/conductive flag.
func (t *Tile) Open() bool { return t.open }

// Obstacle returns the obstacle occupant, or nil.
func (t *Tile) Obstacle() Occupant { return t.obstacle }

// Platform returns the platform occupant, or nil.
func (t *Tile) Platform() Occupant { return t.platform }

// Empty reports whether both occupancy slots are free.
func (t *Tile) Empty() bool {
	return t.obstacle == nil && t.platform == nil
}

// Holds reports whether either slot holds an occupant of the given kind.
func (t *Tile) Holds(kind string) bool {
	if t.obstacle != nil && t.obstacle.Kind() == kind {
		return true
	}
	return t.platform != nil && t.platform.Kind() == kind
}
