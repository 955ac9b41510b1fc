package pathfind

import (
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// Rule is the walkability predicate of one mover.
type Rule struct {
	// Kinds lists the accepted terrain kinds. Empty means Walkable only.
	Kinds []grid.Kind
	// Exempt lists occupant kinds whose tiles are passable whatever the
	// tile kind (a crab walking onto a rock).
	Exempt []string
	// Phase ignores obstacle occupancy: an Obstacle tile is judged by its
	// static terrain instead.
	Phase bool
	// Within restricts the search to a sub-grid. Nil means the whole grid.
	Within map[core.Coord]*grid.Tile
}

// Walkers is the default rule: plain walkable ground.
var Walkers = Rule{Kinds: []grid.Kind{grid.Walkable}}

// Passable reports whether a mover under r may enter t.
func (r Rule) Passable(t *grid.Tile) bool {
	if t == nil {
		return false
	}
	if r.Within != nil {
		if _, ok := r.Within[t.Coord()]; !ok {
			return false
		}
	}
	for _, kind := range r.Exempt {
		if o := t.Obstacle(); o != nil && o.Kind() == kind {
			return true
		}
	}
	if r.Phase && t.Kind() == grid.Obstacle {
		return r.accepts(t.Base())
	}
	return r.accepts(t.Kind())
}

func (r Rule) accepts(k grid.Kind) bool {
	if len(r.Kinds) == 0 {
		return k == grid.Walkable
	}
	for _, a := range r.Kinds {
		if a == k {
			return true
		}
	}
	return false
}
