// Package obstacles implements the concrete tile occupants of a level and
// their state machines. Every kind registers a factory with the registry in
// init(); importing the package for side effects makes them buildable.
package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// Kind names as they appear in level files and saves.
const (
	KindPlant       = "plant"
	KindPoisonPlant = "poison_plant"
	KindMiasma      = "miasma"
	KindBoulder     = "boulder"
	KindTree        = "tree"
	KindLog         = "log"
	KindWeb         = "web"
	KindRock        = "rock"
	KindGroundSpike = "ground_spike"
	KindFireField   = "fire_field"
	KindLilypad     = "lilypad"
	KindRockCrab    = "rock_crab"
	KindUndead      = "undead"
)

// destroy removes o when it is an entity.
func destroy(o grid.Occupant) {
	if e, ok := o.(entity.Entity); ok {
		e.Remove()
	}
}

// accepts reports whether tool is one of the listed tools. Inspect is
// accepted by every kind.
func accepts(tool grid.Tool, tools ...grid.Tool) bool {
	if tool == grid.ToolInspect {
		return true
	}
	for _, t := range tools {
		if t == tool {
			return true
		}
	}
	return false
}

// removeAt0 handles the shared hp 0 case of Restore.
func removeAt0(e entity.Entity, hp int) (bool, error) {
	if hp < 0 {
		return true, entity.ErrInvalidHitpoints
	}
	if hp == 0 {
		e.Remove()
		return true, nil
	}
	return false, nil
}
