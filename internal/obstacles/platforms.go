package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

func init() {
	registry.Register(KindFireField, "Fire Field", NewFireField)
	registry.Register(KindLilypad, "Lilypad", NewLilypad)
}

// platform is a one-hitpoint occupant of the platform slot.
type platform struct {
	entity.Base
	kind grid.Kind
}

func newPlatform(self entity.Entity, spec entity.Spec, w *entity.World, kind grid.Kind) platform {
	spec.HP = 1
	return platform{Base: entity.NewBase(self, spec, w, true), kind: kind}
}

// Init places the platform.
func (p *platform) Init() error { return p.Place(p.kind) }

// Restore keeps the platform at 1 or removes it at 0.
func (p *platform) Restore(hp int) error {
	switch hp {
	case 0:
		p.Remove()
		return nil
	case 1:
		if p.Removed() {
			p.Revive(1)
			return p.Init()
		}
		return nil
	}
	return entity.ErrInvalidHitpoints
}

// FireField burns whatever stands on it. Crabs and undead walking into it
// die; the actor is unharmed.
type FireField struct{ platform }

// NewFireField builds a fire field.
func NewFireField(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	f := &FireField{}
	f.platform = newPlatform(f, spec, w, grid.Walkable)
	return f, nil
}

// Init burns a burnable obstacle on the tile, then places the field.
func (f *FireField) Init() error {
	if t := f.Tile(); t != nil && grid.HasTrait(t.Obstacle(), grid.Burnable) {
		destroy(t.Obstacle())
	}
	return f.platform.Init()
}

// Lilypad makes a water tile walkable. Growing an empty water tile spawns
// one.
type Lilypad struct{ platform }

// NewLilypad builds a lilypad.
func NewLilypad(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	l := &Lilypad{}
	l.platform = newPlatform(l, spec, w, grid.Walkable)
	return l, nil
}

// Traits implements grid.Traited.
func (l *Lilypad) Traits() grid.Trait { return grid.Burnable | grid.Corrosive }

// OnLightningHit burns the lilypad.
func (l *Lilypad) OnLightningHit(int) { l.Remove() }

// SelectableBy implements grid.Selectable.
func (l *Lilypad) SelectableBy(tool grid.Tool) bool { return accepts(tool, grid.ToolLightning) }

// hazardous reports whether t holds a platform that kills walking
// creatures.
func hazardous(t *grid.Tile) bool {
	switch t.Platform().(type) {
	case *FireField, *Miasma:
		return true
	}
	return false
}
