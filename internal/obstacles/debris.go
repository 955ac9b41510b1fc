package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

func init() {
	registry.Register(KindLog, "Log", func(spec entity.Spec, w *entity.World) (entity.Entity, error) {
		l := &Log{}
		l.single = newSingle(l, spec, w, grid.Burnable|grid.Meltable|grid.Fragile|grid.Trampleable|grid.Corrosive)
		return l, nil
	})
	registry.Register(KindWeb, "Web", func(spec entity.Spec, w *entity.World) (entity.Entity, error) {
		wb := &Web{}
		wb.single = newSingle(wb, spec, w, grid.Burnable|grid.Meltable|grid.Fragile|grid.Trampleable)
		return wb, nil
	})
	registry.Register(KindRock, "Rock", func(spec entity.Spec, w *entity.World) (entity.Entity, error) {
		r := &Rock{}
		r.single = newSingle(r, spec, w, 0)
		return r, nil
	})
	registry.Register(KindGroundSpike, "Ground Spike", func(spec entity.Spec, w *entity.World) (entity.Entity, error) {
		s := &GroundSpike{}
		s.single = newSingle(s, spec, w, grid.Meltable)
		return s, nil
	})
}

// single is a one-hitpoint obstacle: it is either there or gone.
type single struct {
	entity.Base
	traits grid.Trait
}

func newSingle(self entity.Entity, spec entity.Spec, w *entity.World, traits grid.Trait) single {
	spec.HP = 1
	return single{Base: entity.NewBase(self, spec, w, false), traits: traits}
}

// Init places the obstacle.
func (s *single) Init() error { return s.Place(grid.Obstacle) }

// Restore keeps the obstacle at 1 or removes it at 0.
func (s *single) Restore(hp int) error {
	switch hp {
	case 0:
		s.Remove()
		return nil
	case 1:
		if s.Removed() {
			s.Revive(1)
			return s.Init()
		}
		return nil
	}
	return entity.ErrInvalidHitpoints
}

// Traits implements grid.Traited.
func (s *single) Traits() grid.Trait { return s.traits }

// Log is dropped by a falling tree.
type Log struct{ single }

// OnLightningHit burns the log away.
func (l *Log) OnLightningHit(int) { l.Remove() }

// SelectableBy implements grid.Selectable.
func (l *Log) SelectableBy(tool grid.Tool) bool { return accepts(tool, grid.ToolLightning) }

// Web blocks a tile until burnt or trampled.
type Web struct{ single }

// OnLightningHit burns the web away.
func (wb *Web) OnLightningHit(int) { wb.Remove() }

// SelectableBy implements grid.Selectable.
func (wb *Web) SelectableBy(tool grid.Tool) bool { return accepts(tool, grid.ToolLightning) }

// Rock is inert. A bare rock crab eats it to regrow its shell.
type Rock struct{ single }

// GroundSpike is shaken loose by a tremor. It kills a bare crab walking
// over it; a shelled crab stopping on it crushes it.
type GroundSpike struct{ single }

// OnTremor removes the spike.
func (s *GroundSpike) OnTremor() { s.Remove() }

// SelectableBy implements grid.Selectable.
func (s *GroundSpike) SelectableBy(tool grid.Tool) bool { return accepts(tool, grid.ToolTremor) }
