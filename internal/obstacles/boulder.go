package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

func init() {
	registry.Register(KindBoulder, "Boulder", NewBoulder)
}

// Boulder blocks its tile until worn down by tremors or lightning. The
// last hit plays the destroy clip and the tile stays blocked until it ends.
type Boulder struct {
	entity.Base
	crumble entity.Delay
}

// NewBoulder builds a boulder. The default is 4 hitpoints.
func NewBoulder(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = 4
	}
	if spec.HP < 0 {
		return nil, entity.ErrInvalidHitpoints
	}
	b := &Boulder{}
	b.Base = entity.NewBase(b, spec, w, false)
	return b, nil
}

// Init places the boulder.
func (b *Boulder) Init() error { return b.Place(grid.Obstacle) }

// Restore sets the remaining hitpoints.
func (b *Boulder) Restore(hp int) error {
	if done, err := removeAt0(b, hp); done {
		return err
	}
	b.crumble.Cancel()
	if b.Removed() {
		b.Revive(hp)
		return b.Init()
	}
	b.SetHitpoints(hp)
	return nil
}

// SelectableBy implements grid.Selectable.
func (b *Boulder) SelectableBy(tool grid.Tool) bool {
	return b.Hitpoints() > 0 && accepts(tool, grid.ToolTremor, grid.ToolLightning)
}

// OnTremor chips the boulder.
func (b *Boulder) OnTremor() { b.hit() }

// OnLightningHit chips the boulder. Power does not matter to stone.
func (b *Boulder) OnLightningHit(int) { b.hit() }

func (b *Boulder) hit() {
	if b.Hitpoints() <= 0 {
		return
	}
	b.SetHitpoints(b.Hitpoints() - 1)
	if b.Hitpoints() > 0 {
		return
	}
	b.Anim().Play(entity.ClipDestroy)
	b.crumble.Start(b.Anim().CurrentClipLength())
}

// BeginTurn implements grid.TurnReactive. The crumble started by the tool
// is the whole reaction.
func (b *Boulder) BeginTurn() {}

// Advance runs the destroy clip down and clears the tile when it ends.
func (b *Boulder) Advance() {
	if b.crumble.Tick() {
		b.Remove()
	}
}

// Reacting reports whether the boulder is still crumbling.
func (b *Boulder) Reacting() bool { return b.crumble.Active() }
