package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

// Plant hitpoint states. 3 is never produced by any interaction; damage
// that would land on it settles on Harvested.
const (
	PlantDestroyed = 0
	PlantSeedling  = 1
	PlantHarvested = 2
	PlantAdult     = 4
)

// seedlingEnergy is what an actor gains by walking over a seedling.
const seedlingEnergy = 5

func init() {
	registry.Register(KindPlant, "Plant", NewPlant)
	registry.Register(KindPoisonPlant, "Poison Plant", NewPoisonPlant)
	registry.Register(KindMiasma, "Poison Miasma", NewMiasma)
}

// Plant grows from a walkable seedling into an adult that blocks its tile.
// Lightning harvests and then destroys an adult.
type Plant struct {
	entity.Base
}

// NewPlant builds a plant. The default state is Seedling.
func NewPlant(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = PlantSeedling
	}
	if !validPlant(spec.HP) {
		return nil, entity.ErrInvalidHitpoints
	}
	p := &Plant{}
	p.Base = entity.NewBase(p, spec, w, false)
	return p, nil
}

func validPlant(hp int) bool {
	switch hp {
	case PlantDestroyed, PlantSeedling, PlantHarvested, PlantAdult:
		return true
	}
	return false
}

// Adult reports whether the plant blocks its tile.
func (p *Plant) Adult() bool { return p.Hitpoints() > PlantSeedling }

func (p *Plant) tileKind() grid.Kind {
	if p.Adult() {
		return grid.Obstacle
	}
	return grid.Walkable
}

// Init places the plant.
func (p *Plant) Init() error { return p.Place(p.tileKind()) }

// Restore puts the plant into the given state.
func (p *Plant) Restore(hp int) error {
	if !validPlant(hp) {
		return entity.ErrInvalidHitpoints
	}
	if done, err := removeAt0(p, hp); done {
		return err
	}
	if p.Removed() {
		p.Revive(hp)
		return p.Init()
	}
	p.SetHitpoints(hp)
	p.SetTileKind(p.tileKind())
	return nil
}

// Traits implements grid.Traited.
func (p *Plant) Traits() grid.Trait { return grid.Burnable | grid.Meltable }

// SelectableBy implements grid.Selectable.
func (p *Plant) SelectableBy(tool grid.Tool) bool {
	if tool == grid.ToolGrow {
		return !p.Adult()
	}
	return accepts(tool, grid.ToolLightning)
}

// OnGrow turns a seedling or a harvested plant back into an adult.
func (p *Plant) OnGrow() {
	if p.Hitpoints() == PlantAdult {
		return
	}
	p.SetHitpoints(PlantAdult)
	p.SetTileKind(grid.Obstacle)
}

// OnLightningHit damages an adult by power and a seedling by one.
func (p *Plant) OnLightningHit(power int) {
	if p.Adult() {
		p.Damage(power)
		return
	}
	p.Damage(1)
}

// OnTrapTrigger feeds the trespasser and tramples the seedling.
func (p *Plant) OnTrapTrigger(t grid.Trespasser) {
	if p.Adult() {
		return
	}
	t.AdjustEnergy(seedlingEnergy)
	p.Damage(1)
}

// Damage lowers hitpoints and settles on the nearest state below.
func (p *Plant) Damage(n int) {
	if p.Removed() {
		return
	}
	hp := p.Hitpoints() - n
	switch {
	case hp <= PlantDestroyed:
		p.Remove()
		return
	case hp > PlantHarvested && hp < PlantAdult:
		hp = PlantHarvested
	}
	p.SetHitpoints(hp)
	p.SetTileKind(p.tileKind())
}

// PoisonPlant is a plant whose adult form poisons the tiles around it.
// Damage never leaves it harvested: it drops straight back to a seedling.
type PoisonPlant struct {
	entity.Base
	drain int
}

// NewPoisonPlant builds a poison plant. Param "drain" is the energy an
// actor loses stepping on the seedling (default 1).
func NewPoisonPlant(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = PlantSeedling
	}
	if !validPoison(spec.HP) {
		return nil, entity.ErrInvalidHitpoints
	}
	p := &PoisonPlant{drain: spec.Int("drain", 1)}
	p.Base = entity.NewBase(p, spec, w, false)
	return p, nil
}

func validPoison(hp int) bool {
	return hp == PlantDestroyed || hp == PlantSeedling || hp == PlantAdult
}

// Adult reports whether the plant blocks its tile.
func (p *PoisonPlant) Adult() bool { return p.Hitpoints() > PlantSeedling }

func (p *PoisonPlant) tileKind() grid.Kind {
	if p.Adult() {
		return grid.Obstacle
	}
	return grid.Walkable
}

// Init places the plant. Miasma of an adult plant is a spawned entity of
// its own and is restored separately.
func (p *PoisonPlant) Init() error { return p.Place(p.tileKind()) }

// Restore puts the plant into the given state.
func (p *PoisonPlant) Restore(hp int) error {
	if !validPoison(hp) {
		return entity.ErrInvalidHitpoints
	}
	if done, err := removeAt0(p, hp); done {
		return err
	}
	if p.Removed() {
		p.Revive(hp)
		return p.Init()
	}
	p.SetHitpoints(hp)
	p.SetTileKind(p.tileKind())
	return nil
}

// Traits implements grid.Traited. Poison plants resist their own miasma.
func (p *PoisonPlant) Traits() grid.Trait { return grid.Burnable | grid.Meltable }

// SelectableBy implements grid.Selectable.
func (p *PoisonPlant) SelectableBy(tool grid.Tool) bool {
	if tool == grid.ToolGrow {
		return !p.Adult()
	}
	return accepts(tool, grid.ToolLightning)
}

// OnGrow matures the plant and releases miasma around it.
func (p *PoisonPlant) OnGrow() {
	if p.Adult() {
		return
	}
	p.SetHitpoints(PlantAdult)
	p.SetTileKind(grid.Obstacle)
	p.spreadMiasma()
}

// OnLightningHit damages the plant by power.
func (p *PoisonPlant) OnLightningHit(power int) {
	p.Damage(power)
}

// OnTrapTrigger drains the trespasser and tramples the seedling.
func (p *PoisonPlant) OnTrapTrigger(t grid.Trespasser) {
	t.AdjustEnergy(-p.drain)
	p.Damage(1)
}

// Damage lowers hitpoints. Anything below Adult clears the miasma.
func (p *PoisonPlant) Damage(n int) {
	if p.Removed() {
		return
	}
	hp := p.Hitpoints() - n
	if hp > PlantSeedling && hp < PlantAdult {
		hp = PlantSeedling
	}
	if hp <= PlantDestroyed {
		p.Remove()
		return
	}
	p.SetHitpoints(hp)
	p.SetTileKind(p.tileKind())
	if hp < PlantAdult {
		p.clearMiasma()
	}
}

// Remove clears the miasma along with the plant.
func (p *PoisonPlant) Remove() {
	if p.Removed() {
		return
	}
	p.clearMiasma()
	p.Base.Remove()
}

// corrodible reports whether miasma can settle on t.
func corrodible(t *grid.Tile) bool {
	if t.Platform() != nil {
		return grid.HasTrait(t.Platform(), grid.Corrosive)
	}
	if t.Kind() == grid.Walkable && t.Obstacle() == nil {
		return true
	}
	if t.Kind() == grid.Terrain || t.Kind() == grid.Water {
		return false
	}
	return grid.HasTrait(t.Obstacle(), grid.Corrosive)
}

func (p *PoisonPlant) spreadMiasma() {
	w := p.World()
	tile := p.Tile()
	if tile == nil {
		return
	}
	for _, n := range grid.Sorted(w.Grid.Neighbors(tile, 1)) {
		if !corrodible(n) {
			continue
		}
		if pl := n.Platform(); pl != nil {
			destroy(pl)
		}
		if ob := n.Obstacle(); ob != nil && grid.HasTrait(ob, grid.Corrosive) {
			destroy(ob)
		}
		_, err := w.Spawn(entity.Spec{
			Kind:   KindMiasma,
			At:     n.Coord(),
			HP:     1,
			Params: map[string]any{"source": p.ID()},
		})
		if err != nil {
			w.Log.Warn("miasma not spawned", "plant", p.ID(), "at", n.Coord(), "err", err)
		}
	}
}

func (p *PoisonPlant) clearMiasma() {
	tile := p.Tile()
	if tile == nil {
		return
	}
	for _, n := range grid.Sorted(p.World().Grid.Neighbors(tile, 1)) {
		if m, ok := n.Platform().(*Miasma); ok && m.source == p.ID() {
			m.Remove()
		}
	}
}

// Miasma is the poison cloud of an adult poison plant. It sits in the
// platform slot and makes its tile Poisoned. It is lethal to the actor.
type Miasma struct {
	entity.Base
	source string
}

// NewMiasma builds a miasma cloud. Param "source" is the id of the plant
// that released it.
func NewMiasma(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	spec.HP = 1
	source, _ := spec.Params["source"].(string)
	m := &Miasma{source: source}
	m.Base = entity.NewBase(m, spec, w, true)
	return m, nil
}

// Source returns the id of the plant that released the miasma.
func (m *Miasma) Source() string { return m.source }

// Init places the cloud.
func (m *Miasma) Init() error { return m.Place(grid.Poisoned) }

// OnTrapTrigger kills whoever walks into the cloud.
func (m *Miasma) OnTrapTrigger(t grid.Trespasser) { t.Kill() }

// Restore keeps or removes the cloud.
func (m *Miasma) Restore(hp int) error {
	if done, err := removeAt0(m, hp); done {
		return err
	}
	if hp != 1 {
		return entity.ErrInvalidHitpoints
	}
	return nil
}
