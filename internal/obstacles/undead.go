package obstacles

import (
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/pathfind"
	"github.com/vovakirdan/wayhome/internal/registry"
)

func init() {
	registry.Register(KindUndead, "Undead", NewUndead)
}

// Undead hunts the actor, walking up to travel_speed tiles each turn.
// Phasing undead pass through obstacles and never block a tile. Undead
// that can revive lie immobile for death_timer turns after dying.
type Undead struct {
	entity.Base

	maxHP      int
	speed      int
	canPhase   bool
	canRevive  bool
	deathTimer int

	timer     int
	immobile  bool
	walker    entity.Walker
	steps     int
	budget    int // 0 walks the whole path
	commanded bool
	fading    entity.Delay
	turn      bt.Node
}

// NewUndead builds an undead. Params: travel_speed (default 1), can_phase,
// can_revive, death_timer (default 2). Its spec hitpoints are also its
// maximum.
func NewUndead(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = 1
	}
	if spec.HP < 0 {
		return nil, entity.ErrInvalidHitpoints
	}
	u := &Undead{
		maxHP:      spec.HP,
		speed:      spec.Int("travel_speed", 1),
		canPhase:   spec.Bool("can_phase", false),
		canRevive:  spec.Bool("can_revive", false),
		deathTimer: spec.Int("death_timer", 2),
	}
	u.Base = entity.NewBase(u, spec, w, false)
	u.turn = bt.New(bt.Selector,
		when(u.fading.Active),
		bt.New(bt.Sequence, when(u.Immobile), do(u.countdown)),
		bt.New(bt.Sequence,
			when(func() bool { return !u.commanded && !u.walker.Walking() }),
			try(u.chase),
		),
		do(func() {}),
	)
	return u, nil
}

// Immobile reports whether the undead lies waiting to revive.
func (u *Undead) Immobile() bool { return u.immobile }

// Phasing reports whether the undead passes through obstacles.
func (u *Undead) Phasing() bool { return u.canPhase }

func (u *Undead) tileKind() grid.Kind {
	if u.canPhase || u.immobile {
		return grid.Walkable
	}
	return grid.Obstacle
}

// Init places the undead.
func (u *Undead) Init() error { return u.Place(u.tileKind()) }

// Restore puts the undead into the given state. An undead that can revive
// comes back from 0 as immobile with a full countdown.
func (u *Undead) Restore(hp int) error {
	if hp < 0 || hp > u.maxHP {
		return entity.ErrInvalidHitpoints
	}
	u.walker.Stop()
	u.fading.Cancel()
	if hp == 0 {
		if !u.canRevive {
			u.Remove()
			return nil
		}
		if u.Removed() {
			u.Revive(0)
		}
		u.lieDown()
		return nil
	}
	u.immobile = false
	if u.Removed() {
		u.Revive(hp)
	}
	u.SetHitpoints(hp)
	u.settle()
	return nil
}

// Traits implements grid.Traited.
func (u *Undead) Traits() grid.Trait {
	if u.canPhase {
		return grid.Burnable
	}
	return grid.Burnable | grid.Fragile | grid.Meltable | grid.Corrosive
}

// SelectableBy implements grid.Selectable.
func (u *Undead) SelectableBy(tool grid.Tool) bool {
	if tool == grid.ToolLightning {
		return !u.canPhase && !u.immobile
	}
	return accepts(tool, grid.ToolCommand)
}

// OnLightningHit damages a mobile, solid undead.
func (u *Undead) OnLightningHit(int) {
	if u.canPhase || u.immobile {
		return
	}
	u.Damage(1)
}

// OnTrapTrigger kills a trespasser walking into a mobile undead.
func (u *Undead) OnTrapTrigger(t grid.Trespasser) {
	if !u.immobile && !u.fading.Active() {
		t.Kill()
	}
}

// OnCommand walks the undead to a walkable destination.
func (u *Undead) OnCommand(dest *grid.Tile) bool {
	if u.Removed() || u.immobile || u.fading.Active() || u.walker.Walking() {
		return false
	}
	if dest.Kind() != grid.Walkable {
		return false
	}
	path := pathfind.FindFrom(u.World().Grid, u.Coord(), []core.Coord{dest.Coord()}, u.rule())
	if path.Empty() {
		return false
	}
	u.commanded = true
	u.walk(path, 0)
	return true
}

// Damage lowers hitpoints. Phasing undead cannot be hurt.
func (u *Undead) Damage(n int) {
	if u.canPhase || u.immobile || u.Removed() {
		return
	}
	hp := u.Hitpoints() - n
	if hp > 0 {
		u.SetHitpoints(hp)
		return
	}
	u.die()
}

// BeginTurn counts down a revive, or sets off after the actor unless the
// undead was commanded this turn.
func (u *Undead) BeginTurn() {
	run(u.turn)
	u.commanded = false
}

// Advance moves the undead or plays out its death.
func (u *Undead) Advance() {
	if u.fading.Active() {
		if u.fading.Tick() {
			u.Remove()
		}
		return
	}
	if t := u.walker.Step(); t != nil {
		u.arrive(t)
	}
}

// Reacting reports whether the undead is walking or dying.
func (u *Undead) Reacting() bool {
	return u.walker.Walking() || u.fading.Active()
}

// Remove destroys the undead for good, revival or not.
func (u *Undead) Remove() {
	u.walker.Stop()
	u.fading.Cancel()
	u.immobile = false
	u.Base.Remove()
}

func (u *Undead) rule() pathfind.Rule {
	return pathfind.Rule{Phase: u.canPhase}
}

func (u *Undead) chase() bool {
	q := u.World().Quarry
	if q == nil || !q.Alive() {
		return false
	}
	path := pathfind.FindFrom(u.World().Grid, u.Coord(), []core.Coord{q.Coord()}, u.rule())
	if path.Empty() {
		return false
	}
	u.walk(path, u.speed)
	return true
}

func (u *Undead) walk(p pathfind.Path, budget int) {
	u.Vacate()
	u.steps = 0
	u.budget = budget
	u.walker.Start(u.World().Grid.WorldOf(u.Coord()), p, u.World().Speed)
}

func (u *Undead) countdown() {
	if u.timer > 0 {
		u.timer--
		return
	}
	u.immobile = false
	u.SetHitpoints(u.maxHP)
	u.Anim().Play(entity.ClipRevive)
	u.settle()
}

func (u *Undead) die() {
	u.walker.Stop()
	u.Anim().Play(entity.ClipDeath)
	if u.canRevive {
		u.lieDown()
		return
	}
	u.SetHitpoints(0)
	u.fading.Start(u.Anim().CurrentClipLength())
}

func (u *Undead) lieDown() {
	u.immobile = true
	u.timer = u.deathTimer
	u.SetHitpoints(0)
	u.settle()
}

// settle claims the current tile. A phasing undead halted inside another
// occupant's tile stays unregistered until it moves on.
func (u *Undead) settle() {
	t := u.Tile()
	if t == nil {
		return
	}
	if o := t.Obstacle(); o != nil && o != grid.Occupant(u) {
		if !u.canPhase {
			u.World().Log.Warn("undead cannot settle", "id", u.ID(), "at", t.Coord(), "on", o.ID())
		}
		return
	}
	if err := u.Place(u.tileKind()); err != nil {
		u.World().Log.Warn("undead cannot settle", "id", u.ID(), "err", err)
	}
}

func (u *Undead) arrive(t *grid.Tile) {
	u.SetCoord(t.Coord())
	u.steps++
	if !u.canPhase {
		if ob := t.Obstacle(); ob != nil {
			if !grid.HasTrait(ob, grid.Trampleable) {
				u.World().Log.Debug("undead crushed", "id", u.ID(), "at", t.Coord(), "by", ob.ID())
				u.Remove()
				return
			}
			destroy(ob)
		}
	}
	if hazardous(t) {
		u.die()
		return
	}
	w := u.World()
	if w.QuarryAt(t.Coord()) {
		w.Quarry.Kill()
		u.walker.Stop()
	}
	if !u.walker.Walking() || (u.budget > 0 && u.steps >= u.budget) {
		u.walker.Stop()
		u.settle()
	}
}
