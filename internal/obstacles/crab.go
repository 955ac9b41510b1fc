package obstacles

import (
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/pathfind"
	"github.com/vovakirdan/wayhome/internal/registry"
)

// Rock crab hitpoint states.
const (
	CrabBare    = 1
	CrabShelled = 2
)

func init() {
	registry.Register(KindRockCrab, "Rock Crab", NewRockCrab)
}

// RockCrab wanders a small square around its last resting tile. Its shell
// blocks the tile; knocked bare it walks to the nearest rock to grow a new
// one.
type RockCrab struct {
	entity.Base

	reach      int
	area       map[core.Coord]*grid.Tile
	walker     entity.Walker
	dest       core.Coord
	interacted bool
	turn       bt.Node
}

// NewRockCrab builds a shelled crab. Param "range" is the radius of the
// square it may travel in (default 2).
func NewRockCrab(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = CrabShelled
	}
	if spec.HP != CrabShelled && spec.HP != CrabBare {
		return nil, entity.ErrInvalidHitpoints
	}
	c := &RockCrab{reach: spec.Int("range", 2)}
	c.Base = entity.NewBase(c, spec, w, false)
	c.turn = bt.New(bt.Selector,
		bt.New(bt.Sequence,
			when(c.Bare),
			when(func() bool { return !c.walker.Walking() && !c.interacted }),
			try(c.seekRock),
		),
		do(func() {}),
	)
	return c, nil
}

// Bare reports whether the crab lost its shell.
func (c *RockCrab) Bare() bool { return c.Hitpoints() == CrabBare }

// Area returns the tiles the crab may currently travel in.
func (c *RockCrab) Area() map[core.Coord]*grid.Tile { return c.area }

func (c *RockCrab) tileKind() grid.Kind {
	if c.Bare() {
		return grid.Walkable
	}
	return grid.Obstacle
}

// Init places the crab and surveys its range.
func (c *RockCrab) Init() error {
	if err := c.Place(c.tileKind()); err != nil {
		return err
	}
	c.survey()
	return nil
}

func (c *RockCrab) survey() {
	if t := c.Tile(); t != nil {
		c.area = c.World().Grid.Area(t, c.reach)
	}
}

// Restore puts the crab into the given state.
func (c *RockCrab) Restore(hp int) error {
	if hp > CrabShelled {
		return entity.ErrInvalidHitpoints
	}
	if done, err := removeAt0(c, hp); done {
		return err
	}
	c.walker.Stop()
	if c.Removed() {
		c.Revive(hp)
		return c.Init()
	}
	c.SetHitpoints(hp)
	c.SetTileKind(c.tileKind())
	return nil
}

// Traits implements grid.Traited.
func (c *RockCrab) Traits() grid.Trait {
	t := grid.Burnable | grid.Corrosive | grid.Meltable
	if c.Bare() {
		t |= grid.Fragile | grid.Trampleable
	}
	return t
}

// SelectableBy implements grid.Selectable.
func (c *RockCrab) SelectableBy(tool grid.Tool) bool {
	return accepts(tool, grid.ToolLightning, grid.ToolTremor, grid.ToolCommand)
}

// OnLightningHit cracks the shell, or kills a bare crab.
func (c *RockCrab) OnLightningHit(int) {
	c.damage(1)
	c.interacted = true
}

// OnTremor cracks the shell, or kills a bare crab.
func (c *RockCrab) OnTremor() {
	c.damage(1)
	c.interacted = true
}

// OnAftershock sends a bare crab to a rock, or scuttles one tile away from
// the strike.
func (c *RockCrab) OnAftershock(origin core.Coord) {
	if c.Removed() || c.walker.Walking() {
		return
	}
	if c.Bare() && c.seekRock() {
		return
	}
	d := c.Coord().Sub(origin)
	away := c.Coord().Add(d.X, d.Y)
	t, ok := c.World().Grid.Tile(away)
	if !ok || t.Kind() != grid.Walkable || away == c.Coord() {
		return
	}
	c.walk(pathfind.Path{t}, away)
}

// OnCommand walks the crab to dest inside its range. A bare crab may be
// sent onto a rock; any crab may be sent onto a plant, which it eats.
func (c *RockCrab) OnCommand(dest *grid.Tile) bool {
	if c.Removed() || c.walker.Walking() {
		return false
	}
	if _, in := c.area[dest.Coord()]; !in {
		return false
	}
	eatsPlant := dest.Holds(KindPlant) || dest.Holds(KindPoisonPlant)
	eatsRock := c.Bare() && dest.Holds(KindRock)
	if !eatsPlant && !eatsRock && dest.Kind() != grid.Walkable {
		return false
	}
	rule := c.rule()
	if o := dest.Obstacle(); o != nil && (eatsPlant || eatsRock) {
		rule.Exempt = append(rule.Exempt, o.Kind())
	}
	path := pathfind.FindFrom(c.World().Grid, c.Coord(), []core.Coord{dest.Coord()}, rule)
	if path.Empty() {
		return false
	}
	c.walk(path, dest.Coord())
	return true
}

// OnTrapTrigger kills a trespasser meeting a moving or bare crab.
func (c *RockCrab) OnTrapTrigger(t grid.Trespasser) {
	if c.walker.Walking() || c.Bare() {
		t.Kill()
	}
}

// BeginTurn lets a bare, idle crab that was left alone this turn head for
// a rock.
func (c *RockCrab) BeginTurn() {
	run(c.turn)
	c.interacted = false
}

// Advance moves the crab one tick along its path.
func (c *RockCrab) Advance() {
	if t := c.walker.Step(); t != nil {
		c.arrive(t)
	}
}

// Reacting reports whether the crab is walking.
func (c *RockCrab) Reacting() bool { return c.walker.Walking() }

// Walking reports whether the crab is walking.
func (c *RockCrab) Walking() bool { return c.walker.Walking() }

// Remove stops the crab and takes it off the grid.
func (c *RockCrab) Remove() {
	c.walker.Stop()
	c.Base.Remove()
}

func (c *RockCrab) rule() pathfind.Rule {
	return pathfind.Rule{
		Exempt: []string{KindGroundSpike},
		Within: c.area,
	}
}

func (c *RockCrab) seekRock() bool {
	g := c.World().Grid
	rocks := g.TilesHolding(KindRock, c.area)
	if len(rocks) == 0 {
		return false
	}
	goals := make([]core.Coord, len(rocks))
	for i, t := range rocks {
		goals[i] = t.Coord()
	}
	rule := c.rule()
	rule.Exempt = append(rule.Exempt, KindRock)
	path := pathfind.FindFrom(g, c.Coord(), goals, rule)
	if path.Empty() {
		return false
	}
	c.walk(path, path.Last().Coord())
	return true
}

func (c *RockCrab) walk(p pathfind.Path, dest core.Coord) {
	g := c.World().Grid
	c.Vacate()
	c.dest = dest
	c.walker.Start(g.WorldOf(c.Coord()), p, c.World().Speed)
}

func (c *RockCrab) damage(n int) {
	if c.Removed() {
		return
	}
	hp := c.Hitpoints() - n
	if hp <= 0 {
		c.Remove()
		return
	}
	c.SetHitpoints(hp)
	c.SetTileKind(c.tileKind())
}

func (c *RockCrab) arrive(t *grid.Tile) {
	c.SetCoord(t.Coord())
	ob := t.Obstacle()
	switch ob.(type) {
	case nil, *Rock:
	case *GroundSpike:
		if c.Bare() {
			c.World().Log.Debug("crab impaled", "id", c.ID(), "at", t.Coord())
			c.Remove()
			return
		}
	default:
		destroy(ob)
	}
	if hazardous(t) {
		c.World().Log.Debug("crab perished", "id", c.ID(), "at", t.Coord())
		c.Remove()
		return
	}
	if t.Coord() == c.dest || !c.walker.Walking() {
		c.stop()
	}
}

func (c *RockCrab) stop() {
	c.walker.Stop()
	t := c.Tile()
	switch ob := t.Obstacle().(type) {
	case *Rock:
		c.SetHitpoints(CrabShelled)
		ob.Remove()
	case *Plant, *PoisonPlant, *GroundSpike:
		destroy(ob)
	}
	if err := c.Place(c.tileKind()); err != nil {
		c.World().Log.Warn("crab cannot settle", "id", c.ID(), "err", err)
	}
	c.survey()
}
