package obstacles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

type scene struct {
	t      *testing.T
	g      *grid.Grid
	w      *entity.World
	roster *entity.Roster
}

// newScene builds a grid from rows: '.' walkable, '~' water, '#' terrain.
func newScene(t *testing.T, rows ...string) *scene {
	t.Helper()
	g := grid.New(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			var err error
			switch ch {
			case '~':
				err = g.SetTerrain(core.C(x, y), grid.Water)
			case '#':
				err = g.SetTerrain(core.C(x, y), grid.Terrain)
			}
			require.NoError(t, err)
		}
	}
	s := &scene{t: t, g: g, w: entity.NewWorld(g, nil), roster: entity.NewRoster()}
	s.w.SetSpawner(registry.Spawner(s.w, func(e entity.Entity, _ entity.Spec) error {
		return s.roster.Add(e)
	}))
	return s
}

func (s *scene) add(kind string, x, y, hp int, params map[string]any) entity.Entity {
	s.t.Helper()
	spec := entity.Spec{ID: registry.NewID(kind), Kind: kind, At: core.C(x, y), HP: hp, Params: params}
	e, err := registry.Create(spec, s.w)
	require.NoError(s.t, err)
	require.NoError(s.t, e.Init())
	require.NoError(s.t, s.roster.Add(e))
	return e
}

func (s *scene) tile(x, y int) *grid.Tile {
	t, ok := s.g.Tile(core.C(x, y))
	require.True(s.t, ok)
	return t
}

// turn starts a turn for every reactive entity and ticks until all of them
// are done. It returns the number of ticks the turn took.
func (s *scene) turn() int {
	pending := s.roster.TurnReactive()
	for _, e := range pending {
		e.BeginTurn()
	}
	ticks := 0
	for ; ticks < 1000; ticks++ {
		busy := false
		for _, e := range pending {
			if e.(entity.Entity).Removed() || !e.Reacting() {
				continue
			}
			e.Advance()
			busy = true
		}
		if !busy {
			break
		}
	}
	return ticks
}

type quarry struct {
	at     core.Coord
	energy int
	dead   bool
}

func (q *quarry) Coord() core.Coord { return q.at }
func (q *quarry) Alive() bool { return !q.dead }
func (q *quarry) Kill() { q.dead = true }
func (q *quarry) AdjustEnergy(d int) { q.energy += d }

func TestPlantGrowCycle(t *testing.T) {
	s := newScene(t, "...", "...", "...")
	p := s.add(KindPlant, 1, 1, PlantSeedling, nil).(*Plant)
	tile := s.tile(1, 1)
	require.Equal(t, grid.Walkable, tile.Kind())

	require.True(t, grid.Grow(tile))
	assert.Equal(t, PlantAdult, p.Hitpoints())
	assert.Equal(t, grid.Obstacle, tile.Kind())

	require.True(t, grid.LightningHit(tile, 2))
	assert.Equal(t, PlantHarvested, p.Hitpoints())
	assert.False(t, p.Removed())
	assert.Equal(t, grid.Obstacle, tile.Kind())

	require.True(t, grid.LightningHit(tile, 2))
	assert.Equal(t, 0, p.Hitpoints())
	assert.True(t, p.Removed())
	assert.Equal(t, grid.Walkable, tile.Kind())
	assert.Nil(t, tile.Obstacle())
}

func TestPlantDamageSettlesOnHarvested(t *testing.T) {
	s := newScene(t, "...")
	p := s.add(KindPlant, 1, 0, PlantAdult, nil).(*Plant)
	grid.LightningHit(s.tile(1, 0), 1)
	assert.Equal(t, PlantHarvested, p.Hitpoints())
}

func TestPlantSeedlingFeedsTrespasser(t *testing.T) {
	s := newScene(t, "...")
	p := s.add(KindPlant, 1, 0, PlantSeedling, nil)
	q := &quarry{energy: 3}

	require.True(t, grid.TrapTrigger(s.tile(1, 0), q))
	assert.Equal(t, 3+seedlingEnergy, q.energy)
	assert.True(t, p.Removed())
}

func TestPlantRejectsUnreachableHitpoints(t *testing.T) {
	s := newScene(t, "...")
	p := s.add(KindPlant, 0, 0, PlantAdult, nil)
	assert.ErrorIs(t, p.Restore(3), entity.ErrInvalidHitpoints)
	assert.Equal(t, PlantAdult, p.Hitpoints())

	_, err := registry.Create(entity.Spec{ID: "p", Kind: KindPlant, At: core.C(1, 0), HP: 3}, s.w)
	assert.ErrorIs(t, err, entity.ErrInvalidHitpoints)

	require.NoError(t, p.Restore(PlantSeedling))
	assert.Equal(t, grid.Walkable, s.tile(0, 0).Kind())
}

func TestPoisonPlantSpreadsAndClearsMiasma(t *testing.T) {
	s := newScene(t,
		"#.~",
		"...",
		"...",
	)
	p := s.add(KindPoisonPlant, 1, 1, PlantSeedling, nil).(*PoisonPlant)
	s.add(KindBoulder, 0, 2, 2, nil)
	log := s.add(KindLog, 2, 2, 1, nil)

	require.True(t, grid.Grow(s.tile(1, 1)))
	assert.Equal(t, PlantAdult, p.Hitpoints())
	assert.True(t, log.Removed(), "corrosive log gives way to miasma")

	poisoned := s.g.TilesHolding(KindMiasma, nil)
	var at []core.Coord
	for _, tile := range poisoned {
		at = append(at, tile.Coord())
		assert.Equal(t, grid.Poisoned, tile.Kind())
	}
	assert.Equal(t, []core.Coord{core.C(1, 0), core.C(0, 1), core.C(2, 1), core.C(1, 2), core.C(2, 2)}, at)

	require.True(t, grid.LightningHit(s.tile(1, 1), 2))
	assert.Equal(t, PlantSeedling, p.Hitpoints())
	assert.Equal(t, grid.Walkable, s.tile(1, 1).Kind())
	assert.Empty(t, s.g.TilesHolding(KindMiasma, nil))
	assert.Equal(t, grid.Walkable, s.tile(2, 2).Kind())
}

func TestPoisonPlantDrainsTrespasser(t *testing.T) {
	s := newScene(t, "...")
	p := s.add(KindPoisonPlant, 1, 0, PlantSeedling, map[string]any{"drain": 2})
	q := &quarry{energy: 5}
	grid.TrapTrigger(s.tile(1, 0), q)
	assert.Equal(t, 3, q.energy)
	assert.True(t, p.Removed())
}

func TestMiasmaKillsTrespasser(t *testing.T) {
	s := newScene(t, "...")
	s.add(KindPoisonPlant, 1, 0, PlantSeedling, nil)
	require.True(t, grid.Grow(s.tile(1, 0)))
	require.Equal(t, grid.Poisoned, s.tile(0, 0).Kind())

	q := &quarry{energy: 5}
	require.True(t, grid.TrapTrigger(s.tile(0, 0), q))
	assert.True(t, q.dead)
	assert.Equal(t, 5, q.energy)
}

func TestPoisonPlantHasNoHarvestedState(t *testing.T) {
	s := newScene(t, "...")
	p := s.add(KindPoisonPlant, 1, 0, PlantAdult, nil)
	assert.ErrorIs(t, p.Restore(PlantHarvested), entity.ErrInvalidHitpoints)
	assert.Equal(t, PlantAdult, p.Hitpoints())

	_, err := registry.Create(entity.Spec{ID: "pp", Kind: KindPoisonPlant, At: core.C(0, 0), HP: PlantHarvested}, s.w)
	assert.ErrorIs(t, err, entity.ErrInvalidHitpoints)

	require.True(t, grid.LightningHit(s.tile(1, 0), 1))
	assert.Equal(t, PlantSeedling, p.Hitpoints(), "one point of damage drops an adult straight to a seedling")
}

func TestBoulderCrumblesOverDestroyClip(t *testing.T) {
	s := newScene(t, "...", "...")
	s.w.Clips[entity.ClipDestroy] = 3
	b := s.add(KindBoulder, 1, 1, 2, nil).(*Boulder)
	tile := s.tile(1, 1)

	assert.Equal(t, 1, s.g.TremorTiles([]*grid.Tile{tile, s.tile(0, 0)}))
	assert.Equal(t, 1, b.Hitpoints())
	assert.False(t, b.Reacting())

	grid.LightningHit(tile, 2)
	assert.True(t, b.Reacting())
	assert.Equal(t, grid.Obstacle, tile.Kind(), "tile stays blocked while crumbling")

	assert.Equal(t, 3, s.turn())
	assert.True(t, b.Removed())
	assert.Equal(t, grid.Walkable, tile.Kind())
}

func TestTreeFallsAndDropsLogs(t *testing.T) {
	s := newScene(t, ".....")
	s.w.Clips[entity.ClipFall] = 2
	tree := s.add(KindTree, 2, 0, 0, nil).(*Tree)

	require.True(t, grid.LightningHit(s.tile(2, 0), 2))
	assert.Equal(t, TreeStump, tree.Hitpoints())
	assert.True(t, tree.Falling())

	assert.Equal(t, 2, s.turn())
	assert.True(t, s.tile(3, 0).Holds(KindLog))
	assert.True(t, s.tile(4, 0).Holds(KindLog))
	assert.False(t, tree.Falling())

	grid.LightningHit(s.tile(2, 0), 2)
	assert.True(t, tree.Removed())
	assert.Equal(t, grid.Walkable, s.tile(2, 0).Kind())
}

func TestTreeFallsWestWhenEastIsBlocked(t *testing.T) {
	s := newScene(t, ".....")
	tree := s.add(KindTree, 2, 0, 0, nil).(*Tree)
	s.add(KindRock, 4, 0, 1, nil)

	grid.LightningHit(s.tile(2, 0), 2)
	s.turn()
	assert.True(t, s.tile(1, 0).Holds(KindLog))
	assert.True(t, s.tile(0, 0).Holds(KindLog))
	assert.False(t, s.tile(3, 0).Holds(KindLog))
	assert.Equal(t, TreeStump, tree.Hitpoints())
}

func TestDebrisReactions(t *testing.T) {
	s := newScene(t, "....")
	web := s.add(KindWeb, 0, 0, 1, nil)
	rock := s.add(KindRock, 1, 0, 1, nil)
	spike := s.add(KindGroundSpike, 2, 0, 1, nil)

	assert.True(t, grid.LightningHit(s.tile(0, 0), 1))
	assert.True(t, web.Removed())

	assert.False(t, grid.LightningHit(s.tile(1, 0), 1), "rocks ignore lightning")
	assert.False(t, grid.Tremor(s.tile(1, 0)))
	assert.False(t, rock.Removed())

	assert.True(t, grid.Tremor(s.tile(2, 0)))
	assert.True(t, spike.Removed())
	assert.True(t, grid.HasTrait(web, grid.Trampleable|grid.Fragile))
}

func TestLilypadBridgesWater(t *testing.T) {
	s := newScene(t, ".~.")
	pad := s.add(KindLilypad, 1, 0, 1, nil)
	assert.Equal(t, grid.Walkable, s.tile(1, 0).Kind())
	assert.Equal(t, pad, s.tile(1, 0).Platform())

	grid.LightningHit(s.tile(1, 0), 1)
	assert.Equal(t, grid.Water, s.tile(1, 0).Kind())
}

func TestFireFieldBurnsObstacle(t *testing.T) {
	s := newScene(t, "..")
	log := s.add(KindLog, 0, 0, 1, nil)
	s.add(KindFireField, 0, 0, 1, nil)
	assert.True(t, log.Removed())
	assert.Equal(t, grid.Walkable, s.tile(0, 0).Kind())
	assert.True(t, s.tile(0, 0).Holds(KindFireField))
}

func TestCommandOnNonCommandableIsNoOp(t *testing.T) {
	s := newScene(t, "...")
	b := s.add(KindBoulder, 0, 0, 2, nil)
	assert.False(t, grid.Command(s.tile(0, 0), s.tile(2, 0)))
	assert.Equal(t, core.C(0, 0), b.Coord())
	assert.Equal(t, 2, b.Hitpoints())
}

func TestCrabRegrowsShellFromRock(t *testing.T) {
	s := newScene(t, ".....")
	crab := s.add(KindRockCrab, 0, 0, 0, map[string]any{"range": 3}).(*RockCrab)
	rock := s.add(KindRock, 3, 0, 1, nil)
	require.Equal(t, grid.Obstacle, s.tile(0, 0).Kind())

	grid.LightningHit(s.tile(0, 0), 2)
	assert.True(t, crab.Bare())
	assert.Equal(t, grid.Walkable, s.tile(0, 0).Kind())

	assert.Equal(t, 0, s.turn(), "a crab struck this turn stays put")
	assert.Equal(t, core.C(0, 0), crab.Coord())

	assert.Equal(t, 3, s.turn())
	assert.Equal(t, core.C(3, 0), crab.Coord())
	assert.False(t, crab.Bare())
	assert.True(t, rock.Removed())
	assert.Equal(t, crab, s.tile(3, 0).Obstacle())
	assert.True(t, s.tile(0, 0).Empty())
}

func TestCrabScuttlesAwayFromStrike(t *testing.T) {
	s := newScene(t, ".....", ".....", ".....")
	crab := s.add(KindRockCrab, 2, 1, 0, nil).(*RockCrab)

	require.True(t, s.g.LightningStrike(s.tile(1, 1), 2))
	assert.True(t, crab.Walking())
	assert.Equal(t, 1, s.turn())
	assert.Equal(t, core.C(3, 1), crab.Coord())
	assert.Equal(t, grid.Obstacle, s.tile(3, 1).Kind())
	assert.Equal(t, grid.Walkable, s.tile(2, 1).Kind())
}

func TestCrabCommandedOntoPlantEatsIt(t *testing.T) {
	s := newScene(t, "....")
	crab := s.add(KindRockCrab, 0, 0, 0, map[string]any{"range": 3}).(*RockCrab)
	plant := s.add(KindPlant, 2, 0, PlantAdult, nil)

	require.True(t, grid.Command(s.tile(0, 0), s.tile(2, 0)))
	assert.Equal(t, 2, s.turn())
	assert.True(t, plant.Removed())
	assert.Equal(t, core.C(2, 0), crab.Coord())
}

func TestCrabRefusesDestinationOutOfRange(t *testing.T) {
	s := newScene(t, "....")
	crab := s.add(KindRockCrab, 0, 0, 0, map[string]any{"range": 1}).(*RockCrab)
	assert.False(t, grid.Command(s.tile(0, 0), s.tile(3, 0)))
	assert.Equal(t, core.C(0, 0), crab.Coord())
	assert.False(t, crab.Walking())
}

func TestBareCrabDiesOnSpike(t *testing.T) {
	s := newScene(t, "...")
	crab := s.add(KindRockCrab, 0, 0, CrabBare, nil).(*RockCrab)
	s.add(KindGroundSpike, 1, 0, 1, nil)
	rock := s.add(KindRock, 2, 0, 1, nil)

	s.turn()
	assert.True(t, crab.Removed())
	assert.False(t, rock.Removed())
}

func TestBareCrabKillsTrespasser(t *testing.T) {
	s := newScene(t, "..")
	s.add(KindRockCrab, 0, 0, CrabBare, nil)
	q := &quarry{}
	grid.TrapTrigger(s.tile(0, 0), q)
	assert.True(t, q.dead)
}

func TestCrabRestore(t *testing.T) {
	s := newScene(t, "..")
	crab := s.add(KindRockCrab, 0, 0, 0, nil)
	require.NoError(t, crab.Restore(CrabBare))
	assert.Equal(t, grid.Walkable, s.tile(0, 0).Kind())
	assert.ErrorIs(t, crab.Restore(3), entity.ErrInvalidHitpoints)
	require.NoError(t, crab.Restore(0))
	assert.True(t, crab.Removed())
	assert.True(t, s.tile(0, 0).Empty())
}

func TestUndeadChasesUpToTravelSpeed(t *testing.T) {
	s := newScene(t, ".....")
	q := &quarry{at: core.C(4, 0)}
	s.w.Quarry = q
	u := s.add(KindUndead, 0, 0, 1, nil).(*Undead)

	assert.Equal(t, 1, s.turn())
	assert.Equal(t, core.C(1, 0), u.Coord())
	assert.Equal(t, grid.Obstacle, s.tile(1, 0).Kind())
	assert.True(t, s.tile(0, 0).Empty())
	assert.False(t, q.dead)
}

func TestUndeadCatchesQuarry(t *testing.T) {
	s := newScene(t, ".....")
	q := &quarry{at: core.C(4, 0)}
	s.w.Quarry = q
	u := s.add(KindUndead, 0, 0, 1, map[string]any{"travel_speed": 5}).(*Undead)

	assert.Equal(t, 4, s.turn())
	assert.True(t, q.dead)
	assert.Equal(t, core.C(4, 0), u.Coord())
}

func TestPhasingUndeadPassesThroughObstacles(t *testing.T) {
	s := newScene(t, "....")
	q := &quarry{at: core.C(3, 0)}
	s.w.Quarry = q
	u := s.add(KindUndead, 0, 0, 1, map[string]any{"travel_speed": 3, "can_phase": true}).(*Undead)
	boulder := s.add(KindBoulder, 1, 0, 2, nil)
	require.Equal(t, grid.Walkable, s.tile(0, 0).Kind())

	require.True(t, grid.LightningHit(s.tile(0, 0), 2))
	assert.Equal(t, 1, u.Hitpoints(), "lightning passes through a phasing undead")

	s.turn()
	assert.True(t, q.dead)
	assert.False(t, boulder.Removed())
	assert.Equal(t, grid.Walkable, s.tile(3, 0).Kind())
}

func TestUndeadDiesAfterDeathClip(t *testing.T) {
	s := newScene(t, "...")
	s.w.Clips[entity.ClipDeath] = 2
	u := s.add(KindUndead, 1, 0, 1, nil).(*Undead)

	grid.LightningHit(s.tile(1, 0), 2)
	assert.True(t, u.Reacting())
	assert.False(t, u.Removed())

	assert.Equal(t, 2, s.turn())
	assert.True(t, u.Removed())
	assert.True(t, s.tile(1, 0).Empty())
}

func TestUndeadRevivesAfterTimer(t *testing.T) {
	s := newScene(t, "...")
	u := s.add(KindUndead, 1, 0, 2, map[string]any{"can_revive": true, "death_timer": 1}).(*Undead)
	tile := s.tile(1, 0)

	grid.LightningHit(tile, 2)
	grid.LightningHit(tile, 2)
	assert.True(t, u.Immobile())
	assert.Equal(t, grid.Walkable, tile.Kind())

	s.turn()
	assert.True(t, u.Immobile())
	s.turn()
	assert.False(t, u.Immobile())
	assert.Equal(t, 2, u.Hitpoints())
	assert.Equal(t, grid.Obstacle, tile.Kind())
}

func TestCommandedUndeadSkipsChase(t *testing.T) {
	s := newScene(t, "....")
	q := &quarry{at: core.C(0, 0)}
	s.w.Quarry = q
	u := s.add(KindUndead, 1, 0, 1, nil).(*Undead)

	require.True(t, grid.Command(s.tile(1, 0), s.tile(3, 0)))
	assert.Equal(t, 2, s.turn())
	assert.Equal(t, core.C(3, 0), u.Coord())
	assert.False(t, q.dead)
}
