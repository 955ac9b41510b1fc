package grid

import (
	"testing"

	"github.com/vovakirdan/wayhome/internal/core"
)

type zapCounter struct {
	stubOccupant
	hits       []int
	aftershock []core.Coord
	onHit      func()
}

func (z *zapCounter) OnLightningHit(power int) {
	z.hits = append(z.hits, power)
	if z.onHit != nil {
		z.onHit()
	}
}

func (z *zapCounter) OnAftershock(origin core.Coord) {
	z.aftershock = append(z.aftershock, origin)
}

type grower struct {
	stubOccupant
	grown int
}

func (g *grower) OnGrow() { g.grown++ }
func (g *grower) OnInspect() string { return "a grower" }
func (g *grower) Traits() Trait { return Burnable | Fragile }
func (g *grower) SelectableBy(tool Tool) bool {
	return tool == ToolGrow
}

func TestDispatchPrefersObstacleSlot(t *testing.T) {
	g := New(1, 1)
	tile, _ := g.Tile(core.C(0, 0))
	top := &grower{stubOccupant: stubOccupant{id: "top", kind: "plant"}}
	bottom := &grower{stubOccupant: stubOccupant{id: "bottom", kind: "lilypad"}}
	g.SetOccupant(tile, bottom, Walkable, true)
	g.SetOccupant(tile, top, Obstacle, false)

	if !Grow(tile) {
		t.Fatal("Grow() should be handled")
	}
	if top.grown != 1 || bottom.grown != 0 {
		t.Errorf("obstacle grown %d, platform grown %d; expected 1 and 0", top.grown, bottom.grown)
	}

	g.ClearOccupant(tile)
	if !Grow(tile) || bottom.grown != 1 {
		t.Error("with the obstacle gone the platform should handle Grow()")
	}
}

func TestDispatchUnhandledIsNoOp(t *testing.T) {
	g := New(2, 1)
	tile, _ := g.Tile(core.C(0, 0))
	occ := &stubOccupant{id: "inert", kind: "rock"}
	g.SetOccupant(tile, occ, Obstacle, false)

	r := newRecordingRenderer()
	g.BindRenderer(r)

	dest, _ := g.Tile(core.C(1, 0))
	checks := map[string]bool{
		"grow":      Grow(tile),
		"tremor":    Tremor(tile),
		"lightning": LightningHit(tile, 2),
		"command":   Command(tile, dest),
		"trap":      TrapTrigger(tile, nil),
	}
	for name, handled := range checks {
		if handled {
			t.Errorf("%s should be unhandled", name)
		}
	}
	if _, ok := Inspect(tile); ok {
		t.Error("inspect should be unhandled")
	}
	if tile.Kind() != Obstacle || tile.Obstacle() != occ {
		t.Error("tile state changed by unhandled dispatch")
	}
	if len(r.changed) != 0 {
		t.Errorf("unhandled dispatch notified renderer %d times", len(r.changed))
	}
}

func TestTraitsAndInspect(t *testing.T) {
	g := New(1, 1)
	tile, _ := g.Tile(core.C(0, 0))
	gr := &grower{stubOccupant: stubOccupant{id: "p", kind: "plant"}}
	g.SetOccupant(tile, gr, Obstacle, false)

	if !HasTrait(gr, Burnable) || !HasTrait(gr, Burnable|Fragile) {
		t.Error("grower should be burnable and fragile")
	}
	if HasTrait(gr, Corrosive) {
		t.Error("grower is not corrosive")
	}
	if HasTrait(nil, Burnable) {
		t.Error("nil occupant has no traits")
	}
	if text, ok := Inspect(tile); !ok || text != "a grower" {
		t.Errorf("Inspect() = %q, %v", text, ok)
	}
	if !SelectableBy(tile, ToolGrow) || SelectableBy(tile, ToolLightning) {
		t.Error("SelectableBy should follow the occupant's answer")
	}
}

func TestLightningStrikeAftershocksNeighbors(t *testing.T) {
	g := New(3, 3)
	center, _ := g.Tile(core.C(1, 1))
	target := &zapCounter{stubOccupant: stubOccupant{id: "t", kind: "boulder"}}
	g.SetOccupant(center, target, Obstacle, false)

	var around []*zapCounter
	for _, n := range Sorted(g.Neighbors(center, 1)) {
		z := &zapCounter{stubOccupant: stubOccupant{id: n.Coord().String(), kind: "crab"}}
		g.SetOccupant(n, z, Obstacle, false)
		around = append(around, z)
	}

	// The hit handler clears a neighbour mid-strike; the snapshot keeps
	// iteration well-defined.
	victim, _ := g.Tile(core.C(0, 0))
	target.onHit = func() { g.ClearOccupant(victim) }

	if !g.LightningStrike(center, 2) {
		t.Fatal("LightningStrike() should be handled")
	}
	if len(target.hits) != 1 || target.hits[0] != 2 {
		t.Errorf("target hits = %v, expected [2]", target.hits)
	}
	if len(target.aftershock) != 0 {
		t.Error("the struck tile itself gets no aftershock")
	}
	if len(around[0].aftershock) != 0 {
		t.Error("cleared neighbour should not receive an aftershock")
	}
	for _, z := range around[1:] {
		if len(z.aftershock) != 1 || z.aftershock[0] != core.C(1, 1) {
			t.Errorf("%s aftershock = %v, expected [(1,1)]", z.ID(), z.aftershock)
		}
	}
}
