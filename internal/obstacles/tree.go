package obstacles

import (
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/registry"
)

// Tree hitpoint states.
const (
	TreeStump    = 1
	TreeStanding = 2
)

func init() {
	registry.Register(KindTree, "Tree", NewTree)
}

// Tree falls when struck, leaving a stump and up to two logs beside it.
// Logs land east of the trunk when both tiles there are free, otherwise
// west; with neither side free the tree falls without leaving logs.
type Tree struct {
	entity.Base
	falling entity.Delay
}

// NewTree builds a standing tree.
func NewTree(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	if spec.HP == 0 {
		spec.HP = TreeStanding
	}
	if spec.HP != TreeStanding && spec.HP != TreeStump {
		return nil, entity.ErrInvalidHitpoints
	}
	t := &Tree{}
	t.Base = entity.NewBase(t, spec, w, false)
	return t, nil
}

// Init places the tree.
func (t *Tree) Init() error { return t.Place(grid.Obstacle) }

// Restore puts the tree into the given state. A fallen tree's logs are
// spawned entities and come back on their own.
func (t *Tree) Restore(hp int) error {
	if done, err := removeAt0(t, hp); done {
		return err
	}
	if hp != TreeStanding && hp != TreeStump {
		return entity.ErrInvalidHitpoints
	}
	t.falling.Cancel()
	if t.Removed() {
		t.Revive(hp)
		return t.Init()
	}
	t.SetHitpoints(hp)
	return nil
}

// Falling reports whether the fall clip is playing.
func (t *Tree) Falling() bool { return t.falling.Active() }

// Traits implements grid.Traited.
func (t *Tree) Traits() grid.Trait { return grid.Burnable }

// SelectableBy implements grid.Selectable.
func (t *Tree) SelectableBy(tool grid.Tool) bool {
	return accepts(tool, grid.ToolLightning)
}

// OnLightningHit fells a standing tree and clears a stump.
func (t *Tree) OnLightningHit(int) {
	if t.Falling() {
		return
	}
	if t.Hitpoints() == TreeStump {
		t.Remove()
		return
	}
	t.SetHitpoints(TreeStump)
	t.Anim().Play(entity.ClipFall)
	t.falling.Start(t.Anim().CurrentClipLength())
}

// BeginTurn implements grid.TurnReactive.
func (t *Tree) BeginTurn() {}

// Advance waits for the fall to finish and drops the logs.
func (t *Tree) Advance() {
	if t.falling.Tick() {
		t.dropLogs()
	}
}

// Reacting reports whether the tree is still falling.
func (t *Tree) Reacting() bool { return t.falling.Active() }

// LogSites returns the tiles the logs would land on, or nil.
func (t *Tree) LogSites() []*grid.Tile {
	g := t.World().Grid
	for _, dir := range []int{1, -1} {
		var sites []*grid.Tile
		for i := 1; i <= 2; i++ {
			tile, ok := g.Tile(t.Coord().Add(dir*i, 0))
			if !ok || tile.Kind() != grid.Walkable || !tile.Empty() {
				break
			}
			sites = append(sites, tile)
		}
		if len(sites) == 2 {
			return sites
		}
	}
	return nil
}

func (t *Tree) dropLogs() {
	w := t.World()
	for _, site := range t.LogSites() {
		if _, err := w.Spawn(entity.Spec{Kind: KindLog, At: site.Coord(), HP: 1}); err != nil {
			w.Log.Warn("log not spawned", "tree", t.ID(), "at", site.Coord(), "err", err)
		}
	}
}
