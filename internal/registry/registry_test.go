package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
)

type pebble struct {
	entity.Base
}

func (p *pebble) Init() error { return p.Place(grid.Obstacle) }

func (p *pebble) Restore(hp int) error {
	if hp == 0 {
		p.Remove()
	}
	return nil
}

func newPebble(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	p := &pebble{}
	p.Base = entity.NewBase(p, spec, w, false)
	return p, nil
}

func init() {
	Register("test-pebble", "Pebble", newPebble)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate kind")
		}
	}()
	Register("test-pebble", "Pebble again", newPebble)
}

func TestListSortedAndExists(t *testing.T) {
	Register("test-aardvark", "Aardvark", newPebble)

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Kind > list[i].Kind {
			t.Fatalf("List not sorted: %q before %q", list[i-1].Kind, list[i].Kind)
		}
	}
	if !Exists("test-pebble") || !Exists("test-aardvark") {
		t.Fatal("registered kinds should exist")
	}
	if Exists("test-missing") {
		t.Fatal("unregistered kind reported as existing")
	}
}

func TestCreateUnknownKind(t *testing.T) {
	w := entity.NewWorld(grid.New(3, 3), nil)
	_, err := Create(entity.Spec{Kind: "test-missing"}, w)
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestSpawnerAssignsIDAndPlaces(t *testing.T) {
	g := grid.New(3, 3)
	w := entity.NewWorld(g, nil)
	var added []string
	spawn := Spawner(w, func(e entity.Entity, spec entity.Spec) error {
		added = append(added, spec.ID)
		return nil
	})

	e, err := spawn(entity.Spec{Kind: "test-pebble", At: core.C(1, 1), HP: 1})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if !strings.HasPrefix(e.ID(), "test-pebble-") {
		t.Errorf("spawned id = %q, want kind prefix", e.ID())
	}
	if len(added) != 1 || added[0] != e.ID() {
		t.Errorf("add callback got %v", added)
	}
	tile, _ := g.Tile(core.C(1, 1))
	if tile.Obstacle() != e || tile.Kind() != grid.Obstacle {
		t.Errorf("spawned pebble not placed on its tile")
	}

	if _, err := spawn(entity.Spec{Kind: "test-pebble", At: core.C(1, 1)}); err == nil {
		t.Error("spawning onto a taken slot should fail")
	}
}
