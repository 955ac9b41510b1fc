package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

type block struct{ kind string }

func (b block) ID() string { return b.kind }
func (b block) Kind() string { return b.kind }

// buildGrid parses rows: '.' walkable, '~' water, '#' terrain, 'B' boulder,
// 'R' rock.
func buildGrid(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g := grid.New(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			c := core.C(x, y)
			tile, _ := g.Tile(c)
			switch ch {
			case '~':
				require.NoError(t, g.SetTerrain(c, grid.Water))
			case '#':
				require.NoError(t, g.SetTerrain(c, grid.Terrain))
			case 'B':
				g.SetOccupant(tile, block{"boulder"}, grid.Obstacle, false)
			case 'R':
				g.SetOccupant(tile, block{"rock"}, grid.Obstacle, false)
			}
		}
	}
	return g
}

func assertWellFormed(t *testing.T, start core.Coord, p Path, goals ...core.Coord) {
	t.Helper()
	require.False(t, p.Empty())
	prev := start
	for _, tile := range p {
		assert.True(t, prev.Adjacent(tile.Coord()), "%v -> %v is not a grid step", prev, tile.Coord())
		prev = tile.Coord()
	}
	assert.Contains(t, goals, p.Last().Coord())
}

func TestDistanceIsOctile(t *testing.T) {
	assert.Equal(t, 0, Distance(core.C(1, 1), core.C(1, 1)))
	assert.Equal(t, 30, Distance(core.C(0, 0), core.C(3, 0)))
	assert.Equal(t, 28, Distance(core.C(0, 0), core.C(2, 2)))
	assert.Equal(t, 14*2+10*3, Distance(core.C(0, 0), core.C(5, 2)))
}

func TestOpenSetOrdering(t *testing.T) {
	a := candidate{g: 10, h: 20, seq: 3}
	b := candidate{g: 20, h: 10, seq: 1}
	assert.True(t, openLess(b, a), "equal f breaks ties on lower h")
	c := candidate{g: 20, h: 10, seq: 5}
	assert.True(t, openLess(b, c), "equal f and h break ties on insertion order")
	d := candidate{g: 0, h: 25, seq: 9}
	assert.True(t, openLess(d, a), "lower f wins")
}

func TestFindDiagonal(t *testing.T) {
	g := buildGrid(t,
		"...",
		"...",
		"...",
	)
	p := FindFrom(g, core.C(0, 0), []core.Coord{core.C(2, 2)}, Walkers)
	assert.Equal(t, []core.Coord{core.C(1, 1), core.C(2, 2)}, p.Coords())
}

func TestFindAroundObstacles(t *testing.T) {
	g := buildGrid(t,
		".B...",
		".B.B.",
		"...B.",
	)
	start, goal := core.C(0, 0), core.C(4, 0)
	p := FindFrom(g, start, []core.Coord{goal}, Walkers)
	assertWellFormed(t, start, p, goal)
	for _, tile := range p {
		assert.Equal(t, grid.Walkable, tile.Kind())
	}
}

func TestFindIsDeterministic(t *testing.T) {
	g := buildGrid(t,
		"......",
		"..B...",
		"......",
		"...B..",
		"......",
	)
	start := core.C(0, 0)
	goals := []core.Coord{core.C(5, 4), core.C(5, 0)}
	first := FindFrom(g, start, goals, Walkers).Coords()
	require.NotEmpty(t, first)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, FindFrom(g, start, goals, Walkers).Coords())
	}
}

func TestFindNearestOfSeveralGoals(t *testing.T) {
	g := buildGrid(t,
		".......",
	)
	start := core.C(3, 0)
	p := FindFrom(g, start, []core.Coord{core.C(0, 0), core.C(5, 0)}, Walkers)
	assertWellFormed(t, start, p, core.C(5, 0))
	assert.Len(t, p, 2)
}

func TestFindByWorldPosition(t *testing.T) {
	g := grid.NewWithLayout(3, 1, core.V(0, 0), 2)
	p := Find(g, core.V(0.5, 0.5), []core.Vec{core.V(5.5, 1), core.V(100, 100)}, Walkers)
	assert.Equal(t, []core.Coord{core.C(1, 0), core.C(2, 0)}, p.Coords())
}

func TestUnreachableReturnsEmpty(t *testing.T) {
	g := buildGrid(t,
		"..#..",
		"..#..",
		"..#..",
	)
	p := FindFrom(g, core.C(0, 1), []core.Coord{core.C(4, 1)}, Walkers)
	assert.True(t, p.Empty())
}

func TestFastRejectWhenBothEndsBlocked(t *testing.T) {
	g := buildGrid(t,
		"B...B",
	)
	p := FindFrom(g, core.C(0, 0), []core.Coord{core.C(4, 0)}, Walkers)
	assert.True(t, p.Empty())
}

func TestStartOnOwnObstacleStillSearches(t *testing.T) {
	g := buildGrid(t,
		"B...",
	)
	start := core.C(0, 0)
	p := FindFrom(g, start, []core.Coord{core.C(3, 0)}, Walkers)
	assertWellFormed(t, start, p, core.C(3, 0))
}

func TestExemptOccupantKinds(t *testing.T) {
	g := buildGrid(t,
		".R.",
	)
	plain := FindFrom(g, core.C(0, 0), []core.Coord{core.C(1, 0)}, Walkers)
	assert.True(t, plain.Empty())

	crab := Rule{Exempt: []string{"rock"}}
	p := FindFrom(g, core.C(0, 0), []core.Coord{core.C(1, 0)}, crab)
	assert.Equal(t, []core.Coord{core.C(1, 0)}, p.Coords())
}

func TestPhaseIgnoresObstaclesButNotTerrain(t *testing.T) {
	g := buildGrid(t,
		".BBB.",
		"#####",
	)
	ghost := Rule{Phase: true}
	p := FindFrom(g, core.C(0, 0), []core.Coord{core.C(4, 0)}, ghost)
	assert.Equal(t, []core.Coord{core.C(1, 0), core.C(2, 0), core.C(3, 0), core.C(4, 0)}, p.Coords())

	g2 := buildGrid(t,
		".~.",
		"###",
	)
	assert.True(t, FindFrom(g2, core.C(0, 0), []core.Coord{core.C(2, 0)}, ghost).Empty())
}

func TestAcceptedKinds(t *testing.T) {
	g := buildGrid(t,
		".~.",
		"###",
	)
	swimmer := Rule{Kinds: []grid.Kind{grid.Walkable, grid.Water}}
	p := FindFrom(g, core.C(0, 0), []core.Coord{core.C(2, 0)}, swimmer)
	assert.Len(t, p, 2)
}

func TestWithinRestrictsSearch(t *testing.T) {
	g := buildGrid(t,
		".B.",
		"...",
		"...",
	)
	start, _ := g.Tile(core.C(0, 0))
	goal := core.C(2, 0)

	narrow := Rule{Within: g.Area(start, 1)}
	assert.True(t, FindFrom(g, start.Coord(), []core.Coord{goal}, narrow).Empty())

	wide := Rule{Within: g.Area(start, 2)}
	p := FindFrom(g, start.Coord(), []core.Coord{goal}, wide)
	assertWellFormed(t, start.Coord(), p, goal)
}
