// Package grid owns the tile map: terrain kinds, occupancy slots and the
// spatial queries the rest of the simulation relies on. It also defines the
// capability interfaces occupants implement and the tile dispatch functions
// that route tool interactions to them.
package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/wayhome/internal/core"
)

// Renderer is the visualization collaborator. Every method is optional in
// the sense that a grid without a renderer simply skips the calls.
type Renderer interface {
	// SetTileColor changes a tile's highlight. ColorTransparent clears it.
	SetTileColor(c core.Coord, color core.Color)
	// TileChanged is called after a tile's kind or occupancy changed.
	TileChanged(t *Tile)
}

// Grid is a fixed rectangular set of tiles. Population never changes after
// construction; only kinds and occupancy do.
type Grid struct {
	width    int
	height   int
	origin   core.Vec
	cellSize float64

	tiles       []*Tile // row-major
	renderer    Renderer
	highlighted map[core.Coord]core.Color
}

// New creates a width x height grid of Walkable tiles with unit cells and
// the origin at (0,0).
func New(width, height int) *Grid {
	return NewWithLayout(width, height, core.V(0, 0), 1)
}

// NewWithLayout creates a grid whose tile (0,0) has its lower corner at
// origin and whose cells are cellSize world units wide.
func NewWithLayout(width, height int, origin core.Vec, cellSize float64) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if cellSize <= 0 {
		cellSize = 1
	}

	g := &Grid{
		width:       width,
		height:      height,
		origin:      origin,
		cellSize:    cellSize,
		tiles:       make([]*Tile, width*height),
		highlighted: make(map[core.Coord]core.Color),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := core.C(x, y)
			g.tiles[y*width+x] = &Tile{
				coord: c,
				world: g.WorldOf(c),
				kind:  Walkable,
				base:  Walkable,
				open:  true,
			}
		}
	}
	return g
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// CellSize returns the world size of one tile.
func (g *Grid) CellSize() float64 { return g.cellSize }

// BindRenderer attaches a renderer. Passing nil detaches it.
func (g *Grid) BindRenderer(r Renderer) {
	g.renderer = r
}

// InBounds returns true if c lies within the grid.
func (g *Grid) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Tile returns the tile at c.
func (g *Grid) Tile(c core.Coord) (*Tile, bool) {
	if !g.InBounds(c) {
		return nil, false
	}
	return g.tiles[c.Y*g.width+c.X], true
}

// WorldOf returns the world-space centre of the cell at c.
func (g *Grid) WorldOf(c core.Coord) core.Vec {
	return core.V(
		g.origin.X+(float64(c.X)+0.5)*g.cellSize,
		g.origin.Y+(float64(c.Y)+0.5)*g.cellSize,
	)
}

// TileAt maps a world point to its containing tile. It fails outside the
// grid bounds.
func (g *Grid) TileAt(p core.Vec) (*Tile, bool) {
	x := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	y := int(math.Floor((p.Y - g.origin.Y) / g.cellSize))
	return g.Tile(core.C(x, y))
}

// Tiles returns every tile in row-major order.
func (g *Grid) Tiles() []*Tile {
	out := make([]*Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Neighbors returns every tile within Chebyshev distance r of t, excluding
// t itself. r=1 is the 8-neighbourhood; larger values form a bounding box.
func (g *Grid) Neighbors(t *Tile, r int) map[core.Coord]*Tile {
	out := make(map[core.Coord]*Tile)
	if t == nil || r <= 0 {
		return out
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if n, ok := g.Tile(t.coord.Add(dx, dy)); ok {
				out[n.coord] = n
			}
		}
	}
	return out
}

// Area is Neighbors plus the centre tile.
func (g *Grid) Area(t *Tile, r int) map[core.Coord]*Tile {
	out := g.Neighbors(t, r)
	if t != nil {
		out[t.coord] = t
	}
	return out
}

// Sorted returns the tiles of a neighbourhood in row-major order. Callers
// iterate this copy when handlers may mutate the grid.
func Sorted(set map[core.Coord]*Tile) []*Tile {
	out := make([]*Tile, 0, len(set))
	for _, t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].coord.Less(out[j].coord)
	})
	return out
}

// TilesOfKind returns the tiles of the given terrain kind, restricted to
// within when it is non-nil. Results are row-major.
func (g *Grid) TilesOfKind(k Kind, within map[core.Coord]*Tile) []*Tile {
	return g.filter(within, func(t *Tile) bool { return t.kind == k })
}

// TilesHolding returns the tiles with an occupant of the given entity kind,
// restricted to within when it is non-nil. Results are row-major.
func (g *Grid) TilesHolding(entityKind string, within map[core.Coord]*Tile) []*Tile {
	return g.filter(within, func(t *Tile) bool { return t.Holds(entityKind) })
}

func (g *Grid) filter(within map[core.Coord]*Tile, keep func(*Tile) bool) []*Tile {
	var src []*Tile
	if within == nil {
		src = g.tiles
	} else {
		src = Sorted(within)
	}
	var out []*Tile
	for _, t := range src {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// SetTerrain sets the static terrain of an unoccupied tile. Used while
// building a level.
func (g *Grid) SetTerrain(c core.Coord, k Kind) error {
	t, ok := g.Tile(c)
	if !ok {
		return fmt.Errorf("grid: %s out of bounds", c)
	}
	if !t.Empty() {
		return fmt.Errorf("grid: %s is occupied", c)
	}
	if k == Obstacle {
		return fmt.Errorf("grid: %s: obstacle kind needs an occupant", c)
	}
	t.base = k
	t.kind = k
	t.open = k != Terrain
	g.changed(t)
	return nil
}

// SetOpen sets the open/conductive flag.
func (g *Grid) SetOpen(t *Tile, open bool) {
	t.open = open
	g.changed(t)
}

// SetOccupant places o into the obstacle slot (or the platform slot when
// asPlatform is set) and sets the tile kind in one step. A platform can
// never imply the Obstacle kind.
func (g *Grid) SetOccupant(t *Tile, o Occupant, kind Kind, asPlatform bool) {
	if asPlatform {
		if kind == Obstacle {
			panic(fmt.Sprintf("grid: platform %s cannot make %s an obstacle tile", o.ID(), t.coord))
		}
		t.platform = o
		t.platformKind = kind
		if t.obstacle == nil {
			t.kind = kind
		}
	} else {
		t.obstacle = o
		t.kind = kind
	}
	g.changed(t)
}

// SetKind changes the kind of a tile whose obstacle is changing state in
// place (a seedling growing into an adult plant).
func (g *Grid) SetKind(t *Tile, kind Kind) {
	if kind == Obstacle && t.obstacle == nil {
		panic(fmt.Sprintf("grid: %s cannot be an obstacle tile without an obstacle", t.coord))
	}
	t.kind = kind
	g.changed(t)
}

// ClearOccupant empties the obstacle slot. The kind falls back to the
// platform's kind when a platform remains, otherwise to the static terrain.
func (g *Grid) ClearOccupant(t *Tile) {
	t.obstacle = nil
	if t.platform != nil {
		t.kind = t.platformKind
	} else {
		t.kind = t.base
	}
	g.changed(t)
}

// ClearPlatform empties the platform slot. An obstacle still present keeps
// its kind.
func (g *Grid) ClearPlatform(t *Tile) {
	t.platform = nil
	if t.obstacle == nil {
		t.kind = t.base
	}
	g.changed(t)
}

// Release clears o from whichever slot of t holds it. It is a no-op when o
// is not on t.
func (g *Grid) Release(t *Tile, o Occupant) {
	switch {
	case t.obstacle != nil && t.obstacle == o:
		g.ClearOccupant(t)
	case t.platform != nil && t.platform == o:
		g.ClearPlatform(t)
	}
}

// Highlight colours the given tiles.
func (g *Grid) Highlight(coords []core.Coord, color core.Color) {
	for _, c := range coords {
		if !g.InBounds(c) {
			continue
		}
		if color == core.ColorTransparent {
			delete(g.highlighted, c)
		} else {
			g.highlighted[c] = color
		}
		if g.renderer != nil {
			g.renderer.SetTileColor(c, color)
		}
	}
}

// ClearHighlights makes every highlighted tile transparent again.
func (g *Grid) ClearHighlights() {
	coords := make([]core.Coord, 0, len(g.highlighted))
	for c := range g.highlighted {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	g.Highlight(coords, core.ColorTransparent)
}

// HighlightAt returns the highlight colour of c.
func (g *Grid) HighlightAt(c core.Coord) core.Color {
	return g.highlighted[c]
}

func (g *Grid) changed(t *Tile) {
	if g.renderer != nil {
		g.renderer.TileChanged(t)
	}
}
