// Package pathfind implements multi-goal A* over a grid with per-mover
// walkability rules.
package pathfind

import (
	"github.com/zyedidia/generic/heap"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
)

// Step costs. The heuristic uses the same values, so it is consistent.
const (
	StraightCost = 10
	DiagonalCost = 14
)

// Path is a sequence of adjacent tiles. It excludes the start tile and ends
// on a destination. An empty path means no route.
type Path []*grid.Tile

// Empty reports whether the path has no tiles.
func (p Path) Empty() bool { return len(p) == 0 }

// Last returns the destination tile, or nil for an empty path.
func (p Path) Last() *grid.Tile {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Coords returns the tile coordinates of the path.
func (p Path) Coords() []core.Coord {
	out := make([]core.Coord, len(p))
	for i, t := range p {
		out[i] = t.Coord()
	}
	return out
}

// Distance is the octile distance between two coordinates in step-cost
// units.
func Distance(a, b core.Coord) int {
	dx := core.Abs(a.X - b.X)
	dy := core.Abs(a.Y - b.Y)
	lo, hi := core.Min(dx, dy), core.Max(dx, dy)
	return DiagonalCost*lo + StraightCost*(hi-lo)
}

// Find searches from the tile containing start to the nearest tile
// containing one of goals. Goals outside the grid are ignored.
func Find(g *grid.Grid, start core.Vec, goals []core.Vec, rule Rule) Path {
	from, ok := g.TileAt(start)
	if !ok {
		return nil
	}
	coords := make([]core.Coord, 0, len(goals))
	for _, p := range goals {
		if t, ok := g.TileAt(p); ok {
			coords = append(coords, t.Coord())
		}
	}
	return FindFrom(g, from.Coord(), coords, rule)
}

// search state for one coordinate, kept per call.
type scratch struct {
	g      int
	parent core.Coord
	root   bool
	closed bool
}

type candidate struct {
	c   core.Coord
	g   int
	h   int
	seq int
}

func (a candidate) f() int { return a.g + a.h }

// openLess orders by f, then h, then insertion order.
func openLess(a, b candidate) bool {
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// FindFrom is Find on grid coordinates.
func FindFrom(g *grid.Grid, start core.Coord, goals []core.Coord, rule Rule) Path {
	startTile, ok := g.Tile(start)
	if !ok || len(goals) == 0 {
		return nil
	}

	targets := make(map[core.Coord]bool, len(goals))
	anyPassable := false
	for _, c := range goals {
		t, ok := g.Tile(c)
		if !ok {
			continue
		}
		targets[c] = true
		if rule.Passable(t) {
			anyPassable = true
		}
	}
	if len(targets) == 0 {
		return nil
	}
	if !anyPassable && !rule.Passable(startTile) {
		return nil
	}

	h := func(c core.Coord) int {
		best := -1
		for goal := range targets {
			if d := Distance(c, goal); best < 0 || d < best {
				best = d
			}
		}
		return best
	}

	state := map[core.Coord]*scratch{start: {root: true}}
	open := heap.New[candidate](openLess)
	seq := 0
	open.Push(candidate{c: start, h: h(start), seq: seq})

	for open.Size() > 0 {
		cur, _ := open.Pop()
		st := state[cur.c]
		if st.closed || cur.g > st.g {
			continue
		}
		st.closed = true

		if targets[cur.c] && cur.c != start {
			return retrace(g, state, cur.c)
		}

		t, _ := g.Tile(cur.c)
		for _, n := range grid.Sorted(g.Neighbors(t, 1)) {
			nc := n.Coord()
			if ns, seen := state[nc]; seen && ns.closed {
				continue
			}
			if !rule.Passable(n) {
				continue
			}
			cost := StraightCost
			if nc.X != cur.c.X && nc.Y != cur.c.Y {
				cost = DiagonalCost
			}
			ng := cur.g + cost
			ns, seen := state[nc]
			if seen && ng >= ns.g {
				continue
			}
			if !seen {
				ns = &scratch{}
				state[nc] = ns
			}
			ns.g = ng
			ns.parent = cur.c
			seq++
			open.Push(candidate{c: nc, g: ng, h: h(nc), seq: seq})
		}
	}
	return nil
}

func retrace(g *grid.Grid, state map[core.Coord]*scratch, end core.Coord) Path {
	var rev Path
	for c := end; !state[c].root; c = state[c].parent {
		t, _ := g.Tile(c)
		rev = append(rev, t)
	}
	path := make(Path, len(rev))
	for i, t := range rev {
		path[len(rev)-1-i] = t
	}
	return path
}
