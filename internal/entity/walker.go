package entity

import (
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/pathfind"
)

// Walker follows a path one tick at a time. Its state is the whole of a
// mover's progress between ticks: the path, the index of the tile being
// approached and the interpolated position.
type Walker struct {
	path    pathfind.Path
	index   int
	pos     core.Vec
	speed   float64
	walking bool
}

// Start begins following p from pos. An empty path leaves the walker idle.
func (w *Walker) Start(pos core.Vec, p pathfind.Path, speed float64) bool {
	w.pos = pos
	w.path = p
	w.index = 0
	w.speed = speed
	w.walking = len(p) > 0
	return w.walking
}

// Walking reports whether the walker still has tiles ahead.
func (w *Walker) Walking() bool { return w.walking }

// Stop abandons the rest of the path.
func (w *Walker) Stop() { w.walking = false }

// Position returns the interpolated world position.
func (w *Walker) Position() core.Vec { return w.pos }

// Path returns the path being followed.
func (w *Walker) Path() pathfind.Path { return w.path }

// Index returns the index of the tile being approached.
func (w *Walker) Index() int { return w.index }

// Target returns the tile being approached, or nil when idle.
func (w *Walker) Target() *grid.Tile {
	if !w.walking {
		return nil
	}
	return w.path[w.index]
}

// Step advances one tick and returns the tile reached on this tick, or nil
// when still between tiles. Reaching the last tile ends the walk.
func (w *Walker) Step() *grid.Tile {
	if !w.walking {
		return nil
	}
	target := w.path[w.index]
	if w.speed <= 0 {
		w.pos = target.World()
	} else {
		w.pos = w.pos.MoveTowards(target.World(), w.speed)
	}
	if w.pos != target.World() {
		return nil
	}
	w.index++
	if w.index >= len(w.path) {
		w.walking = false
	}
	return target
}
