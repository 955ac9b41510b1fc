package grid

import "github.com/vovakirdan/wayhome/internal/core"

// Find returns the first occupant of t implementing T, trying the obstacle
// slot before the platform slot.
func Find[T any](t *Tile) (T, bool) {
	var zero T
	if t == nil {
		return zero, false
	}
	if c, ok := t.obstacle.(T); ok {
		return c, true
	}
	if c, ok := t.platform.(T); ok {
		return c, true
	}
	return zero, false
}

// Inspect returns the description of the first inspectable occupant.
func Inspect(t *Tile) (string, bool) {
	c, ok := Find[Inspectable](t)
	if !ok {
		return "", false
	}
	return c.OnInspect(), true
}

// LightningHit strikes the tile with the given power.
func LightningHit(t *Tile, power int) bool {
	c, ok := Find[LightningReactive](t)
	if !ok {
		return false
	}
	c.OnLightningHit(power)
	return true
}

// LightningAftershock notifies the tile of a strike at origin.
func LightningAftershock(t *Tile, origin core.Coord) bool {
	c, ok := Find[AftershockReactive](t)
	if !ok {
		return false
	}
	c.OnAftershock(origin)
	return true
}

// Grow applies the grow tool to the tile.
func Grow(t *Tile) bool {
	c, ok := Find[Growable](t)
	if !ok {
		return false
	}
	c.OnGrow()
	return true
}

// Tremor shakes the tile.
func Tremor(t *Tile) bool {
	c, ok := Find[TremorReactive](t)
	if !ok {
		return false
	}
	c.OnTremor()
	return true
}

// Command orders the commandable occupant of t to dest. It reports true
// only when an occupant accepted the order.
func Command(t *Tile, dest *Tile) bool {
	c, ok := Find[Commandable](t)
	if !ok || dest == nil {
		return false
	}
	return c.OnCommand(dest)
}

// TrapTrigger sets off the tile's trap for tr.
func TrapTrigger(t *Tile, tr Trespasser) bool {
	c, ok := Find[TrapTriggerable](t)
	if !ok {
		return false
	}
	c.OnTrapTrigger(tr)
	return true
}

// SelectableBy reports whether an occupant of t accepts the tool.
func SelectableBy(t *Tile, tool Tool) bool {
	c, ok := Find[Selectable](t)
	return ok && c.SelectableBy(tool)
}

// TremorTiles shakes every tile in the list and returns how many handled it.
func (g *Grid) TremorTiles(tiles []*Tile) int {
	n := 0
	for _, t := range tiles {
		if Tremor(t) {
			n++
		}
	}
	return n
}

// LightningStrike hits t and sends an aftershock to each of its
// neighbours. The neighbourhood is snapshotted before any handler runs, so
// handlers may move or remove occupants freely.
func (g *Grid) LightningStrike(t *Tile, power int) bool {
	if t == nil {
		return false
	}
	neighbors := Sorted(g.Neighbors(t, 1))
	handled := LightningHit(t, power)
	for _, n := range neighbors {
		if LightningAftershock(n, t.coord) {
			handled = true
		}
	}
	return handled
}
