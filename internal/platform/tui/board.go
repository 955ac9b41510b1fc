package tui

import (
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/obstacles"
)

// cellW is the number of screen columns a tile takes: the glyph sits in
// the middle, the sides carry the cursor brackets.
const cellW = 3

// Board draws a scene into a Screen. It is also the grid's renderer and
// keeps the highlight state the grid hands it.
type Board struct {
	highlights map[core.Coord]core.Color
	changes    int
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{highlights: make(map[core.Coord]core.Color)}
}

// SetTileColor implements grid.Renderer.
func (b *Board) SetTileColor(c core.Coord, color core.Color) {
	if color == core.ColorTransparent {
		delete(b.highlights, c)
		return
	}
	b.highlights[c] = color
}

// TileChanged implements grid.Renderer.
func (b *Board) TileChanged(*grid.Tile) { b.changes++ }

// Highlight returns the colour the grid last set on c.
func (b *Board) Highlight(c core.Coord) core.Color { return b.highlights[c] }

// Changes returns how many tile changes the grid reported.
func (b *Board) Changes() int { return b.changes }

// Reset forgets all highlights. Call it before rebuilding the scene.
func (b *Board) Reset() {
	clear(b.highlights)
	b.changes = 0
}

// Overlay is the player's selection state drawn over the scene.
type Overlay struct {
	Cursor      *core.Coord
	Source      *core.Coord // command source awaiting a destination
	Tool        grid.Tool
	ShowTargets bool
}

// Size returns the screen size needed to draw g.
func (b *Board) Size(g *grid.Grid) (width, height int) {
	return g.Width() * cellW, g.Height()
}

// Draw renders e's scene into s with the overlay on top. Row 0 is drawn
// at the top.
func (b *Board) Draw(s *core.Screen, e *engine.Engine, ov Overlay) {
	s.Clear()
	g := e.Grid()
	a := e.Actor()

	goals := make(map[core.Coord]bool)
	for _, es := range a.Essences() {
		goals[es.At] = true
	}
	home := e.Level().Home

	for _, t := range g.Tiles() {
		c := t.Coord()
		r, col := glyph(t)
		bare := t.Empty()

		switch {
		case c == a.Coord():
			r, col = '@', core.ColorWhite
			if a.Dead() {
				col = core.ColorDanger
			}
		case goals[c] && bare:
			r, col = '*', core.ColorMagenta
		case home != nil && c == *home && bare:
			r, col = 'H', core.ColorYellow
		case bare:
			if hl, ok := b.highlights[c]; ok {
				col = hl
			}
		}
		if ov.ShowTargets && grid.SelectableBy(t, ov.Tool) {
			col = core.ColorSelectable
		}

		x := c.X*cellW + 1
		s.Set(x, c.Y, r, col)
		if ov.Source != nil && c == *ov.Source {
			s.Set(x-1, c.Y, '<', core.ColorSelected)
			s.Set(x+1, c.Y, '>', core.ColorSelected)
		}
		if ov.Cursor != nil && c == *ov.Cursor {
			s.Set(x-1, c.Y, '[', core.ColorWhite)
			s.Set(x+1, c.Y, ']', core.ColorWhite)
		}
	}
}

// Text renders e's scene as plain text.
func (b *Board) Text(e *engine.Engine, ov Overlay) string {
	w, h := b.Size(e.Grid())
	s := core.NewScreen(w, h)
	b.Draw(s, e, ov)
	return s.String()
}

func glyph(t *grid.Tile) (rune, core.Color) {
	if o := t.Obstacle(); o != nil {
		return occupantGlyph(o)
	}
	if o := t.Platform(); o != nil {
		return occupantGlyph(o)
	}
	switch t.Kind() {
	case grid.Water:
		return '~', core.ColorBlue
	case grid.Terrain, grid.Obstacle:
		return '#', core.ColorGray
	case grid.Poisoned:
		return '%', core.ColorMagenta
	default:
		return '.', core.ColorGray
	}
}

func occupantGlyph(o grid.Occupant) (rune, core.Color) {
	hp := 0
	if h, ok := o.(interface{ Hitpoints() int }); ok {
		hp = h.Hitpoints()
	}
	switch o.Kind() {
	case obstacles.KindPlant:
		if hp <= obstacles.PlantSeedling {
			return ',', core.ColorGreen
		}
		return 'P', core.ColorGreen
	case obstacles.KindPoisonPlant:
		if hp <= obstacles.PlantSeedling {
			return ',', core.ColorMagenta
		}
		return 'P', core.ColorMagenta
	case obstacles.KindMiasma:
		return '%', core.ColorMagenta
	case obstacles.KindBoulder:
		return 'O', core.ColorWhite
	case obstacles.KindTree:
		if hp == obstacles.TreeStump {
			return 't', core.ColorOrange
		}
		return 'T', core.ColorGreen
	case obstacles.KindLog:
		return '=', core.ColorOrange
	case obstacles.KindWeb:
		return 'x', core.ColorWhite
	case obstacles.KindRock:
		return 'o', core.ColorGray
	case obstacles.KindGroundSpike:
		return '^', core.ColorWhite
	case obstacles.KindFireField:
		return '!', core.ColorRed
	case obstacles.KindLilypad:
		return '0', core.ColorGreen
	case obstacles.KindRockCrab:
		if hp == obstacles.CrabBare {
			return 'c', core.ColorOrange
		}
		return 'C', core.ColorOrange
	case obstacles.KindUndead:
		if u, ok := o.(*obstacles.Undead); ok && u.Immobile() {
			return 'u', core.ColorGray
		}
		return 'U', core.ColorRed
	default:
		return '?', core.ColorYellow
	}
}
