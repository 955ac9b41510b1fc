// Package actor implements the character the player guides home. It walks
// the shortest path to the nearest essence, collecting every required
// essence before heading to its home tile.
package actor

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/event"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/pathfind"
)

// Outcome is how a level attempt ended, as far as the actor knows.
type Outcome uint8

const (
	Playing Outcome = iota
	Cleared
	Died
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case Cleared:
		return "cleared"
	case Died:
		return "died"
	default:
		return "unknown"
	}
}

// Essence is a collectible goal.
type Essence struct {
	ID      string
	At      core.Coord
	Restore int // energy gained on pickup
}

// Options configures a Character.
type Options struct {
	Start    core.Coord
	Energy   int
	Essences []Essence
	// Required is how many essences must be collected. Zero means all.
	Required int
	// Home is the tile to reach once the essences are collected. Without
	// one the level clears on the last required essence.
	Home *core.Coord
	// StepCost is the energy spent per tile entered. Zero means 1.
	StepCost int
	// Speed is in world units per tick; zero or less moves a tile per tick.
	Speed float64
	Rule  pathfind.Rule
}

// Character is the actor.
type Character struct {
	g    *grid.Grid
	log  *log.Logger
	sink event.Sink
	anim entity.AnimationPlayer
	opts Options

	pos      core.Coord
	energy   int
	required int
	consumed map[string]bool
	path     pathfind.Path
	walker   entity.Walker
	dying    entity.Delay
	dead     bool
	outcome  Outcome
}

// New places a character on g. A nil sink or logger discards output; a nil
// animation player has zero-length clips.
func New(g *grid.Grid, opts Options, anim entity.AnimationPlayer, sink event.Sink, logger *log.Logger) *Character {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sink == nil {
		sink = event.Discard
	}
	if anim == nil {
		anim = entity.NewClipPlayer(nil)
	}
	if opts.StepCost <= 0 {
		opts.StepCost = 1
	}
	if len(opts.Rule.Kinds) == 0 {
		opts.Rule.Kinds = pathfind.Walkers.Kinds
	}
	required := opts.Required
	if required <= 0 || required > len(opts.Essences) {
		required = len(opts.Essences)
	}
	return &Character{
		g:        g,
		log:      logger,
		sink:     sink,
		anim:     anim,
		opts:     opts,
		pos:      opts.Start,
		energy:   opts.Energy,
		required: required,
		consumed: make(map[string]bool),
	}
}

// Coord returns the tile the character stands on or last entered.
func (c *Character) Coord() core.Coord { return c.pos }

// Position returns the interpolated world position.
func (c *Character) Position() core.Vec {
	if c.walker.Walking() {
		return c.walker.Position()
	}
	return c.g.WorldOf(c.pos)
}

// Energy returns the remaining energy.
func (c *Character) Energy() int { return c.energy }

// Required returns how many essences are still needed.
func (c *Character) Required() int { return c.required }

// Path returns the current path.
func (c *Character) Path() pathfind.Path { return c.path }

// Moving reports whether the character is walking.
func (c *Character) Moving() bool { return c.walker.Walking() }

// Alive reports whether the character can still act.
func (c *Character) Alive() bool { return !c.dead && c.outcome == Playing }

// Dead reports whether the character has been killed, even while its death
// clip still plays.
func (c *Character) Dead() bool { return c.dead }

// Outcome reports how the attempt ended. Death is only reported once the
// death clip finished.
func (c *Character) Outcome() Outcome { return c.outcome }

// Score is the remaining energy times multiplier.
func (c *Character) Score(multiplier int) int { return c.energy * multiplier }

// Consumed returns the ids of the collected essences in level order.
func (c *Character) Consumed() []string {
	var out []string
	for _, e := range c.opts.Essences {
		if c.consumed[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

// Resume restores a saved energy level and collected essences.
func (c *Character) Resume(energy int, consumed []string) {
	c.energy = energy
	for _, id := range consumed {
		for _, e := range c.opts.Essences {
			if e.ID == id && !c.consumed[id] {
				c.consumed[id] = true
				c.required--
			}
		}
	}
	if c.required < 0 {
		c.required = 0
	}
}

// Essences returns the essences not yet collected.
func (c *Character) Essences() []Essence {
	var out []Essence
	for _, e := range c.opts.Essences {
		if !c.consumed[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Goals returns the tiles the character is currently heading for: every
// remaining essence while some are required, then home.
func (c *Character) Goals() []core.Coord {
	if c.required > 0 {
		var goals []core.Coord
		for _, e := range c.Essences() {
			goals = append(goals, e.At)
		}
		return goals
	}
	if c.opts.Home != nil {
		return []core.Coord{*c.opts.Home}
	}
	return nil
}

// RecomputePath finds the path to the nearest goal and highlights it. No
// path is not an error: the path is left empty and a warning logged.
func (c *Character) RecomputePath() pathfind.Path {
	if len(c.path) > 0 {
		c.g.Highlight(c.path.Coords(), core.ColorTransparent)
	}
	c.path = pathfind.FindFrom(c.g, c.pos, c.Goals(), c.opts.Rule)
	if c.path.Empty() {
		c.log.Warn("no path for actor", "at", c.pos, "required", c.required)
		return c.path
	}
	c.log.Debug("actor path", "nodes", len(c.path), "to", c.path.Last().Coord())
	c.g.Highlight(c.path.Coords(), core.ColorPath)
	return c.path
}

// BeginMove starts walking the current path. It reports false when there
// is nothing to walk or the character cannot move.
func (c *Character) BeginMove() bool {
	if !c.CheckFooting() || c.walker.Walking() || c.path.Empty() {
		return false
	}
	return c.walker.Start(c.g.WorldOf(c.pos), c.path, c.opts.Speed)
}

// CheckFooting kills the character when its own tile has turned
// Poisoned, as when miasma spreads under it. It reports whether the
// character is still alive.
func (c *Character) CheckFooting() bool {
	if !c.Alive() {
		return false
	}
	if t, ok := c.g.Tile(c.pos); ok && t.Kind() == grid.Poisoned {
		c.log.Info("actor poisoned", "at", c.pos)
		c.Kill()
		return false
	}
	return true
}

// Advance runs one tick: a step along the path, or the death clip.
func (c *Character) Advance() {
	if c.dying.Active() {
		if c.dying.Tick() {
			c.outcome = Died
		}
		return
	}
	if t := c.walker.Step(); t != nil {
		c.arrive(t)
	}
}

// AdjustEnergy implements grid.Trespasser. Energy running out kills.
func (c *Character) AdjustEnergy(delta int) {
	c.setEnergy(c.energy + delta)
}

// Kill implements grid.Trespasser and entity.Quarry.
func (c *Character) Kill() {
	if c.dead || c.outcome != Playing {
		return
	}
	c.dead = true
	c.walker.Stop()
	c.anim.Play(entity.ClipDeath)
	c.dying.Start(c.anim.CurrentClipLength())
	c.log.Info("actor died", "at", c.pos, "energy", c.energy)
}

func (c *Character) setEnergy(n int) {
	if n < 0 {
		n = 0
	}
	c.energy = n
	c.sink.Emit(event.EnergyRemaining{N: n})
	if n == 0 {
		c.Kill()
	}
}

func (c *Character) arrive(t *grid.Tile) {
	c.pos = t.Coord()
	c.g.Highlight([]core.Coord{c.pos}, core.ColorTransparent)
	grid.TrapTrigger(t, c)
	if c.dead {
		return
	}
	// The step is paid before goals are checked; a goal reached on the
	// last point of energy still counts.
	c.energy = max(0, c.energy-c.opts.StepCost)
	if c.reachedGoal() {
		c.sink.Emit(event.EnergyRemaining{N: c.energy})
		return
	}
	c.setEnergy(c.energy)
}

// reachedGoal consumes the essence or enters home on the current tile.
func (c *Character) reachedGoal() bool {
	if c.required > 0 {
		for _, e := range c.opts.Essences {
			if e.At != c.pos || c.consumed[e.ID] {
				continue
			}
			c.walker.Stop()
			c.consumed[e.ID] = true
			c.required--
			c.log.Info("essence collected", "id", e.ID, "required", c.required)
			c.energy += e.Restore
			if c.required == 0 && c.opts.Home == nil {
				c.clear()
				return true
			}
			c.RecomputePath()
			return true
		}
		return false
	}
	if c.opts.Home != nil && *c.opts.Home == c.pos {
		c.walker.Stop()
		c.clear()
		return true
	}
	return false
}

func (c *Character) clear() {
	c.outcome = Cleared
	c.g.ClearHighlights()
	c.log.Info("level clear", "energy", c.energy)
}
