// Package turn coordinates one player turn: a tool is applied to the grid,
// every turn-reactive entity reacts over as many ticks as it needs, and the
// turn closes only when the last of them is done.
package turn

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/event"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/obstacles"
	"github.com/vovakirdan/wayhome/internal/pathfind"
)

var (
	// ErrActionsNotAllowed is returned when a tool is used outside an idle
	// turn, with no moves left, or while the actor walks or is dead.
	ErrActionsNotAllowed = errors.New("turn: actions not allowed")
	// ErrNoTarget is returned when nothing on the target tile reacts to the
	// tool. No move is spent.
	ErrNoTarget = errors.New("turn: nothing to act on")
)

// State is the coordinator's turn state.
type State uint8

const (
	Idle State = iota
	ToolApplied
	AwaitingReactions
	TurnClosed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ToolApplied:
		return "tool applied"
	case AwaitingReactions:
		return "awaiting reactions"
	case TurnClosed:
		return "turn closed"
	default:
		return "unknown"
	}
}

// Actor is the part of the character the coordinator needs.
type Actor interface {
	Moving() bool
	Alive() bool
	CheckFooting() bool
	RecomputePath() pathfind.Path
}

// Source lists the entities that react to turns.
type Source interface {
	TurnReactive() []grid.TurnReactive
}

// Action is one tool use.
type Action struct {
	Tool   grid.Tool
	Target core.Coord
	// Dest is the destination of a command.
	Dest core.Coord
}

// String formats the action like the script syntax.
func (a Action) String() string {
	if a.Tool == grid.ToolCommand {
		return fmt.Sprintf("%s %d %d %d %d", a.Tool, a.Target.X, a.Target.Y, a.Dest.X, a.Dest.Y)
	}
	return fmt.Sprintf("%s %d %d", a.Tool, a.Target.X, a.Target.Y)
}

// Options configures the tools.
type Options struct {
	Moves          int
	LightningPower int // default 2
	TremorSize     int // side of the tremor square, default 2
}

// Coordinator runs turns.
type Coordinator struct {
	w      *entity.World
	log    *log.Logger
	actor  Actor
	source Source
	sink   event.Sink
	opts   Options

	state   State
	moves   int
	pending []grid.TurnReactive
	members mapset.Set[string]
	ticks   int
}

// New creates a coordinator and hooks it to entity removal. A nil sink
// discards events.
func New(w *entity.World, actor Actor, source Source, sink event.Sink, opts Options) *Coordinator {
	if sink == nil {
		sink = event.Discard
	}
	if opts.LightningPower <= 0 {
		opts.LightningPower = 2
	}
	if opts.TremorSize <= 0 {
		opts.TremorSize = 2
	}
	c := &Coordinator{
		w:       w,
		log:     w.Log,
		actor:   actor,
		source:  source,
		sink:    sink,
		opts:    opts,
		moves:   opts.Moves,
		members: mapset.New[string](),
	}
	w.OnRemove(c.Unregister)
	return c
}

// State returns the current turn state.
func (c *Coordinator) State() State { return c.state }

// Moves returns the tool uses left.
func (c *Coordinator) Moves() int { return c.moves }

// SetMoves overrides the tool uses left, for restoring a save.
func (c *Coordinator) SetMoves(n int) { c.moves = n }

// Pending returns how many entities are still reacting.
func (c *Coordinator) Pending() int { return c.members.Size() }

// Allowed reports whether a tool other than Inspect may be used now.
func (c *Coordinator) Allowed() bool {
	return c.state == Idle && c.moves > 0 && c.actor.Alive() && !c.actor.Moving()
}

// ApplyTool uses a tool. Inspect is free and always allowed. Any other
// tool costs a move once something on the target reacts, and opens a turn.
func (c *Coordinator) ApplyTool(a Action) error {
	if a.Tool == grid.ToolInspect {
		return c.inspect(a.Target)
	}
	if !c.Allowed() {
		return ErrActionsNotAllowed
	}
	tile, ok := c.w.Grid.Tile(a.Target)
	if !ok {
		return ErrNoTarget
	}
	if !c.dispatch(a, tile) {
		return ErrNoTarget
	}
	c.state = ToolApplied
	c.moves--
	c.log.Debug("tool applied", "action", a.String(), "moves", c.moves)
	c.sink.Emit(event.MovesRemaining{N: c.moves})
	c.open()
	return nil
}

func (c *Coordinator) inspect(at core.Coord) error {
	tile, ok := c.w.Grid.Tile(at)
	if !ok {
		return ErrNoTarget
	}
	text, ok := grid.Inspect(tile)
	if !ok {
		text = fmt.Sprintf("%s tile", tile.Kind())
	}
	c.sink.Emit(event.Inspected{At: at, Text: text})
	return nil
}

func (c *Coordinator) dispatch(a Action, tile *grid.Tile) bool {
	g := c.w.Grid
	switch a.Tool {
	case grid.ToolLightning:
		return g.LightningStrike(tile, c.opts.LightningPower)
	case grid.ToolTremor:
		return g.TremorTiles(c.TremorArea(a.Target)) > 0
	case grid.ToolGrow:
		return grid.Grow(tile) || c.growLilypad(tile)
	case grid.ToolCommand:
		dest, ok := g.Tile(a.Dest)
		return ok && grid.Command(tile, dest)
	}
	return false
}

// TremorArea returns the tiles a tremor at target shakes: a square anchored
// at target, clipped to the grid.
func (c *Coordinator) TremorArea(target core.Coord) []*grid.Tile {
	var tiles []*grid.Tile
	for dy := 0; dy < c.opts.TremorSize; dy++ {
		for dx := 0; dx < c.opts.TremorSize; dx++ {
			if t, ok := c.w.Grid.Tile(target.Add(dx, dy)); ok {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

func (c *Coordinator) growLilypad(tile *grid.Tile) bool {
	if tile.Kind() != grid.Water || !tile.Empty() {
		return false
	}
	if _, err := c.w.Spawn(entity.Spec{Kind: obstacles.KindLilypad, At: tile.Coord(), HP: 1}); err != nil {
		c.log.Warn("lilypad not grown", "at", tile.Coord(), "err", err)
		return false
	}
	return true
}

// open snapshots every turn-reactive entity and starts its reaction.
func (c *Coordinator) open() {
	c.pending = c.source.TurnReactive()
	c.members = mapset.New[string]()
	for _, e := range c.pending {
		c.members.Put(e.ID())
	}
	c.ticks = 0
	c.state = AwaitingReactions
	for _, e := range c.pending {
		if c.members.Has(e.ID()) {
			e.BeginTurn()
		}
	}
	c.prune()
}

// Tick advances every pending reaction by one step and closes the turn
// once none is left.
func (c *Coordinator) Tick() {
	if c.state != AwaitingReactions {
		return
	}
	c.ticks++
	for _, e := range c.pending {
		if c.members.Has(e.ID()) && e.Reacting() {
			e.Advance()
		}
	}
	c.prune()
}

// Unregister drops a removed entity from the pending set.
func (c *Coordinator) Unregister(o grid.Occupant) {
	c.members.Remove(o.ID())
}

func (c *Coordinator) prune() {
	kept := c.pending[:0]
	for _, e := range c.pending {
		if !c.members.Has(e.ID()) {
			continue
		}
		if !e.Reacting() {
			c.members.Remove(e.ID())
			continue
		}
		kept = append(kept, e)
	}
	c.pending = kept
	if c.members.Size() == 0 {
		c.close()
	}
}

func (c *Coordinator) close() {
	c.state = TurnClosed
	c.pending = nil
	c.log.Debug("turn closed", "ticks", c.ticks)
	if c.actor.CheckFooting() {
		c.actor.RecomputePath()
	}
	c.state = Idle
}
