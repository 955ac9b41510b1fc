// Package engine is the scene: it builds a level into a grid, its entities,
// the actor and the turn coordinator, ticks them in order and tracks lives,
// score and the saved state of an attempt.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/actor"
	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/event"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/level"
	_ "github.com/vovakirdan/wayhome/internal/obstacles" // registers the entity kinds
	"github.com/vovakirdan/wayhome/internal/registry"
	"github.com/vovakirdan/wayhome/internal/turn"
)

var (
	// ErrNoLives is returned by Restart on the last life.
	ErrNoLives = errors.New("engine: no lives left")
	// ErrBusy is returned when the scene cannot be saved mid-turn or while
	// the actor walks.
	ErrBusy = errors.New("engine: scene is busy")
	// ErrOver is returned for actions after the attempt ended.
	ErrOver = errors.New("engine: level is over")
)

// Options configures an Engine. Every field is optional.
type Options struct {
	Logger   *log.Logger
	Sink     event.Sink
	Renderer grid.Renderer
}

// Engine runs one level.
type Engine struct {
	lvl      level.Level
	cfg      config.Config
	log      *log.Logger
	sink     event.Sink
	renderer grid.Renderer
	lives    int

	scene *scene
}

// scene is everything rebuilt on restart or restore.
type scene struct {
	grid    *grid.Grid
	world   *entity.World
	roster  *entity.Roster
	actor   *actor.Character
	turns   *turn.Coordinator
	spawned map[string]entity.Spec
	ticks   int
	ended   bool
}

// New builds lvl. The level is validated first.
func New(lvl level.Level, cfg config.Config, opts Options) (*Engine, error) {
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sinks := event.Multi{event.LogSink{Log: logger}}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}
	e := &Engine{
		lvl:      lvl,
		cfg:      cfg,
		log:      logger,
		sink:     sinks,
		renderer: opts.Renderer,
		lives:    cfg.Session.Lives,
	}
	if e.lives <= 0 {
		e.lives = 1
	}
	if err := e.build(nil); err != nil {
		return nil, err
	}
	return e, nil
}

// build creates a fresh scene, or one resumed from st.
func (e *Engine) build(st *SaveState) error {
	g, err := e.lvl.Grid(e.cfg.Sim.CellSize)
	if err != nil {
		return err
	}
	if e.renderer != nil {
		g.BindRenderer(e.renderer)
	}
	w := entity.NewWorld(g, e.log)
	w.Speed = e.cfg.Sim.EntitySpeed
	for name, n := range e.cfg.Clips {
		w.Clips[name] = n
	}
	s := &scene{
		grid:    g,
		world:   w,
		roster:  entity.NewRoster(),
		spawned: make(map[string]entity.Spec),
	}
	w.SetSpawner(registry.Spawner(w, s.track))

	if err := e.populate(s, st); err != nil {
		return err
	}

	start := e.lvl.Start
	if st != nil {
		start = st.Actor
	}
	essences := make([]actor.Essence, len(e.lvl.Essences))
	for i, es := range e.lvl.Essences {
		essences[i] = actor.Essence{ID: es.ID, At: es.At, Restore: es.Restore}
	}
	s.actor = actor.New(g, actor.Options{
		Start:    start,
		Energy:   e.lvl.Energy,
		Essences: essences,
		Required: e.lvl.Required,
		Home:     e.lvl.Home,
		StepCost: e.cfg.Actor.StepCost,
		Speed:    e.cfg.Sim.ActorSpeed,
	}, w.NewPlayer(), e.sink, e.log)
	w.Quarry = s.actor

	s.turns = turn.New(w, s.actor, s.roster, e.sink, turn.Options{
		Moves:          e.lvl.Moves + e.cfg.Session.MoveBonus,
		LightningPower: e.cfg.Tools.LightningPower,
		TremorSize:     e.cfg.Tools.TremorSize,
	})
	if st != nil {
		s.actor.Resume(st.Energy, st.Consumed)
		s.turns.SetMoves(st.Moves)
		e.lives = st.Lives
	}

	e.scene = s
	s.actor.RecomputePath()
	e.sink.Emit(event.MovesRemaining{N: s.turns.Moves()})
	e.sink.Emit(event.EnergyRemaining{N: s.actor.Energy()})
	e.log.Debug("level built", "level", e.lvl.ID, "entities", s.roster.Len(), "lives", e.lives)
	return nil
}

// populate creates the level's entities and, when resuming, the spawned
// ones, then applies the saved hitpoints.
func (e *Engine) populate(s *scene, st *SaveState) error {
	records := make(map[string]EntityState)
	if st != nil {
		for _, r := range st.Entities {
			records[r.ID] = r
		}
	}

	add := func(spec entity.Spec, spawned bool) error {
		ent, err := registry.Create(spec, s.world)
		if err != nil {
			return err
		}
		r, saved := records[spec.ID]
		if !saved || (r.HP > 0 && !r.Removed) {
			if err := ent.Init(); err != nil {
				if !saved {
					return fmt.Errorf("engine: placing %s: %w", spec.ID, err)
				}
				// Left for Restore to settle.
				e.log.Warn("saved entity not placed", "id", spec.ID, "err", err)
			}
		}
		if err := s.roster.Add(ent); err != nil {
			return err
		}
		if spawned {
			s.spawned[spec.ID] = spec
		}
		return nil
	}

	for _, spec := range e.lvl.Specs() {
		if r, ok := records[spec.ID]; ok {
			spec.At = r.At
		}
		if err := add(spec, false); err != nil {
			return err
		}
	}
	if st == nil {
		return nil
	}

	hp := make(map[string]int, len(st.Entities))
	var gone []string
	for _, r := range st.Entities {
		if r.Spawned {
			if err := add(r.Spec(), true); err != nil {
				return err
			}
		}
		if r.Removed {
			gone = append(gone, r.ID)
			continue
		}
		hp[r.ID] = r.HP
	}
	if err := s.roster.Restore(hp); err != nil {
		return fmt.Errorf("engine: restoring %s: %w", e.lvl.ID, err)
	}
	// Removed entities stay removed, whatever their kind does at hp 0.
	for _, id := range gone {
		ent, ok := s.roster.Get(id)
		if !ok {
			return fmt.Errorf("engine: restoring %s: unknown id %s", e.lvl.ID, id)
		}
		ent.Remove()
	}
	return nil
}

// track registers an entity spawned during play.
func (s *scene) track(ent entity.Entity, spec entity.Spec) error {
	if err := s.roster.Add(ent); err != nil {
		return err
	}
	s.spawned[spec.ID] = spec
	return nil
}

// Level returns the level definition.
func (e *Engine) Level() level.Level { return e.lvl }

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.Config { return e.cfg }

// Grid returns the current grid.
func (e *Engine) Grid() *grid.Grid { return e.scene.grid }

// Actor returns the character.
func (e *Engine) Actor() *actor.Character { return e.scene.actor }

// Turns returns the turn coordinator.
func (e *Engine) Turns() *turn.Coordinator { return e.scene.turns }

// Roster returns the scene's entities.
func (e *Engine) Roster() *entity.Roster { return e.scene.roster }

// Lives returns the lives left, the current attempt included.
func (e *Engine) Lives() int { return e.lives }

// Ticks returns the ticks run in the current attempt.
func (e *Engine) Ticks() int { return e.scene.ticks }

// Ended reports whether the attempt is over.
func (e *Engine) Ended() bool { return e.scene.ended }

// Outcome returns how the attempt stands.
func (e *Engine) Outcome() actor.Outcome { return e.scene.actor.Outcome() }

// Score is the current energy times the score multiplier.
func (e *Engine) Score() int {
	return e.scene.actor.Score(e.cfg.Actor.ScoreMultiplier)
}

// Idle reports whether a tool may be applied or the actor started.
func (e *Engine) Idle() bool {
	s := e.scene
	return !s.ended && s.turns.State() == turn.Idle && !s.actor.Moving()
}

// Apply uses a tool. Inspect works even after the attempt ended.
func (e *Engine) Apply(a turn.Action) error {
	if e.scene.ended && a.Tool != grid.ToolInspect {
		return ErrOver
	}
	return e.scene.turns.ApplyTool(a)
}

// Start sends the actor along its path. It only works between turns.
func (e *Engine) Start() bool {
	s := e.scene
	if s.ended || s.turns.State() != turn.Idle {
		return false
	}
	return s.actor.BeginMove()
}

// Tick advances the scene: pending reactions first, then the actor.
func (e *Engine) Tick() {
	s := e.scene
	if s.ended {
		return
	}
	s.ticks++
	s.turns.Tick()
	s.actor.Advance()
	e.checkOutcome()
}

func (e *Engine) checkOutcome() {
	s := e.scene
	switch s.actor.Outcome() {
	case actor.Cleared:
		s.ended = true
		score := e.Score()
		e.log.Info("level cleared", "level", e.lvl.ID, "score", score, "ticks", s.ticks)
		e.sink.Emit(event.LevelClear{Level: e.lvl.ID, Score: score})
	case actor.Died:
		s.ended = true
		if e.lives > 1 {
			e.sink.Emit(event.TryAgain{Level: e.lvl.ID, LivesLeft: e.lives - 1})
			return
		}
		e.sink.Emit(event.GameOver{Level: e.lvl.ID})
	}
}

// Restart spends a life and rebuilds the level from its definition.
func (e *Engine) Restart() error {
	if e.lives <= 1 {
		return ErrNoLives
	}
	e.lives--
	e.log.Info("level restarted", "level", e.lvl.ID, "lives", e.lives)
	return e.build(nil)
}

// Snapshot captures the scene between turns.
func (e *Engine) Snapshot() (SaveState, error) {
	s := e.scene
	if s.ended {
		return SaveState{}, ErrOver
	}
	if !e.Idle() {
		return SaveState{}, ErrBusy
	}
	st := SaveState{
		Level:    e.lvl.ID,
		Moves:    s.turns.Moves(),
		Lives:    e.lives,
		Energy:   s.actor.Energy(),
		Actor:    s.actor.Coord(),
		Consumed: s.actor.Consumed(),
	}
	hp := s.roster.Hitpoints()
	for _, ent := range s.roster.All() {
		r := EntityState{ID: ent.ID(), Kind: ent.Kind(), At: ent.Coord(), HP: hp[ent.ID()], Removed: ent.Removed()}
		if spec, ok := s.spawned[ent.ID()]; ok {
			r.Spawned = true
			r.Params = spec.Params
		}
		st.Entities = append(st.Entities, r)
	}
	return st, nil
}

// Restore rebuilds the level in the saved state.
func (e *Engine) Restore(st SaveState) error {
	if st.Level != e.lvl.ID {
		return fmt.Errorf("engine: save is for level %q, not %q", st.Level, e.lvl.ID)
	}
	if st.Lives <= 0 {
		return fmt.Errorf("engine: save has %d lives", st.Lives)
	}
	prev := e.scene
	lives := e.lives
	if err := e.build(&st); err != nil {
		e.scene = prev
		e.lives = lives
		return err
	}
	e.log.Info("level restored", "level", e.lvl.ID, "moves", st.Moves, "energy", st.Energy)
	return nil
}

// SaveState is the persisted form of a scene between turns. Every entity
// is reduced to its hitpoints; spawned ones also keep what rebuilds them.
type SaveState struct {
	Level    string
	Moves    int
	Lives    int
	Energy   int
	Actor    core.Coord
	Consumed []string
	Entities []EntityState
}

// EntityState is one entity in a save.
type EntityState struct {
	ID      string
	Kind    string
	At      core.Coord
	HP      int
	Spawned bool
	Removed bool
	Params  map[string]any
}

// Spec returns the spec that rebuilds a spawned entity.
func (r EntityState) Spec() entity.Spec {
	return entity.Spec{ID: r.ID, Kind: r.Kind, At: r.At, HP: r.HP, Params: r.Params}
}

// Hitpoints returns the id -> hitpoints map of the save.
func (st SaveState) Hitpoints() map[string]int {
	out := make(map[string]int, len(st.Entities))
	for _, r := range st.Entities {
		out[r.ID] = r.HP
	}
	return out
}
