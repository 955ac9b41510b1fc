// Package event defines the signals the simulation sends to its UI. The
// core never renders; front-ends subscribe a Sink and draw from these.
package event

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/core"
)

// Event is one UI signal. The set is closed.
type Event interface {
	fmt.Stringer
	isEvent()
}

// LevelClear is sent when the actor reaches home with every essence
// collected.
type LevelClear struct {
	Level string
	Score int
}

// GameOver is sent when the actor dies on its last life.
type GameOver struct {
	Level string
}

// TryAgain is sent when the actor dies with lives to spare.
type TryAgain struct {
	Level     string
	LivesLeft int
}

// MovesRemaining reports the tool uses left this level.
type MovesRemaining struct {
	N int
}

// EnergyRemaining reports the actor's energy after it changes.
type EnergyRemaining struct {
	N int
}

// Inspected carries the description of an inspected tile.
type Inspected struct {
	At   core.Coord
	Text string
}

func (LevelClear) isEvent() {}
func (GameOver) isEvent() {}
func (TryAgain) isEvent() {}
func (MovesRemaining) isEvent() {}
func (EnergyRemaining) isEvent() {}
func (Inspected) isEvent() {}

func (e LevelClear) String() string { return fmt.Sprintf("level clear (score %d)", e.Score) }
func (e GameOver) String() string { return "game over" }
func (e TryAgain) String() string { return fmt.Sprintf("try again (%d lives left)", e.LivesLeft) }
func (e MovesRemaining) String() string {
	return fmt.Sprintf("moves remaining: %d", e.N)
}
func (e EnergyRemaining) String() string {
	return fmt.Sprintf("energy remaining: %d", e.N)
}
func (e Inspected) String() string { return fmt.Sprintf("%s: %s", e.At, e.Text) }

// Final reports whether e ends the level attempt.
func Final(e Event) bool {
	switch e.(type) {
	case LevelClear, GameOver, TryAgain:
		return true
	}
	return false
}

// Sink receives events.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f.
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans events out to several sinks in order.
type Multi []Sink

// Emit sends e to every sink.
func (m Multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Recorder keeps every event it receives. Tests and the headless runner
// read it back.
type Recorder struct {
	events []Event
}

// Emit records e.
func (r *Recorder) Emit(e Event) { r.events = append(r.events, e) }

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event, or nil.
func (r *Recorder) Last() Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// Reset forgets every recorded event.
func (r *Recorder) Reset() { r.events = nil }

// LogSink writes each event to a logger.
type LogSink struct {
	Log *log.Logger
}

// Emit logs e. Final events are logged at info level, the rest at debug.
func (s LogSink) Emit(e Event) {
	if Final(e) {
		s.Log.Info(e.String(), "event", fmt.Sprintf("%T", e))
		return
	}
	s.Log.Debug(e.String(), "event", fmt.Sprintf("%T", e))
}
