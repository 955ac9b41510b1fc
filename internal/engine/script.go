package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/turn"
)

// ErrStalled is returned by Run when the scene does not settle within the
// tick limit.
var ErrStalled = errors.New("engine: scene did not settle")

// StepKind is the kind of a script step.
type StepKind uint8

const (
	StepTool StepKind = iota
	StepStart
	StepWait
	StepRestart
)

// Step is one scripted instruction.
type Step struct {
	Kind   StepKind
	Action turn.Action // StepTool
	Ticks  int         // StepWait
}

// String formats the step in script syntax.
func (s Step) String() string {
	switch s.Kind {
	case StepStart:
		return "start"
	case StepWait:
		return fmt.Sprintf("wait %d", s.Ticks)
	case StepRestart:
		return "restart"
	default:
		return s.Action.String()
	}
}

// ParseScript parses steps separated by semicolons or newlines:
//
//	lightning 3 1; tremor 0 0; grow 2 2; command 4 1 5 3; inspect 1 1
//	start; wait 10; restart
func ParseScript(src string) ([]Step, error) {
	var steps []Step
	for i, raw := range strings.FieldsFunc(src, func(r rune) bool { return r == ';' || r == '\n' }) {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		step, err := parseStep(fields)
		if err != nil {
			return nil, fmt.Errorf("step %d %q: %w", i+1, strings.TrimSpace(raw), err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	switch strings.ToLower(fields[0]) {
	case "start":
		return Step{Kind: StepStart}, nil
	case "restart":
		return Step{Kind: StepRestart}, nil
	case "wait":
		if len(fields) != 2 {
			return Step{}, errors.New("wait takes a tick count")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return Step{}, fmt.Errorf("bad tick count %q", fields[1])
		}
		return Step{Kind: StepWait, Ticks: n}, nil
	}
	a, err := ParseAction(fields)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepTool, Action: a}, nil
}

// ParseAction parses "<tool> x y", or "command x y dx dy".
func ParseAction(fields []string) (turn.Action, error) {
	if len(fields) == 0 {
		return turn.Action{}, errors.New("empty action")
	}
	tool, ok := grid.ParseTool(fields[0])
	if !ok {
		return turn.Action{}, fmt.Errorf("unknown tool %q", fields[0])
	}
	want := 3
	if tool == grid.ToolCommand {
		want = 5
	}
	if len(fields) != want {
		return turn.Action{}, fmt.Errorf("%s takes %d coordinates", tool, want-1)
	}
	n := make([]int, 0, 4)
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return turn.Action{}, fmt.Errorf("bad coordinate %q", f)
		}
		n = append(n, v)
	}
	a := turn.Action{Tool: tool, Target: core.C(n[0], n[1])}
	if tool == grid.ToolCommand {
		a.Dest = core.C(n[2], n[3])
	}
	return a, nil
}

// Run plays steps against the engine. Each step waits for the scene to
// settle first; after the last one the scene runs until it settles again.
// Rejected tools are logged and skipped. limit bounds every wait in ticks.
func (e *Engine) Run(ctx context.Context, steps []Step, limit int) error {
	for _, step := range steps {
		if e.Ended() && step.Kind != StepRestart {
			break
		}
		if err := e.settle(ctx, limit); err != nil {
			return err
		}
		switch step.Kind {
		case StepTool:
			if err := e.Apply(step.Action); err != nil {
				e.log.Warn("step rejected", "step", step.String(), "err", err)
			}
		case StepStart:
			if !e.Start() {
				e.log.Warn("actor cannot start", "at", e.Actor().Coord())
			}
		case StepWait:
			for i := 0; i < step.Ticks && !e.Ended(); i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				e.Tick()
			}
		case StepRestart:
			if err := e.Restart(); err != nil {
				return err
			}
		}
	}
	return e.settle(ctx, limit)
}

// settle ticks until no reaction is pending and the actor stands still.
func (e *Engine) settle(ctx context.Context, limit int) error {
	for n := 0; !e.Ended(); n++ {
		if e.Turns().State() == turn.Idle && !e.Actor().Moving() && e.Actor().Alive() {
			return nil
		}
		if n >= limit {
			return fmt.Errorf("%w after %d ticks", ErrStalled, limit)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Tick()
	}
	return nil
}
