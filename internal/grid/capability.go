package grid

import (
	"strings"

	"github.com/vovakirdan/wayhome/internal/core"
)

// Occupant is anything that can sit in a tile slot.
type Occupant interface {
	ID() string
	Kind() string
}

// Trait is a set of boolean properties other systems consult.
type Trait uint8

const (
	Burnable Trait = 1 << iota
	Meltable
	Fragile
	Trampleable
	Corrosive
)

// Traited is implemented by occupants that declare traits.
type Traited interface {
	Traits() Trait
}

// HasTrait reports whether o declares every trait in t.
func HasTrait(o Occupant, t Trait) bool {
	if o == nil {
		return false
	}
	tr, ok := o.(Traited)
	return ok && tr.Traits()&t == t
}

// Trespasser is the mobile entity that sets off traps.
type Trespasser interface {
	AdjustEnergy(delta int)
	Kill()
}

// Inspectable occupants describe themselves.
type Inspectable interface {
	OnInspect() string
}

// LightningReactive occupants respond to a direct lightning hit.
type LightningReactive interface {
	OnLightningHit(power int)
}

// AftershockReactive occupants respond to a strike on a neighbouring tile.
type AftershockReactive interface {
	OnAftershock(origin core.Coord)
}

// TremorReactive occupants respond to a tremor on their tile.
type TremorReactive interface {
	OnTremor()
}

// Growable occupants respond to the grow tool.
type Growable interface {
	OnGrow()
}

// Commandable occupants can be ordered to a destination tile.
// OnCommand reports whether the order was accepted.
type Commandable interface {
	OnCommand(dest *Tile) bool
}

// Selectable occupants tell front-ends which tools can target them.
type Selectable interface {
	SelectableBy(tool Tool) bool
}

// TrapTriggerable occupants react to a trespasser arriving on their tile.
type TrapTriggerable interface {
	OnTrapTrigger(t Trespasser)
}

// TurnReactive entities act once per turn. BeginTurn may finish the
// reaction synchronously; otherwise Advance is called once per tick until
// Reacting returns false.
type TurnReactive interface {
	Occupant
	BeginTurn()
	Advance()
	Reacting() bool
}

// Tool is a player tool.
type Tool uint8

const (
	ToolInspect Tool = iota
	ToolLightning
	ToolTremor
	ToolGrow
	ToolCommand
)

// Tools lists every tool in menu order.
func Tools() []Tool {
	return []Tool{ToolInspect, ToolLightning, ToolTremor, ToolGrow, ToolCommand}
}

// String returns a human-readable name for the tool.
func (t Tool) String() string {
	switch t {
	case ToolInspect:
		return "inspect"
	case ToolLightning:
		return "lightning"
	case ToolTremor:
		return "tremor"
	case ToolGrow:
		return "grow"
	case ToolCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParseTool parses a tool name.
func ParseTool(s string) (Tool, bool) {
	for _, t := range Tools() {
		if strings.EqualFold(s, t.String()) {
			return t, true
		}
	}
	return ToolInspect, false
}
