package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wayhome/internal/grid"
)

// BoardKeyMap defines the key bindings of the play screen.
type BoardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Inspect   key.Binding
	Lightning key.Binding
	Tremor    key.Binding
	Grow      key.Binding
	Command   key.Binding
	Apply     key.Binding
	Start     key.Binding
	Save      key.Binding
	Restart   key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Start, k.Save, k.Restart, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Inspect, k.Lightning, k.Tremor, k.Grow, k.Command},
		{k.Apply, k.Start, k.Save, k.Restart},
		{k.Back, k.Help, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("up/w", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("down/s", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("left/a", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("right/d", "cursor right"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inspect"),
		),
		Lightning: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "lightning"),
		),
		Tremor: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tremor"),
		),
		Grow: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grow"),
		),
		Command: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "command"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use tool"),
		),
		Start: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "go home"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "cancel/back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ToolFor returns the tool a key selects.
func (k BoardKeyMap) ToolFor(msg tea.KeyMsg) (grid.Tool, bool) {
	switch {
	case key.Matches(msg, k.Inspect):
		return grid.ToolInspect, true
	case key.Matches(msg, k.Lightning):
		return grid.ToolLightning, true
	case key.Matches(msg, k.Tremor):
		return grid.ToolTremor, true
	case key.Matches(msg, k.Grow):
		return grid.ToolGrow, true
	case key.Matches(msg, k.Command):
		return grid.ToolCommand, true
	}
	return grid.ToolInspect, false
}

// Move returns the cursor step a key asks for.
func (k BoardKeyMap) Move(msg tea.KeyMsg) (dx, dy int, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return 0, -1, true
	case key.Matches(msg, k.Down):
		return 0, 1, true
	case key.Matches(msg, k.Left):
		return -1, 0, true
	case key.Matches(msg, k.Right):
		return 1, 0, true
	}
	return 0, 0, false
}

// MenuKeyMap defines the key bindings of the level menu.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Scoreboard key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scoreboard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scoreboard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
