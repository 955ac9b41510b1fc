package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/actor"
	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
	"github.com/vovakirdan/wayhome/internal/event"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/level"
	"github.com/vovakirdan/wayhome/internal/storage"
	"github.com/vovakirdan/wayhome/internal/turn"
)

const feedLines = 4

// feed collects engine events for the status area.
type feed struct {
	lines []string
	final event.Event
}

func (f *feed) Emit(e event.Event) {
	switch e.(type) {
	case event.MovesRemaining, event.EnergyRemaining:
		// shown in the header
		return
	}
	if event.Final(e) {
		f.final = e
	}
	f.lines = append(f.lines, e.String())
	if len(f.lines) > feedLines {
		f.lines = f.lines[len(f.lines)-feedLines:]
	}
}

func (f *feed) reset() {
	f.lines = nil
	f.final = nil
}

// Options configures a play Model.
type Options struct {
	Store  *storage.Store
	Logger *log.Logger
	// Slot is the save slot ctrl+s writes to. Zero means 1.
	Slot int
	// Resume restores a saved scene instead of starting fresh.
	Resume *engine.SaveState
	// Embedded models report BackToMenu instead of quitting on back.
	Embedded bool
	// NoSave disables ctrl+s. Shared servers set it.
	NoSave bool
}

// Model is the Bubble Tea model for playing one level.
type Model struct {
	eng    *engine.Engine
	board  *Board
	events *feed
	screen *core.Screen
	store  *storage.Store
	log    *log.Logger
	config core.RuntimeConfig

	keys     BoardKeyMap
	help     help.Model
	cursor   core.Coord
	tool     grid.Tool
	source   *core.Coord
	status   string
	slot     int
	embedded bool
	noSave   bool

	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// NewModel builds lvl and wraps it in a play model.
func NewModel(lvl level.Level, cfg config.Config, rc core.RuntimeConfig, opts Options) (Model, error) {
	if rc.TickRate <= 0 {
		rc.TickRate = cfg.Sim.TickRate
	}
	if opts.Slot <= 0 {
		opts.Slot = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	board := NewBoard()
	events := &feed{}
	eng, err := engine.New(lvl, cfg, engine.Options{Logger: logger, Sink: events, Renderer: board})
	if err != nil {
		return Model{}, err
	}
	if opts.Resume != nil {
		board.Reset()
		if err := eng.Restore(*opts.Resume); err != nil {
			return Model{}, fmt.Errorf("resume %s: %w", lvl.ID, err)
		}
	}

	w, h := board.Size(eng.Grid())
	m := Model{
		eng:      eng,
		board:    board,
		events:   events,
		screen:   core.NewScreen(w, h),
		store:    opts.Store,
		log:      logger,
		config:   rc,
		keys:     DefaultBoardKeyMap(),
		help:     help.New(),
		cursor:   eng.Actor().Coord(),
		tool:     grid.ToolInspect,
		slot:     opts.Slot,
		embedded: opts.Embedded,
		noSave:   opts.NoSave,
	}
	m.help.Width = rc.ScreenW
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if dx, dy, ok := m.keys.Move(msg); ok {
		next := m.cursor.Add(dx, dy)
		if m.eng.Grid().InBounds(next) {
			m.cursor = next
		}
		return m, nil
	}

	if tool, ok := m.keys.ToolFor(msg); ok {
		m.tool = tool
		m.source = nil
		m.status = "tool: " + tool.String()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Apply):
		m.apply()
	case key.Matches(msg, m.keys.Start):
		if !m.eng.Start() {
			m.status = "the way home is not clear"
		}
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Restart):
		m.restart()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Back):
		if m.source != nil {
			m.source = nil
			m.status = "command cancelled"
			return m, nil
		}
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// apply uses the selected tool on the cursor tile. Command takes two
// presses: the entity first, then its destination.
func (m *Model) apply() {
	a := turn.Action{Tool: m.tool, Target: m.cursor}
	if m.tool == grid.ToolCommand {
		if m.source == nil {
			src := m.cursor
			m.source = &src
			m.status = "pick a destination"
			return
		}
		a.Target, a.Dest = *m.source, m.cursor
		m.source = nil
	}

	err := m.eng.Apply(a)
	switch {
	case err == nil:
		m.status = a.String()
	case errors.Is(err, turn.ErrNoTarget):
		m.status = "nothing there reacts to " + m.tool.String()
	case errors.Is(err, turn.ErrActionsNotAllowed):
		m.status = "wait for the turn to end"
	default:
		m.status = err.Error()
	}
}

func (m *Model) save() {
	if m.store == nil || m.noSave {
		m.status = "saving is not available"
		return
	}
	st, err := m.eng.Snapshot()
	if err != nil {
		m.status = "cannot save now: " + err.Error()
		return
	}
	if _, err := m.store.SaveGame(m.slot, st); err != nil {
		m.log.Error("save failed", "slot", m.slot, "err", err)
		m.status = "save failed"
		return
	}
	m.status = fmt.Sprintf("saved to slot %d", m.slot)
}

func (m *Model) restart() {
	if !m.eng.Ended() {
		m.status = "restart is available once the attempt ends"
		return
	}
	if m.eng.Outcome() == actor.Cleared {
		m.status = "level already cleared"
		return
	}
	if m.eng.Lives() <= 1 {
		m.status = "no lives left"
		return
	}
	m.board.Reset()
	m.events.reset()
	if err := m.eng.Restart(); err != nil {
		m.status = err.Error()
		return
	}
	m.cursor = m.eng.Actor().Coord()
	m.source = nil
	m.scoreSaved = false
	m.status = fmt.Sprintf("%d lives left", m.eng.Lives())
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.eng.Tick()

	// Save score on level clear (once)
	if m.eng.Ended() && m.eng.Outcome() == actor.Cleared && !m.scoreSaved {
		if m.store != nil {
			if _, err := m.store.SaveScore(m.eng.Level().ID, m.eng.Score()); err != nil {
				m.log.Warn("score not saved", "level", m.eng.Level().ID, "err", err)
			}
		}
		m.scoreSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	feedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	lvl := m.eng.Level()
	name := lvl.Name
	if name == "" {
		name = lvl.ID
	}
	a := m.eng.Actor()
	hud := fmt.Sprintf("moves %d  energy %d  lives %d  essences %d  tool %s",
		m.eng.Turns().Moves(), a.Energy(), m.eng.Lives(), a.Required(), m.tool)

	cursor := m.cursor
	m.board.Draw(m.screen, m.eng, Overlay{
		Cursor:      &cursor,
		Source:      m.source,
		Tool:        m.tool,
		ShowTargets: m.eng.Idle(),
	})

	parts := []string{
		titleStyle.Render(name),
		hudStyle.Render(hud),
		boardStyle.Render(RenderScreen(m.screen)),
	}
	if tile, ok := m.eng.Grid().Tile(m.cursor); ok {
		parts = append(parts, hudStyle.Render(fmt.Sprintf("%s  %s", m.cursor, tile.Kind())))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if len(m.events.lines) > 0 {
		parts = append(parts, feedStyle.Render(strings.Join(m.events.lines, "\n")))
	}
	if m.events.final != nil {
		parts = append(parts, bannerStyle.Render(m.banner()))
	}
	parts = append(parts, helpStyle.Render(m.help.View(m.keys)))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.config.ScreenW > 0 && m.config.ScreenH > 0 {
		return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) banner() string {
	switch e := m.events.final.(type) {
	case event.LevelClear:
		return fmt.Sprintf("HOME AT LAST  score %d", e.Score)
	case event.TryAgain:
		return fmt.Sprintf("LOST  %d lives left, press r", e.LivesLeft)
	default:
		return "GAME OVER"
	}
}

// Engine returns the running scene.
func (m Model) Engine() *engine.Engine { return m.eng }

// Status returns the last status line.
func (m Model) Status() string { return m.status }

// Cursor returns the cursor tile.
func (m Model) Cursor() core.Coord { return m.cursor }

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Run starts the Bubble Tea program with the given model.
func Run(m Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
