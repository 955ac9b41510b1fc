package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/level"
	"github.com/vovakirdan/wayhome/internal/storage"
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Levels []level.Level
	Game   config.Config
	Store  *storage.Store
	Logger *log.Logger
	NoSave bool
}

// SessionModel manages the full session flow: menu -> level -> menu, with
// the scoreboard one key away. It is the top-level model of SSH sessions
// and of the local menu command.
type SessionModel struct {
	opts     SessionOptions
	config   core.RuntimeConfig
	menu     MenuModel
	play     *Model
	scores   *ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions, rc core.RuntimeConfig) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts:   opts,
		config: rc,
		menu:   NewMenuModel(opts.Levels, opts.Store, rc),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.play != nil:
		return m.updatePlay(msg)
	case m.scores != nil:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.opts.Levels, m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.scores = &sb
		return m, sb.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		play, err := NewModel(*selected, m.opts.Game, m.config, Options{
			Store:    m.opts.Store,
			Logger:   m.opts.Logger,
			Embedded: true,
			NoSave:   m.opts.NoSave,
		})
		if err != nil {
			m.opts.Logger.Error("cannot start level", "level", selected.ID, "err", err)
			m.menu = NewMenuModel(m.opts.Levels, m.opts.Store, m.config)
			return m, nil
		}
		m.opts.Logger.Info("level started", "level", selected.ID)
		m.play = &play
		return m, m.play.Init()
	}

	return m, cmd
}

// updatePlay handles updates while a level is running.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(Model); ok {
		m.play = &play
	}

	if m.play.BackToMenu() {
		m.play = nil
		// Reset menu state; best scores may have changed
		m.menu = NewMenuModel(m.opts.Levels, m.opts.Store, m.config)
		return m, m.menu.Init()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates while the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = &sb
	}

	if m.scores.IsGoingBack() {
		m.scores = nil
		m.menu = NewMenuModel(m.opts.Levels, m.opts.Store, m.config)
		return m, m.menu.Init()
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.play != nil:
		return m.play.View()
	case m.scores != nil:
		return m.scores.View()
	}
	return m.menu.View()
}

// RunSession runs the menu/play/scoreboard flow in the local terminal.
func RunSession(opts SessionOptions, rc core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(opts, rc),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
