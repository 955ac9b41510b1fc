package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wayhome/internal/level"
	"github.com/vovakirdan/wayhome/internal/storage"
)

const (
	levelListWidth = 24
	maxScores      = 50
)

var (
	boxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeLevelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevLevel, k.NextLevel, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevLevel, k.NextLevel},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		NextLevel: key.NewBinding(key.WithKeys("right", "d", "tab"), key.WithHelp("→/tab", "next level")),
		PrevLevel: key.NewBinding(key.WithKeys("left", "a", "shift+tab"), key.WithHelp("←", "prev level")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best clears of each level.
type ScoreboardModel struct {
	levels    []level.Level
	current   int
	store     *storage.Store
	stats     map[string]*storage.LevelStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates the scoreboard with the first level selected.
func NewScoreboardModel(levels []level.Level, store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		levels: levels,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		if stats, err := store.AllLevelStats(); err == nil {
			m.stats = stats
		}
	}
	m.table = newScoreTable(height)
	m.load()
	return m
}

func newScoreTable(height int) table.Model {
	rows := height - 12
	if rows < 5 {
		rows = 5
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Cleared", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(rows),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fills the table with the current level's scores.
func (m *ScoreboardModel) load() {
	var rows []table.Row
	if m.store != nil && len(m.levels) > 0 {
		scores, err := m.store.TopScores(m.levels[m.current].ID, maxScores)
		if err == nil {
			rows = make([]table.Row, len(scores))
			for i, s := range scores {
				rows[i] = table.Row{
					fmt.Sprintf("%d", i+1),
					fmt.Sprintf("%d", s.Score),
					s.CreatedAt.Format("Jan 02 15:04"),
				}
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) step(d int) {
	if len(m.levels) == 0 {
		return
	}
	m.current = (m.current + d + len(m.levels)) % len(m.levels)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextLevel):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevLevel):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = newScoreTable(msg.Height)
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	if len(m.levels) == 0 {
		return centerText("No levels.", m.width)
	}

	var list strings.Builder
	for i, l := range m.levels {
		line := fmt.Sprintf("%-*s", levelListWidth-10, truncate(levelTitle(l), levelListWidth-10))
		if st, ok := m.stats[l.ID]; ok {
			line += fmt.Sprintf(" %6d", st.HighScore)
		}
		if i == m.current {
			list.WriteString(activeLevelStyle.Render("> " + line))
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")
	}

	lvl := m.levels[m.current]
	var right strings.Builder
	right.WriteString(activeLevelStyle.Render(levelTitle(lvl)))
	right.WriteString("\n")
	if st, ok := m.stats[lvl.ID]; ok {
		right.WriteString(dimStyle.Render(fmt.Sprintf("%d clears  best %d  avg %.0f  last %s",
			st.Clears, st.HighScore, st.AvgScore, st.LastPlayed.Format("Jan 02"))))
		right.WriteString("\n\n")
		right.WriteString(m.table.View())
	} else {
		right.WriteString("\n")
		right.WriteString(dimStyle.Italic(true).Render("Nobody has found the way home yet."))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Width(levelListWidth).Render(list.String()),
		"  ",
		boxStyle.Render(right.String()),
	)

	var b strings.Builder
	b.WriteString(activeLevelStyle.Render(centerText("SCOREBOARD", m.width)))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}

func levelTitle(l level.Level) string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// IsGoingBack reports whether the user left for the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
