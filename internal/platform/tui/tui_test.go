package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/grid"
	"github.com/vovakirdan/wayhome/internal/level"
	"github.com/vovakirdan/wayhome/internal/obstacles"
	"github.com/vovakirdan/wayhome/internal/storage"
	"github.com/vovakirdan/wayhome/internal/turn"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Sim.ActorSpeed = 0
	cfg.Sim.EntitySpeed = 0
	cfg.Clips = map[string]int{
		entity.ClipDeath:   2,
		entity.ClipDestroy: 2,
		entity.ClipFall:    2,
		entity.ClipRevive:  1,
	}
	return cfg
}

func corridor() level.Level {
	home := core.C(0, 1)
	return level.Level{
		ID:       "corridor",
		Name:     "Corridor",
		Width:    5,
		Height:   2,
		Start:    core.C(0, 0),
		Home:     &home,
		Moves:    2,
		Energy:   10,
		Essences: []level.Essence{{ID: "e1", At: core.C(4, 0)}},
		Entities: []entity.Spec{{ID: "b1", Kind: obstacles.KindBoulder, At: core.C(2, 0), HP: 1}},
		Terrain: map[core.Coord]grid.Kind{
			core.C(1, 1): grid.Terrain, core.C(2, 1): grid.Terrain,
			core.C(3, 1): grid.Terrain, core.C(4, 1): grid.Terrain,
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func tick(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m = press(t, m, TickMsg{})
	}
	return m
}

func TestBoardText(t *testing.T) {
	b := NewBoard()
	e, err := engine.New(corridor(), testConfig(), engine.Options{Renderer: b})
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}

	cursor := core.C(2, 0)
	got := b.Text(e, Overlay{Cursor: &cursor})
	want := " @  . [O] .  * \n H  #  #  #  # "
	if got != want {
		t.Errorf("Text() =\n%q\nwant\n%q", got, want)
	}
	if b.Changes() == 0 {
		t.Error("building the scene should report tile changes")
	}
}

func TestBoardTracksPathHighlight(t *testing.T) {
	b := NewBoard()
	e, err := engine.New(corridor(), testConfig(), engine.Options{Renderer: b})
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	if b.Highlight(core.C(1, 0)) != core.ColorTransparent {
		t.Fatal("no path while the boulder blocks the corridor")
	}

	if err := e.Apply(turn.Action{Tool: grid.ToolLightning, Target: core.C(2, 0)}); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		e.Tick()
	}
	for _, c := range []core.Coord{core.C(1, 0), core.C(2, 0), core.C(3, 0), core.C(4, 0)} {
		if b.Highlight(c) != core.ColorPath {
			t.Errorf("%s not highlighted as path", c)
		}
	}

	b.Reset()
	if b.Highlight(core.C(1, 0)) != core.ColorTransparent || b.Changes() != 0 {
		t.Error("Reset should forget highlights and changes")
	}
}

func TestModelPlaysLevelAndSavesScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, err := NewModel(corridor(), testConfig(), core.RuntimeConfig{TickRate: 30}, Options{Store: store})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	m = press(t, m, runes(" "))
	if m.Status() != "the way home is not clear" {
		t.Errorf("status = %q", m.Status())
	}

	m = press(t, m, runes("d"), runes("d"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status() != "lightning 2 0" {
		t.Fatalf("status = %q after lightning", m.Status())
	}
	m = tick(t, m, 5)
	if !m.Engine().Idle() {
		t.Fatal("boulder should have crumbled")
	}

	m = press(t, m, runes(" "))
	m = tick(t, m, 30)
	if m.Engine().Ended() || m.Engine().Actor().Coord() != core.C(4, 0) {
		t.Fatalf("actor should wait on the essence, at %s", m.Engine().Actor().Coord())
	}
	m = press(t, m, runes(" "))
	m = tick(t, m, 30)
	if !m.Engine().Ended() {
		t.Fatal("actor should be home")
	}
	if !strings.Contains(m.View(), "HOME AT LAST") {
		t.Error("view lacks the level clear banner")
	}

	scores, err := store.TopScores("corridor", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != m.Engine().Score() {
		t.Errorf("scores = %+v, want one entry of %d", scores, m.Engine().Score())
	}

	m = tick(t, m, 3)
	if scores, _ := store.TopScores("corridor", 10); len(scores) != 1 {
		t.Errorf("score saved %d times", len(scores))
	}
}

func TestModelSaveAndResume(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, err := NewModel(corridor(), testConfig(), core.RuntimeConfig{}, Options{Store: store, Slot: 3})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	m = press(t, m, runes("d"), runes("d"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.Status(), "cannot save now") {
		t.Errorf("saving mid-turn: status = %q", m.Status())
	}
	m = tick(t, m, 5)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Status() != "saved to slot 3" {
		t.Fatalf("status = %q", m.Status())
	}

	id, err := store.SaveInSlot(3)
	if err != nil {
		t.Fatalf("SaveInSlot() failed: %v", err)
	}
	st, _, err := store.LoadGame(id)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	resumed, err := NewModel(corridor(), testConfig(), core.RuntimeConfig{}, Options{Resume: &st})
	if err != nil {
		t.Fatalf("NewModel(resume) failed: %v", err)
	}
	if got := resumed.Engine().Turns().Moves(); got != 1 {
		t.Errorf("moves = %d, want 1", got)
	}
	if len(resumed.Engine().Actor().Path()) != 4 {
		t.Errorf("resumed path = %v", resumed.Engine().Actor().Path())
	}
}

func TestModelCommandNeedsTwoPresses(t *testing.T) {
	m, err := NewModel(corridor(), testConfig(), core.RuntimeConfig{}, Options{})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	m = press(t, m, runes("c"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status() != "pick a destination" {
		t.Fatalf("status = %q", m.Status())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Status() != "command cancelled" || m.IsQuitting() {
		t.Errorf("esc should only cancel the command, status = %q", m.Status())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status() != "nothing there reacts to command" {
		t.Errorf("status = %q", m.Status())
	}
	if m.Engine().Turns().Moves() != 2 {
		t.Error("an unhandled command should cost nothing")
	}
}

func TestModelCursorStaysOnBoard(t *testing.T) {
	m, err := NewModel(corridor(), testConfig(), core.RuntimeConfig{}, Options{})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	m = press(t, m, runes("a"), runes("w"))
	if m.Cursor() != core.C(0, 0) {
		t.Errorf("cursor = %s", m.Cursor())
	}
	for i := 0; i < 10; i++ {
		m = press(t, m, runes("d"), runes("s"))
	}
	if m.Cursor() != core.C(4, 1) {
		t.Errorf("cursor = %s", m.Cursor())
	}
}

func TestSessionMenuToPlayAndBack(t *testing.T) {
	lvls, err := level.Embedded().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	m := NewSessionModel(SessionOptions{Levels: lvls, Game: config.DefaultConfig()}, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s := next.(SessionModel)
	if s.play == nil {
		t.Fatal("enter should start the level")
	}
	if got := s.play.Engine().Level().ID; got != lvls[1].ID {
		t.Errorf("started %s, want %s", got, lvls[1].ID)
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.play != nil || s.quitting {
		t.Fatal("esc should return to the menu")
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.scores == nil {
		t.Fatal("tab should open the scoreboard")
	}
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.scores != nil || s.quitting {
		t.Error("esc should leave the scoreboard")
	}
}

func TestNewSSHServerNeedsLevels(t *testing.T) {
	if _, err := NewSSHServer(SSHServerConfig{DBPath: filepath.Join(t.TempDir(), "x.db")}); err == nil {
		t.Error("NewSSHServer() without levels should fail")
	}
}

func TestHostKeyNextToDatabase(t *testing.T) {
	dir := t.TempDir()
	got, err := hostKeyPath(SSHServerConfig{DBPath: filepath.Join(dir, "data", "wayhome.db")})
	if err != nil {
		t.Fatalf("hostKeyPath() failed: %v", err)
	}
	if want := filepath.Join(dir, "data", "host_key"); got != want {
		t.Errorf("hostKeyPath() = %q, want %q", got, want)
	}

	got, err = hostKeyPath(SSHServerConfig{HostKeyPath: filepath.Join(dir, "keys", "k"), DBPath: "ignored.db"})
	if err != nil || got != filepath.Join(dir, "keys", "k") {
		t.Errorf("explicit host key: %q, %v", got, err)
	}
}
