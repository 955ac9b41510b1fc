package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreScores(t *testing.T) {
	store := openStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("01-meadow", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("02-riverbank", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("01-meadow", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 {
		t.Errorf("scores out of order: %d, %d", scores[0].Score, scores[1].Score)
	}
	if scores[0].LevelID != "01-meadow" {
		t.Errorf("level = %q", scores[0].LevelID)
	}

	high, err := store.HighScore("02-riverbank")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 500 {
		t.Errorf("HighScore() = %d, want 500", high)
	}
	if high, _ := store.HighScore("unplayed"); high != 0 {
		t.Errorf("HighScore() of an unplayed level = %d, want 0", high)
	}

	stats, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if st := stats["01-meadow"]; st == nil || st.Clears != 3 || st.HighScore != 200 {
		t.Errorf("meadow stats = %+v", st)
	}

	if err := store.ClearScores("01-meadow"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	scores, _ = store.TopScores("01-meadow", 10)
	if len(scores) != 0 {
		t.Errorf("expected no scores after clear, got %d", len(scores))
	}
}

func sampleState() engine.SaveState {
	return engine.SaveState{
		Level:    "03-bog",
		Moves:    2,
		Lives:    3,
		Energy:   7,
		Actor:    core.C(1, 2),
		Consumed: []string{"essence-1"},
		Entities: []engine.EntityState{
			{ID: "poison", Kind: "poison_plant", At: core.C(3, 3), HP: 1},
			{ID: "boulder", Kind: "boulder", At: core.C(5, 1), HP: 0, Removed: true},
			{ID: "miasma-1", Kind: "miasma", At: core.C(4, 3), HP: 1, Spawned: true,
				Params: map[string]any{"source": "poison"}},
		},
	}
}

func TestSaveGameRoundTrip(t *testing.T) {
	store := openStore(t)
	want := sampleState()

	id, err := store.SaveGame(2, want)
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveGame() returned an empty id")
	}

	got, entry, err := store.LoadGame(id)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadGame() state:\n got %+v\nwant %+v", got, want)
	}
	if entry.Slot != 2 || entry.LevelID != "03-bog" || entry.Energy != 7 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestSaveGameKeepsNumericParams(t *testing.T) {
	store := openStore(t)
	st := sampleState()
	st.Entities = append(st.Entities, engine.EntityState{
		ID: "crab", Kind: "rock_crab", At: core.C(2, 2), HP: 2,
		Params: map[string]any{"range": 3, "reach": 300},
	})

	id, err := store.SaveGame(1, st)
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	got, _, err := store.LoadGame(id)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	spec := got.Entities[len(got.Entities)-1].Spec()
	if n := spec.Int("range", 0); n != 3 {
		t.Errorf("range = %d after load, want 3", n)
	}
	if n := spec.Int("reach", 0); n != 300 {
		t.Errorf("reach = %d after load, want 300", n)
	}
}

func TestSaveGameReplacesSlot(t *testing.T) {
	store := openStore(t)

	first, err := store.SaveGame(1, sampleState())
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	next := sampleState()
	next.Moves = 0
	second, err := store.SaveGame(1, next)
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if first == second {
		t.Fatal("a new save should get a new id")
	}

	if _, _, err := store.LoadGame(first); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("LoadGame(first) error = %v, want ErrSaveNotFound", err)
	}
	saves, err := store.ListSaves()
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(saves) != 1 || saves[0].ID != second || saves[0].Moves != 0 {
		t.Errorf("ListSaves() = %+v", saves)
	}
	if id, err := store.SaveInSlot(1); err != nil || id != second {
		t.Errorf("SaveInSlot(1) = %q, %v", id, err)
	}
	if _, err := store.SaveInSlot(3); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("SaveInSlot(3) error = %v", err)
	}
}

func TestSaveGameSlotRange(t *testing.T) {
	store := openStore(t)
	for _, slot := range []int{0, MaxSlots + 1} {
		if _, err := store.SaveGame(slot, sampleState()); err == nil {
			t.Errorf("SaveGame(%d) should fail", slot)
		}
	}
}

func TestDeleteSave(t *testing.T) {
	store := openStore(t)

	id, err := store.SaveGame(4, sampleState())
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if err := store.DeleteSave(id); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}
	if err := store.DeleteSave(id); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("second DeleteSave() error = %v, want ErrSaveNotFound", err)
	}
	hp, err := store.hitpoints(id)
	if err != nil {
		t.Fatalf("hitpoints() failed: %v", err)
	}
	if len(hp) != 0 {
		t.Errorf("obstacle states left behind: %v", hp)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.wayhome/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".wayhome", "test.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}
