package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
)

// MaxSlots is the number of save slots.
const MaxSlots = 5

// SaveEntry describes a stored save without its scene state.
type SaveEntry struct {
	ID        string
	Slot      int
	LevelID   string
	Moves     int
	Lives     int
	Energy    int
	CreatedAt time.Time
}

// stateBlob is the msgpack body of a save. Hitpoints live in the
// obstacle_states table.
type stateBlob struct {
	ActorX   int          `msgpack:"actor_x"`
	ActorY   int          `msgpack:"actor_y"`
	Consumed []string     `msgpack:"consumed,omitempty"`
	Entities []blobEntity `msgpack:"entities,omitempty"`
}

type blobEntity struct {
	ID      string         `msgpack:"id"`
	Kind    string         `msgpack:"kind"`
	X       int            `msgpack:"x"`
	Y       int            `msgpack:"y"`
	Spawned bool           `msgpack:"spawned,omitempty"`
	Removed bool           `msgpack:"removed,omitempty"`
	Params  map[string]any `msgpack:"params,omitempty"`
}

// SaveGame writes st into slot, replacing whatever the slot held.
// Returns the new save id.
func (s *Store) SaveGame(slot int, st engine.SaveState) (string, error) {
	if slot < 1 || slot > MaxSlots {
		return "", fmt.Errorf("storage: slot %d out of range 1..%d", slot, MaxSlots)
	}

	blob := stateBlob{ActorX: st.Actor.X, ActorY: st.Actor.Y, Consumed: st.Consumed}
	for _, r := range st.Entities {
		blob.Entities = append(blob.Entities, blobEntity{
			ID: r.ID, Kind: r.Kind, X: r.At.X, Y: r.At.Y, Spawned: r.Spawned, Removed: r.Removed, Params: r.Params,
		})
	}
	data, err := msgpack.Marshal(&blob)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode save: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM obstacle_states WHERE save_id IN (SELECT id FROM saves WHERE slot = ?)", slot,
	); err != nil {
		return "", fmt.Errorf("storage: cannot clear slot: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return "", fmt.Errorf("storage: cannot clear slot: %w", err)
	}

	id := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO saves (id, slot, level_id, moves, lives, energy, state)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, slot, st.Level, st.Moves, st.Lives, st.Energy, data,
	); err != nil {
		return "", fmt.Errorf("storage: cannot insert save: %w", err)
	}

	for _, r := range st.Entities {
		if _, err := tx.Exec(
			"INSERT INTO obstacle_states (save_id, entity_id, hp) VALUES (?, ?, ?)",
			id, r.ID, r.HP,
		); err != nil {
			return "", fmt.Errorf("storage: cannot insert state of %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return id, nil
}

// LoadGame reads the save with the given id.
func (s *Store) LoadGame(id string) (engine.SaveState, SaveEntry, error) {
	var (
		e         SaveEntry
		data      []byte
		createdAt any
	)
	err := s.db.QueryRow(
		`SELECT id, slot, level_id, moves, lives, energy, state, created_at
		 FROM saves WHERE id = ?`, id,
	).Scan(&e.ID, &e.Slot, &e.LevelID, &e.Moves, &e.Lives, &e.Energy, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.SaveState{}, SaveEntry{}, fmt.Errorf("%w: %s", ErrSaveNotFound, id)
	}
	if err != nil {
		return engine.SaveState{}, SaveEntry{}, fmt.Errorf("storage: cannot query save: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)

	var blob stateBlob
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&blob); err != nil {
		return engine.SaveState{}, SaveEntry{}, fmt.Errorf("storage: cannot decode save %s: %w", id, err)
	}

	hp, err := s.hitpoints(id)
	if err != nil {
		return engine.SaveState{}, SaveEntry{}, err
	}

	st := engine.SaveState{
		Level:    e.LevelID,
		Moves:    e.Moves,
		Lives:    e.Lives,
		Energy:   e.Energy,
		Actor:    core.C(blob.ActorX, blob.ActorY),
		Consumed: blob.Consumed,
	}
	for _, b := range blob.Entities {
		h, ok := hp[b.ID]
		if !ok {
			return engine.SaveState{}, SaveEntry{}, fmt.Errorf("storage: save %s has no state for %s", id, b.ID)
		}
		st.Entities = append(st.Entities, engine.EntityState{
			ID: b.ID, Kind: b.Kind, At: core.C(b.X, b.Y), HP: h, Spawned: b.Spawned, Removed: b.Removed, Params: b.Params,
		})
	}
	return st, e, nil
}

func (s *Store) hitpoints(saveID string) (map[string]int, error) {
	rows, err := s.db.Query("SELECT entity_id, hp FROM obstacle_states WHERE save_id = ?", saveID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query obstacle states: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			id string
			hp int
		)
		if err := rows.Scan(&id, &hp); err != nil {
			return nil, fmt.Errorf("storage: cannot scan obstacle state: %w", err)
		}
		out[id] = hp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ListSaves returns every save ordered by slot.
func (s *Store) ListSaves() ([]SaveEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, slot, level_id, moves, lives, energy, created_at
		 FROM saves ORDER BY slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var entries []SaveEntry
	for rows.Next() {
		var e SaveEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Slot, &e.LevelID, &e.Moves, &e.Lives, &e.Energy, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan save: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveInSlot returns the id of the save held by slot.
func (s *Store) SaveInSlot(slot int) (string, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM saves WHERE slot = ?", slot).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: slot %d", ErrSaveNotFound, slot)
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot query slot: %w", err)
	}
	return id, nil
}

// DeleteSave removes a save and its obstacle states.
func (s *Store) DeleteSave(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM obstacle_states WHERE save_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete obstacle states: %w", err)
	}
	res, err := tx.Exec("DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSaveNotFound, id)
	}
	return tx.Commit()
}
