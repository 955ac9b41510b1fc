package entity

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/wayhome/internal/grid"
)

// Roster is the scene's list of entities in creation order. Removed
// entities stay listed so their state can still be saved.
type Roster struct {
	order []Entity
	byID  map[string]Entity
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]Entity)}
}

// Add appends e. IDs must be unique.
func (r *Roster) Add(e Entity) error {
	if _, exists := r.byID[e.ID()]; exists {
		return fmt.Errorf("entity: duplicate id %q", e.ID())
	}
	r.order = append(r.order, e)
	r.byID[e.ID()] = e
	return nil
}

// Get returns the entity with the given id.
func (r *Roster) Get(id string) (Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Len returns the number of entities ever added.
func (r *Roster) Len() int {
	return len(r.order)
}

// Live returns the entities still in play, in creation order.
func (r *Roster) Live() []Entity {
	out := make([]Entity, 0, len(r.order))
	for _, e := range r.order {
		if !e.Removed() {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entity, removed ones included.
func (r *Roster) All() []Entity {
	out := make([]Entity, len(r.order))
	copy(out, r.order)
	return out
}

// TurnReactive returns the live entities that react to turns.
func (r *Roster) TurnReactive() []grid.TurnReactive {
	var out []grid.TurnReactive
	for _, e := range r.order {
		if e.Removed() {
			continue
		}
		if tr, ok := e.(grid.TurnReactive); ok {
			out = append(out, tr)
		}
	}
	return out
}

// Hitpoints returns the id -> hitpoints map. Removed entities report 0.
func (r *Roster) Hitpoints() map[string]int {
	out := make(map[string]int, len(r.order))
	for _, e := range r.order {
		if e.Removed() {
			out[e.ID()] = 0
			continue
		}
		out[e.ID()] = e.Hitpoints()
	}
	return out
}

// Restore applies a saved id -> hitpoints map in creation order. Ids the
// roster does not know are reported after the known ones are applied.
func (r *Roster) Restore(hp map[string]int) error {
	for _, e := range r.order {
		v, ok := hp[e.ID()]
		if !ok {
			continue
		}
		if err := e.Restore(v); err != nil {
			return fmt.Errorf("restoring %s: %w", e.ID(), err)
		}
	}
	var unknown []string
	for id := range hp {
		if _, ok := r.byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("entity: unknown ids in save: %v", unknown)
	}
	return nil
}
