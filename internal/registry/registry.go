// Package registry maps entity kind names to factories.
// Obstacle kinds register themselves in init() functions, allowing levels
// and runtime spawns to build entities without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/wayhome/internal/entity"
)

// KindInfo contains metadata about a registered kind.
type KindInfo struct {
	Kind  string
	Title string
}

// Factory builds an entity from its spec. It must not touch the grid;
// placement happens in the entity's Init.
type Factory func(spec entity.Spec, w *entity.World) (entity.Entity, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a kind factory to the registry.
// Typically called from an init() function.
// Panics if the kind is already registered.
func Register(kind, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: kind %q already registered", kind))
	}

	factories[kind] = f
	titles[kind] = title
}

// List returns information about all registered kinds, sorted by name.
func List() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(factories))
	for kind := range factories {
		result = append(result, KindInfo{
			Kind:  kind,
			Title: titles[kind],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create builds an entity of spec.Kind without placing it.
// Returns an error if the kind is not registered.
func Create(spec entity.Spec, w *entity.World) (entity.Entity, error) {
	mu.RLock()
	f, ok := factories[spec.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown kind %q", spec.Kind)
	}
	e, err := f(spec, w)
	if err != nil {
		return nil, fmt.Errorf("registry: building %s %q: %w", spec.Kind, spec.ID, err)
	}
	return e, nil
}

// Exists checks if a kind is registered.
func Exists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}

// NewID returns a fresh id for a runtime-spawned entity of kind.
func NewID(kind string) string {
	return kind + "-" + uuid.NewString()
}

// Spawner returns a spawn function for w. Each spawned entity gets a fresh
// id when its spec has none, is placed on the grid and handed to add.
func Spawner(w *entity.World, add func(entity.Entity, entity.Spec) error) entity.SpawnFunc {
	return func(spec entity.Spec) (entity.Entity, error) {
		if spec.ID == "" {
			spec.ID = NewID(spec.Kind)
		}
		e, err := Create(spec, w)
		if err != nil {
			return nil, err
		}
		if err := e.Init(); err != nil {
			return nil, fmt.Errorf("registry: placing %s: %w", spec.ID, err)
		}
		if err := add(e, spec); err != nil {
			e.Remove()
			return nil, err
		}
		return e, nil
	}
}
