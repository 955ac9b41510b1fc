package grid

import "strings"

// Kind is the terrain kind of a tile. Pathfinding rules accept or reject
// tiles by kind.
type Kind uint8

const (
	Walkable Kind = iota
	Water
	Terrain
	Obstacle
	Poisoned
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Walkable:
		return "walkable"
	case Water:
		return "water"
	case Terrain:
		return "terrain"
	case Obstacle:
		return "obstacle"
	case Poisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Matching is case-insensitive.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walkable":
		return Walkable, true
	case "water":
		return Water, true
	case "terrain":
		return Terrain, true
	case "obstacle":
		return Obstacle, true
	case "poisoned":
		return Poisoned, true
	}
	return Walkable, false
}
