package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/wayhome/internal/entity"
	"github.com/vovakirdan/wayhome/internal/level/formats"
)

//go:embed data/*.yaml
var embedded embed.FS

// Loader handles loading levels from a directory tree.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root}
}

// Embedded returns a loader over the levels built into the binary.
func Embedded() *Loader {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("level: embedded levels: %v", err))
	}
	return &Loader{fsys: sub, root: "embedded"}
}

// NewFSLoader creates a loader over any file system.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, root: "fs"}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Levels are sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		lvl, err := l.LoadFile(p)
		if err != nil {
			return nil
		}
		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level: walking %s: %w", l.root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads and validates a single level file, relative to the
// loader's root.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("level: reading %s: %w", p, err)
	}
	lvl, err := Parse(data, path.Ext(p))
	if err != nil {
		return Level{}, fmt.Errorf("level: parsing %s: %w", p, err)
	}
	lvl.FilePath = path.Join(l.root, p)
	return lvl, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Parse decodes and validates level data of the given file extension.
func Parse(data []byte, ext string) (Level, error) {
	parsed, err := parseByExtension(data, strings.ToLower(ext))
	if err != nil {
		return Level{}, err
	}
	lvl := fromFormat(parsed)
	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

func fromFormat(p formats.Level) Level {
	lvl := Level{
		ID:       p.ID,
		Name:     p.Name,
		Width:    p.Width,
		Height:   p.Height,
		Terrain:  p.Terrain,
		Start:    p.Start,
		Home:     p.Home,
		Moves:    p.Moves,
		Energy:   p.Energy,
		Required: p.Required,
		Metadata: p.Metadata,
	}
	for _, e := range p.Essences {
		lvl.Essences = append(lvl.Essences, Essence{ID: e.ID, At: e.At, Restore: e.Restore})
	}
	for _, e := range p.Entities {
		lvl.Entities = append(lvl.Entities, entity.Spec{
			ID:     e.ID,
			Kind:   e.Kind,
			At:     e.At,
			HP:     e.HP,
			Params: e.Params,
		})
	}
	return lvl
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
