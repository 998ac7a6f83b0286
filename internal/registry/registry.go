// Package registry provides a global registry for map factories.
// Maps register themselves in init() functions, allowing the CLI and the
// SSH server to list and build arenas without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/fejd/internal/world"
)

// ErrUnknownMap is returned when no map is registered under a name.
var ErrUnknownMap = errors.New("registry: unknown map")

// MapInfo contains metadata about a registered map.
type MapInfo struct {
	Name       string
	Title      string
	Width      int
	Height     int
	MaxPlayers int
}

// Factory builds a fresh copy of a map.
type Factory func() world.Map

type entry struct {
	factory Factory
	info    MapInfo
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a map factory to the registry.
// Typically called from an init() function.
// Panics if a map with the same name is already registered or the map is
// invalid.
func Register(name, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: map %q already registered", name))
	}

	// Validate with a temporary instance
	m := f()
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("registry: map %q: %v", name, err))
	}

	entries[name] = entry{
		factory: f,
		info: MapInfo{
			Name:       name,
			Title:      title,
			Width:      m.Width.Int(),
			Height:     m.Height.Int(),
			MaxPlayers: len(m.Spawns),
		},
	}
}

// List returns information about all registered maps, sorted by name.
func List() []MapInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]MapInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create builds a map by name.
func Create(name string) (world.Map, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[name]
	if !ok {
		return world.Map{}, fmt.Errorf("%w %q", ErrUnknownMap, name)
	}

	return e.factory(), nil
}

// Exists checks if a map with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}
