// Package maps holds the built-in arenas and loads custom ones from YAML.
// Built-in maps register themselves with the registry on import.
package maps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/registry"
	"github.com/vovakirdan/fejd/internal/world"
)

func init() {
	registry.Register("quad", "Quad", Quad)
	registry.Register("duel", "Duel", Duel)
	registry.Register("ring", "Ring", Ring)
}

// Quad is a 600x600 arena with a spawn 100 units in from each corner, all
// facing the center.
func Quad() world.Map {
	return world.Map{
		Name:   "quad",
		Width:  fixed.FromInt(600),
		Height: fixed.FromInt(600),
		Spawns: []world.Spawn{
			{Point: fixed.VI(100, 100), Direction: fixed.VI(1, 1)},
			{Point: fixed.VI(500, 100), Direction: fixed.VI(-1, 1)},
			{Point: fixed.VI(100, 500), Direction: fixed.VI(1, -1)},
			{Point: fixed.VI(500, 500), Direction: fixed.VI(-1, -1)},
		},
	}
}

// Duel is a wide arena for two players facing each other.
func Duel() world.Map {
	return world.Map{
		Name:   "duel",
		Width:  fixed.FromInt(800),
		Height: fixed.FromInt(400),
		Spawns: []world.Spawn{
			{Point: fixed.VI(150, 200), Direction: fixed.East},
			{Point: fixed.VI(650, 200), Direction: fixed.West},
		},
	}
}

const (
	ringSize   = 600
	ringRadius = 220
	ringSpawns = 8
)

// Ring places eight spawns evenly on a circle, facing the center.
func Ring() world.Map {
	center := fixed.VI(ringSize/2, ringSize/2)
	m := world.Map{
		Name:   "ring",
		Width:  fixed.FromInt(ringSize),
		Height: fixed.FromInt(ringSize),
		Spawns: make([]world.Spawn, ringSpawns),
	}
	for i := range m.Spawns {
		angle := fixed.TwoPi.MulInt(i).DivInt(ringSpawns)
		p := center.Add(fixed.FromAngle(angle).Scale(fixed.FromInt(ringRadius)))
		m.Spawns[i] = world.Spawn{Point: p, Direction: center.Sub(p)}
	}
	return m
}

// LoadFile reads a map from a YAML file:
//
//	name: arena
//	width: 600
//	height: 400
//	spawns:
//	  - point: [100, 200]
//	    direction: [1, 0]
//
// The file name without extension is used when name is missing.
func LoadFile(path string) (world.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return world.Map{}, fmt.Errorf("failed to read map %s: %w", path, err)
	}

	var m world.Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return world.Map{}, fmt.Errorf("failed to parse map %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := m.Validate(); err != nil {
		return world.Map{}, fmt.Errorf("invalid map %s: %w", path, err)
	}
	return m, nil
}

// Resolve returns the registered map called nameOrPath, or loads it as a
// file if it ends in .yaml or .yml.
func Resolve(nameOrPath string) (world.Map, error) {
	switch strings.ToLower(filepath.Ext(nameOrPath)) {
	case ".yaml", ".yml":
		return LoadFile(nameOrPath)
	}
	return registry.Create(nameOrPath)
}
