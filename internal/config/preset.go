package config

import "fmt"

// Preset represents a named rule set layered over the loaded config.
type Preset string

const (
	PresetCasual   Preset = "casual"
	PresetStandard Preset = "standard"
	PresetHardcore Preset = "hardcore"
)

// Presets lists the presets in display order.
func Presets() []Preset {
	return []Preset{PresetCasual, PresetStandard, PresetHardcore}
}

// ParsePreset resolves a preset name. The empty string is the standard preset.
func ParsePreset(name string) (Preset, error) {
	switch p := Preset(name); p {
	case "", PresetStandard:
		return PresetStandard, nil
	case PresetCasual, PresetHardcore:
		return p, nil
	default:
		return "", fmt.Errorf("unknown preset %q (want casual, standard or hardcore)", name)
	}
}

// ApplyPreset modifies the rules based on a preset. The standard preset keeps
// the loaded values.
func ApplyPreset(r *Rules, preset Preset) {
	switch preset {
	case PresetCasual:
		r.Ship.Health = max(r.Ship.Health, 5)
		r.Ship.RespawnTicks = min(r.Ship.RespawnTicks, 32)
		r.Ship.FireCooldown = max(r.Ship.FireCooldown, 6)
	case PresetHardcore:
		r.Ship.Health = 1
		r.Ship.RespawnTicks = max(r.Ship.RespawnTicks, 64)
		r.Ship.FireCooldown = min(r.Ship.FireCooldown, 2)
	}
}
