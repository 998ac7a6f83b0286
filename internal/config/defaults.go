package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/fejd/internal/fixed"
)

//go:embed defaults/match.yaml
var defaultMatchYAML []byte

// Default returns the built-in match configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			TicksPerSecond: 16,
			CommandDelay:   3,
			MaxFrameTime:   250 * time.Millisecond,
		},
		Match: MatchConfig{
			Players: 4,
			Map:     "quad",
		},
		Rules: DefaultRules(),
	}
}

// DefaultRules returns the built-in gameplay tunables.
func DefaultRules() Rules {
	return Rules{
		Ship: ShipConfig{
			Width:         fixed.FromInt(26),
			Height:        fixed.FromInt(31),
			MaxSpeed:      fixed.FromInt(8),
			Acceleration:  fixed.MustParse("0.2"),
			RotationSpeed: fixed.MustParse("0.18"),
			Drag:          fixed.MustParse("0.06"),
			Health:        3,
			RespawnTicks:  48,
			FireCooldown:  4,
		},
		Projectile: ProjectileConfig{
			Width:  fixed.FromInt(2),
			Height: fixed.FromInt(2),
			Speed:  fixed.FromInt(14),
			Damage: 1,
		},
		Particles: ParticleConfig{
			Count:    12,
			Speed:    fixed.FromInt(3),
			Lifetime: 12,
		},
		Stars: StarConfig{
			Count: 64,
		},
	}
}
