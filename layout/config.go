package layout

import "github.com/BurntSushi/toml"

// Config holds the physics tunables for both engines. Zero values in a
// loaded file fall back to the defaults, so partial override files work.
type Config struct {
	// Force simulation.
	InteractionRadius float64 `toml:"interaction_radius"` // pairs beyond this don't interact
	Repulsion         float64 `toml:"repulsion"`          // repulsive force scale
	MinDistance       float64 `toml:"min_distance"`       // distance band floor for force math
	MaxDistance       float64 `toml:"max_distance"`       // distance band ceiling
	CollisionMargin   float64 `toml:"collision_margin"`   // gap kept beyond summed radii
	CollisionStrength float64 `toml:"collision_strength"` // softness of the collision correction
	VelocityDecay     float64 `toml:"velocity_decay"`     // per-tick velocity retention
	AlphaDecay        float64 `toml:"alpha_decay"`        // geometric temperature decay
	AlphaMin          float64 `toml:"alpha_min"`          // halt threshold
	AlphaRestart      float64 `toml:"alpha_restart"`      // temperature after Reheat
	AlphaDragTarget   float64 `toml:"alpha_drag_target"`  // floor held while dragging
	TimeoutSeconds    float64 `toml:"timeout_seconds"`    // wall-clock bound per relaxation

	// Local repulsion propagator.
	RepulsionDistance float64 `toml:"repulsion_distance"` // neighbor reach of one displacement
	Strength          float64 `toml:"strength"`           // displacement scale
	Decay             float64 `toml:"decay"`              // multiplier shrink per hop
	MinMotion         float64 `toml:"min_motion"`         // displacement below this stops the cascade
	DepthCap          int     `toml:"depth_cap"`          // hard recursion-depth limit
}

// DefaultConfig returns the tuning used when no config file is present.
func DefaultConfig() Config {
	return Config{
		InteractionRadius: 250,
		Repulsion:         2000,
		MinDistance:       20,
		MaxDistance:       250,
		CollisionMargin:   12,
		CollisionStrength: 0.5,
		VelocityDecay:     0.6,
		AlphaDecay:        0.028,
		AlphaMin:          0.001,
		AlphaRestart:      0.3,
		AlphaDragTarget:   0.3,
		TimeoutSeconds:    10,

		RepulsionDistance: 120,
		Strength:          0.8,
		Decay:             0.55,
		MinMotion:         0.5,
		DepthCap:          8,
	}
}

// LoadConfig reads TOML overrides from path and merges them over the
// defaults. Unset (zero) fields keep their default value.
func LoadConfig(path string) (Config, error) {
	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return DefaultConfig(), err
	}
	return file.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	merge := func(dst *float64, def float64) {
		if *dst == 0 {
			*dst = def
		}
	}
	merge(&c.InteractionRadius, d.InteractionRadius)
	merge(&c.Repulsion, d.Repulsion)
	merge(&c.MinDistance, d.MinDistance)
	merge(&c.MaxDistance, d.MaxDistance)
	merge(&c.CollisionMargin, d.CollisionMargin)
	merge(&c.CollisionStrength, d.CollisionStrength)
	merge(&c.VelocityDecay, d.VelocityDecay)
	merge(&c.AlphaDecay, d.AlphaDecay)
	merge(&c.AlphaMin, d.AlphaMin)
	merge(&c.AlphaRestart, d.AlphaRestart)
	merge(&c.AlphaDragTarget, d.AlphaDragTarget)
	merge(&c.TimeoutSeconds, d.TimeoutSeconds)
	merge(&c.RepulsionDistance, d.RepulsionDistance)
	merge(&c.Strength, d.Strength)
	merge(&c.Decay, d.Decay)
	merge(&c.MinMotion, d.MinMotion)
	if c.DepthCap == 0 {
		c.DepthCap = d.DepthCap
	}
	return c
}
