package growth

import (
	"math"

	"cogentcore.org/core/math32"
)

// Config holds the growth rules. All fields are read once per iteration.
type Config struct {
	Origin        math32.Vector3 `json:"origin" yaml:"origin" toml:"origin" mapstructure:"origin"`
	InitialLength float32        `json:"initial_length" yaml:"initial_length" toml:"initial_length" mapstructure:"initial_length"`
	InitialHue    float32        `json:"initial_hue" yaml:"initial_hue" toml:"initial_hue" mapstructure:"initial_hue"`

	MaxDepth       int     `json:"max_depth" yaml:"max_depth" toml:"max_depth" mapstructure:"max_depth"`                             // Tips at this depth stop sprouting
	ChildCount     int     `json:"child_count" yaml:"child_count" toml:"child_count" mapstructure:"child_count"`                     // Children per expanded tip
	LengthFactor   float32 `json:"length_factor" yaml:"length_factor" toml:"length_factor" mapstructure:"length_factor"`             // Child length relative to parent, (0, 1]
	MaxAngleSpread float32 `json:"max_angle_spread" yaml:"max_angle_spread" toml:"max_angle_spread" mapstructure:"max_angle_spread"` // Radians; perturbation drawn from [-spread/2, spread/2]
	HueStep        float32 `json:"hue_step" yaml:"hue_step" toml:"hue_step" mapstructure:"hue_step"`
	HueJitter      float32 `json:"hue_jitter" yaml:"hue_jitter" toml:"hue_jitter" mapstructure:"hue_jitter"`

	// MaxRadius stops growth once the bounding sphere reaches it.
	MaxRadius float32 `json:"max_radius" yaml:"max_radius" toml:"max_radius" mapstructure:"max_radius"`
}

// DefaultConfig returns the stock tree: a 15 unit stem at (0,-40,0)
// splitting into three children per tip for up to 14 generations.
func DefaultConfig() Config {
	return Config{
		Origin:         math32.Vec3(0, -40, 0),
		InitialLength:  15,
		InitialHue:     0.3,
		MaxDepth:       14,
		ChildCount:     3,
		LengthFactor:   0.95,
		MaxAngleSpread: math32.Pi / 2.5,
		HueStep:        0.05,
		HueJitter:      0.05,
		MaxRadius:      100,
	}
}

// EstimatedSegments returns the segment count if every generation up to
// MaxDepth were grown. The count is exponential in MaxDepth, so callers use
// it to warn about configurations that will exhaust memory.
func (c Config) EstimatedSegments() int {
	total := 0
	perDepth := 1
	for d := 1; d <= c.MaxDepth; d++ {
		if total > math.MaxInt-perDepth {
			return math.MaxInt
		}
		total += perDepth
		if perDepth > math.MaxInt/max(c.ChildCount, 1) {
			return math.MaxInt
		}
		perDepth *= c.ChildCount
	}
	return total
}
