// Package simulation provides configuration for the growth simulation and
// the driver that advances it once per frame.
// Rules are loaded from data files so each run can define its own tree.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/glowtree/internal/core/growth"
)

// MaxSupportedDepth caps growth.Config.MaxDepth. The segment count grows as
// ChildCount^depth, so deeper trees exhaust memory.
const MaxSupportedDepth = 15

// MaxChildCount caps growth.Config.ChildCount for the same reason.
const MaxChildCount = 8

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings for a run
type Config struct {
	// Seed for the growth random source; 0 picks one from the clock
	Seed int64 `json:"seed" yaml:"seed" toml:"seed" mapstructure:"seed"`

	// Growth rules
	Growth growth.Config `json:"growth" yaml:"growth" toml:"growth" mapstructure:"growth"`

	// Window setup
	Window WindowConfig `json:"window" yaml:"window" toml:"window" mapstructure:"window"`

	// Orbit camera
	Camera CameraConfig `json:"camera" yaml:"camera" toml:"camera" mapstructure:"camera"`

	// Line appearance
	Lines LinesConfig `json:"lines" yaml:"lines" toml:"lines" mapstructure:"lines"`

	// Glow post-processing
	Bloom BloomConfig `json:"bloom" yaml:"bloom" toml:"bloom" mapstructure:"bloom"`

	// Idle animation
	Animation AnimationConfig `json:"animation" yaml:"animation" toml:"animation" mapstructure:"animation"`

	// Heads-up display
	HUD HUDConfig `json:"hud" yaml:"hud" toml:"hud" mapstructure:"hud"`
}

// WindowConfig defines the initial window
type WindowConfig struct {
	Width     int    `json:"width" yaml:"width" toml:"width" mapstructure:"width"`
	Height    int    `json:"height" yaml:"height" toml:"height" mapstructure:"height"`
	Title     string `json:"title" yaml:"title" toml:"title" mapstructure:"title"`
	Resizable bool   `json:"resizable" yaml:"resizable" toml:"resizable" mapstructure:"resizable"`
}

// CameraConfig defines the perspective camera and its orbit controls
type CameraConfig struct {
	FOV         float32 `json:"fov" yaml:"fov" toml:"fov" mapstructure:"fov"` // Vertical field of view in degrees
	Near        float32 `json:"near" yaml:"near" toml:"near" mapstructure:"near"`
	Far         float32 `json:"far" yaml:"far" toml:"far" mapstructure:"far"`
	Distance    float32 `json:"distance" yaml:"distance" toml:"distance" mapstructure:"distance"` // Initial distance from the target
	MinDistance float32 `json:"min_distance" yaml:"min_distance" toml:"min_distance" mapstructure:"min_distance"`
	MaxDistance float32 `json:"max_distance" yaml:"max_distance" toml:"max_distance" mapstructure:"max_distance"`
	Damping     float32 `json:"damping" yaml:"damping" toml:"damping" mapstructure:"damping"` // Fraction of orbit velocity applied per frame
	RotateSpeed float32 `json:"rotate_speed" yaml:"rotate_speed" toml:"rotate_speed" mapstructure:"rotate_speed"`
	ZoomSpeed   float32 `json:"zoom_speed" yaml:"zoom_speed" toml:"zoom_speed" mapstructure:"zoom_speed"`
}

// LinesConfig defines how segments are stroked
type LinesConfig struct {
	Width   float32 `json:"width" yaml:"width" toml:"width" mapstructure:"width"` // Stroke width in pixels
	Opacity float32 `json:"opacity" yaml:"opacity" toml:"opacity" mapstructure:"opacity"`
}

// BloomConfig defines the glow pass
type BloomConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	Strength  float32 `json:"strength" yaml:"strength" toml:"strength" mapstructure:"strength"`     // Multiplier on the blurred glow
	Radius    float32 `json:"radius" yaml:"radius" toml:"radius" mapstructure:"radius"`             // Blur spread, 0..1
	Threshold float32 `json:"threshold" yaml:"threshold" toml:"threshold" mapstructure:"threshold"` // Luminance that starts to glow
	Passes    int     `json:"passes" yaml:"passes" toml:"passes" mapstructure:"passes"`             // Blur iterations
}

// AnimationConfig defines the cosmetic idle motion
type AnimationConfig struct {
	RotationSpeed float32 `json:"rotation_speed" yaml:"rotation_speed" toml:"rotation_speed" mapstructure:"rotation_speed"` // Radians per frame about Y
	BobAmplitude  float32 `json:"bob_amplitude" yaml:"bob_amplitude" toml:"bob_amplitude" mapstructure:"bob_amplitude"`
	BobFrequency  float32 `json:"bob_frequency" yaml:"bob_frequency" toml:"bob_frequency" mapstructure:"bob_frequency"` // Radians per second
}

// HUDConfig defines the stats overlay
type HUDConfig struct {
	Visible  bool    `json:"visible" yaml:"visible" toml:"visible" mapstructure:"visible"`
	Position string  `json:"position" yaml:"position" toml:"position" mapstructure:"position"` // "top-left", "top-right", "bottom-left", "bottom-right"
	Opacity  float32 `json:"opacity" yaml:"opacity" toml:"opacity" mapstructure:"opacity"`     // Panel background opacity (0-1)
}

// DefaultConfig returns the stock glowing tree
func DefaultConfig() *Config {
	return &Config{
		Growth: growth.DefaultConfig(),
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Title:     "glowtree",
			Resizable: true,
		},
		Camera: CameraConfig{
			FOV:         75,
			Near:        0.1,
			Far:         1000,
			Distance:    120,
			MinDistance: 10,
			MaxDistance: 500,
			Damping:     0.05,
			RotateSpeed: 1,
			ZoomSpeed:   1,
		},
		Lines: LinesConfig{
			Width:   2,
			Opacity: 0.9,
		},
		Bloom: BloomConfig{
			Enabled:   true,
			Strength:  1.5,
			Radius:    0.4,
			Threshold: 0.85,
			Passes:    3,
		},
		Animation: AnimationConfig{
			RotationSpeed: 0.003,
			BobAmplitude:  2,
			BobFrequency:  1,
		},
		HUD: HUDConfig{
			Visible:  true,
			Position: "top-left",
			Opacity:  0.7,
		},
	}
}

// LoadConfig loads config from a JSON, YAML or TOML file, chosen by
// extension. Values in the file override the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".toml":
		err = toml.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}

// ApplyOverrides sets fields from "section.key=value" pairs, for example
// "growth.max_depth=10" or "growth.origin.y=-30". Values are converted to
// the field's type.
func (c *Config) ApplyOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}

	tree := map[string]any{}
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("override %q: want key=value", o)
		}
		if err := setPath(tree, strings.Split(key, "."), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("override %q: %w", o, err)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create override decoder: %w", err)
	}
	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	return nil
}

func setPath(tree map[string]any, path []string, value string) error {
	for _, part := range path[:len(path)-1] {
		next, ok := tree[part]
		if !ok {
			child := map[string]any{}
			tree[part] = child
			tree = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is already set to a value", part)
		}
		tree = child
	}
	leaf := path[len(path)-1]
	if _, exists := tree[leaf]; exists {
		return fmt.Errorf("%s set twice", leaf)
	}
	tree[leaf] = value
	return nil
}

// Validate checks that the config describes a finite, drawable tree.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	g := c.Growth
	check(g.MaxDepth >= 1 && g.MaxDepth <= MaxSupportedDepth, "growth.max_depth must be in [1, %d], got %d", MaxSupportedDepth, g.MaxDepth)
	check(g.ChildCount >= 1 && g.ChildCount <= MaxChildCount, "growth.child_count must be in [1, %d], got %d", MaxChildCount, g.ChildCount)
	check(g.LengthFactor > 0 && g.LengthFactor <= 1, "growth.length_factor must be in (0, 1], got %g", g.LengthFactor)
	check(g.InitialLength > 0, "growth.initial_length must be positive, got %g", g.InitialLength)
	check(g.MaxAngleSpread >= 0, "growth.max_angle_spread must not be negative, got %g", g.MaxAngleSpread)
	check(g.HueJitter >= 0, "growth.hue_jitter must not be negative, got %g", g.HueJitter)
	check(g.MaxRadius > 0, "growth.max_radius must be positive, got %g", g.MaxRadius)

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera clip planes must satisfy 0 < near < far, got %g/%g", c.Camera.Near, c.Camera.Far)
	check(c.Camera.MinDistance > 0 && c.Camera.MaxDistance >= c.Camera.MinDistance, "camera distance limits must satisfy 0 < min <= max, got %g/%g", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Camera.Damping > 0 && c.Camera.Damping <= 1, "camera.damping must be in (0, 1], got %g", c.Camera.Damping)

	check(c.Lines.Width > 0, "lines.width must be positive, got %g", c.Lines.Width)
	check(c.Lines.Opacity >= 0 && c.Lines.Opacity <= 1, "lines.opacity must be in [0, 1], got %g", c.Lines.Opacity)

	check(c.Bloom.Strength >= 0, "bloom.strength must not be negative, got %g", c.Bloom.Strength)
	check(c.Bloom.Radius >= 0, "bloom.radius must not be negative, got %g", c.Bloom.Radius)
	check(c.Bloom.Threshold >= 0, "bloom.threshold must not be negative, got %g", c.Bloom.Threshold)
	check(c.Bloom.Passes >= 1, "bloom.passes must be at least 1, got %d", c.Bloom.Passes)

	switch c.HUD.Position {
	case "top-left", "top-right", "bottom-left", "bottom-right":
	default:
		check(false, "hud.position must be a screen corner, got %q", c.HUD.Position)
	}
	check(c.HUD.Opacity >= 0 && c.HUD.Opacity <= 1, "hud.opacity must be in [0, 1], got %g", c.HUD.Opacity)

	return errors.Join(errs...)
}

// YAML renders the config for display.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
