// Package app wires growth, camera, line rendering, bloom and the HUD into
// the interactive viewer driven by the render engine.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"chosenoffset.com/glowtree/internal/clock"
	"chosenoffset.com/glowtree/internal/logging"
	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/render/bloom"
	"chosenoffset.com/glowtree/internal/render/camera"
	"chosenoffset.com/glowtree/internal/render/lines"
	"chosenoffset.com/glowtree/internal/simulation"
	"chosenoffset.com/glowtree/internal/ui/hud"
)

// keyOrbitPixels is how far one tick of an arrow key turns the camera,
// expressed as an equivalent pointer drag.
const keyOrbitPixels = 6

// Viewer holds the running scene and implements render.Game.
type Viewer struct {
	cfg      *simulation.Config
	renderer render.Renderer
	input    render.InputManager

	grower *simulation.Grower
	camera *camera.Camera
	lines  *lines.Drawer
	bloom  *bloom.Pipeline
	hud    *hud.HUD

	clock     clock.Clock
	logger    *slog.Logger
	observers []simulation.Observer
	fps       func() float64
	newSeed   func() int64

	width, height int
	scene         render.Image
	mesh          *lines.Mesh
	transform     camera.Transform
	started       time.Time

	dragging     bool
	lastX, lastY int
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithClock sets the clock that drives the idle animation.
func WithClock(c clock.Clock) Option {
	return func(v *Viewer) { v.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// WithObserver forwards growth events, typically to metrics.
func WithObserver(o simulation.Observer) Option {
	return func(v *Viewer) { v.observers = append(v.observers, o) }
}

// WithFPS supplies the frame rate shown in the HUD.
func WithFPS(fps func() float64) Option {
	return func(v *Viewer) { v.fps = fps }
}

// WithSeedSource sets where regrow seeds come from. The default derives
// them from the clock.
func WithSeedSource(next func() int64) Option {
	return func(v *Viewer) { v.newSeed = next }
}

// New builds a viewer for cfg. The tree is planted with cfg.Seed.
func New(cfg *simulation.Config, r render.Renderer, input render.InputManager, opts ...Option) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		renderer: r,
		input:    input,
		clock:    clock.Real{},
		logger:   logging.NewNop(),
		fps:      func() float64 { return 0 },
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.newSeed == nil {
		v.newSeed = func() int64 { return v.clock.Now().UnixNano() }
	}

	pipeline, err := bloom.New(r, cfg.Bloom)
	if err != nil {
		return nil, fmt.Errorf("failed to set up bloom: %w", err)
	}
	v.bloom = pipeline

	growerOpts := []simulation.Option{
		simulation.WithLogger(v.logger),
		simulation.WithClock(v.clock),
	}
	for _, o := range v.observers {
		growerOpts = append(growerOpts, simulation.WithObserver(o))
	}
	v.grower = simulation.NewGrower(cfg.Growth, cfg.Seed, growerOpts...)

	v.camera = camera.New(cfg.Camera)
	v.camera.SetViewport(v.width, v.height)
	v.lines = lines.NewDrawer(r, false)
	v.hud = hud.New(cfg.HUD, r, v.width, v.height)
	v.started = v.clock.Now()
	v.hud.SetStats(v.stats())

	return v, nil
}

// Layout follows the window size so the scene stays sharp when resized.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.camera.SetViewport(outsideWidth, outsideHeight)
		v.hud.SetScreenSize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Grower exposes the growth driver.
func (v *Viewer) Grower() *simulation.Grower {
	return v.grower
}

// Dispose releases GPU resources.
func (v *Viewer) Dispose() {
	if v.scene != nil {
		v.scene.Dispose()
		v.scene = nil
	}
	v.lines.Dispose()
	v.bloom.Dispose()
}

func (v *Viewer) stats() hud.Stats {
	state := v.grower.State()
	return hud.Stats{
		Segments:   len(state.Segments()),
		Tips:       len(state.Tips()),
		Generation: state.Iteration(),
		DeepestTip: state.DeepestTip(),
		MaxDepth:   v.cfg.Growth.MaxDepth,
		Radius:     v.grower.Buffer().BoundingRadius,
		MaxRadius:  v.cfg.Growth.MaxRadius,
		Stop:       v.grower.StopReason(),
		Seed:       v.grower.Seed(),
		FPS:        v.fps(),
		Bloom:      v.bloom.Enabled(),
	}
}
