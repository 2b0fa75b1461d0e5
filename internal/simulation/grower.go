package simulation

import (
	"context"
	"log/slog"
	"time"

	"chosenoffset.com/glowtree/internal/clock"
	"chosenoffset.com/glowtree/internal/core/geometry"
	"chosenoffset.com/glowtree/internal/core/growth"
	"chosenoffset.com/glowtree/internal/logging"
)

// StopReason says which bound ended growth.
type StopReason string

const (
	StopNone      StopReason = ""
	StopRadius    StopReason = "radius" // bounding sphere reached MaxRadius
	StopExhausted StopReason = "depth"  // every tip reached MaxDepth
)

// Observer receives growth events, typically a metrics sink.
type Observer interface {
	ObserveIteration(stats growth.IterationStats, boundingRadius float32, elapsed time.Duration)
	// ObserveReset is called for the first planting and every replant after.
	// planted describes the new tree before any growth.
	ObserveReset(seed int64, planted growth.IterationStats, boundingRadius float32)
}

// Grower advances a tree by at most one generation per frame and keeps the
// draw buffer in step with it.
type Grower struct {
	cfg       growth.Config
	state     *growth.State
	slot      *geometry.Slot
	rng       growth.Rand
	seed      int64
	stopped   StopReason
	observers []Observer
	logger    *slog.Logger
	clock     clock.Clock
}

// Option configures a Grower.
type Option func(*Grower)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grower) { g.logger = logger }
}

// WithObserver registers an observer for iterations and resets. It may be
// given more than once.
func WithObserver(o Observer) Option {
	return func(g *Grower) { g.observers = append(g.observers, o) }
}

// WithClock sets the clock used to time iterations.
func WithClock(c clock.Clock) Option {
	return func(g *Grower) { g.clock = c }
}

// NewGrower returns a grower with a freshly planted tree for seed.
func NewGrower(cfg growth.Config, seed int64, opts ...Option) *Grower {
	g := &Grower{
		cfg:    cfg,
		state:  growth.NewState(),
		slot:   geometry.NewSlot(nil),
		logger: logging.NewNop(),
		clock:  clock.Real{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset(seed)
	return g
}

// Reset replants the tree with a new random seed.
func (g *Grower) Reset(seed int64) {
	g.seed = seed
	g.rng = growth.NewRand(seed)
	g.stopped = StopNone
	g.state.Initialize(g.cfg.Origin, g.cfg.InitialLength, g.cfg.InitialHue)
	g.slot.Swap(geometry.BuildBuffer(g.state.Segments()))

	planted := g.state.Stats()
	radius := g.slot.BoundingRadius()
	for _, o := range g.observers {
		o.ObserveReset(seed, planted, radius)
	}
	g.logger.Info("planted tree",
		"seed", seed,
		"max_depth", g.cfg.MaxDepth,
		"child_count", g.cfg.ChildCount,
		"estimated_segments", g.cfg.EstimatedSegments(),
	)
}

// Step grows one generation if the tree is still inside MaxRadius and has
// tips left. It reports whether anything grew.
func (g *Grower) Step() (growth.IterationStats, bool) {
	if g.stopped != StopNone {
		return growth.IterationStats{}, false
	}

	radius := g.slot.BoundingRadius()
	if !growth.ShouldContinueGrowing(g.state, radius, g.cfg) {
		g.stopped = StopExhausted
		if radius >= g.cfg.MaxRadius {
			g.stopped = StopRadius
		}
		g.logger.Info("growth finished",
			"reason", string(g.stopped),
			"iterations", g.state.Iteration(),
			"segments", len(g.state.Segments()),
			"radius", radius,
		)
		return growth.IterationStats{}, false
	}

	start := g.clock.Now()
	stats := g.state.GrowOneIteration(g.cfg, g.rng)
	g.slot.Swap(geometry.BuildBuffer(g.state.Segments()))
	elapsed := g.clock.Now().Sub(start)

	radius = g.slot.BoundingRadius()
	for _, o := range g.observers {
		o.ObserveIteration(stats, radius, elapsed)
	}
	g.logger.Debug("grew generation",
		"iteration", stats.Iteration,
		"added", stats.Added,
		"segments", stats.Segments,
		"tips", stats.Tips,
		"radius", radius,
		"elapsed", elapsed,
	)
	return stats, true
}

// Run steps until growth stops, ctx is done, or maxSteps generations have
// grown (maxSteps <= 0 means no limit). It returns the stats of every
// generation grown.
func (g *Grower) Run(ctx context.Context, maxSteps int) ([]growth.IterationStats, error) {
	var history []growth.IterationStats
	for maxSteps <= 0 || len(history) < maxSteps {
		if err := ctx.Err(); err != nil {
			return history, err
		}
		stats, grew := g.Step()
		if !grew {
			break
		}
		history = append(history, stats)
	}
	return history, nil
}

// State returns the tree being grown.
func (g *Grower) State() *growth.State {
	return g.state
}

// Buffer returns the current draw buffer.
func (g *Grower) Buffer() *geometry.Buffer {
	return g.slot.Current()
}

// Seed returns the seed of the current tree.
func (g *Grower) Seed() int64 {
	return g.seed
}

// StopReason returns why growth stopped, or StopNone while still growing.
func (g *Grower) StopReason() StopReason {
	return g.stopped
}

// Done reports whether growth has stopped.
func (g *Grower) Done() bool {
	return g.stopped != StopNone
}
