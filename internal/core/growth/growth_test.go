package growth

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-3

// fixedRand returns the same value forever.
type fixedRand float32

func (f fixedRand) Float32() float32 { return float32(f) }

func newStockState() *State {
	s := NewState()
	s.Initialize(math32.Vec3(0, -40, 0), 15, 0.3)
	return s
}

func TestInitialize(t *testing.T) {
	s := newStockState()

	require.Len(t, s.Segments(), 1)
	require.Len(t, s.Tips(), 1)

	stem := s.Segments()[0]
	assert.Equal(t, math32.Vec3(0, -40, 0), stem.Start)
	assert.Equal(t, math32.Vec3(0, -25, 0), stem.End)
	tolassert.EqualTol(t, 0.3, stem.Hue, tol)

	tip := s.Tips()[0]
	assert.Equal(t, 1, tip.Depth)
	assert.Equal(t, stem, tip.Segment)
	assert.Equal(t, 0, s.Iteration())
}

func TestInitializeClearsPreviousGrowth(t *testing.T) {
	s := newStockState()
	cfg := DefaultConfig()
	rng := NewRand(1)
	s.GrowOneIteration(cfg, rng)
	s.GrowOneIteration(cfg, rng)
	require.Greater(t, len(s.Segments()), 1)

	s.Initialize(math32.Vec3(1, 2, 3), 4, 0.5)
	assert.Len(t, s.Segments(), 1)
	assert.Len(t, s.Tips(), 1)
	assert.Equal(t, 0, s.Iteration())
	assert.Equal(t, math32.Vec3(1, 6, 3), s.Segments()[0].End)
}

func TestFirstIteration(t *testing.T) {
	s := newStockState()
	cfg := DefaultConfig()
	cfg.ChildCount = 3
	cfg.MaxDepth = 14

	stats := s.GrowOneIteration(cfg, NewRand(7))

	assert.Len(t, s.Segments(), 4)
	assert.Len(t, s.Tips(), 3)
	assert.Equal(t, IterationStats{
		Iteration: 1,
		Expanded:  1,
		Added:     3,
		Segments:  4,
		Tips:      3,
		MaxDepth:  2,
	}, stats)

	for _, tip := range s.Tips() {
		assert.Equal(t, 2, tip.Depth)
		assert.Equal(t, math32.Vec3(0, -25, 0), tip.Start)
		tolassert.EqualTol(t, 14.25, tip.Length(), tol)
	}
	for _, seg := range s.Segments()[1:] {
		tolassert.EqualTol(t, 14.25, seg.Length(), tol)
	}
}

func TestNoPerturbationKeepsBearing(t *testing.T) {
	s := newStockState()
	cfg := DefaultConfig()
	cfg.ChildCount = 1

	// 0.5 maps to a zero angular offset.
	s.GrowOneIteration(cfg, fixedRand(0.5))

	child := s.Segments()[1]
	tolassert.EqualTol(t, 0, child.End.X, tol)
	tolassert.EqualTol(t, -25+14.25, child.End.Y, tol)
	tolassert.EqualTol(t, 0, child.End.Z, tol)
	tolassert.EqualTol(t, 0.3+0.05+0.5*0.05, child.Hue, tol)
}

func TestDeterministicWithSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 6

	grow := func() []Segment {
		s := newStockState()
		rng := NewRand(42)
		for i := 0; i < 8; i++ {
			s.GrowOneIteration(cfg, rng)
		}
		return s.Segments()
	}

	assert.Equal(t, grow(), grow())
}

func TestSegmentCountMatchesExpandedTips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 5
	cfg.ChildCount = 2
	s := newStockState()
	rng := NewRand(3)

	want := 1
	prev := len(s.Segments())
	for i := 0; i < 7; i++ {
		expandable := 0
		for _, tip := range s.Tips() {
			if tip.Depth < cfg.MaxDepth {
				expandable++
			}
		}
		want += expandable * cfg.ChildCount

		stats := s.GrowOneIteration(cfg, rng)
		require.Equal(t, want, len(s.Segments()), "iteration %d", i+1)
		require.GreaterOrEqual(t, len(s.Segments()), prev)
		assert.Equal(t, expandable, stats.Expanded)
		prev = len(s.Segments())
	}
	// 1 + 2 + 4 + 8 + 16
	assert.Equal(t, 31, want)
	assert.Equal(t, cfg.EstimatedSegments(), want)
}

func TestDepthIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 4
	cfg.ChildCount = 2
	s := newStockState()
	rng := NewRand(11)

	for i := 0; i < 6; i++ {
		before := map[math32.Vector3]int{}
		for _, tip := range s.Tips() {
			before[tip.End] = tip.Depth
		}
		s.GrowOneIteration(cfg, rng)
		for _, tip := range s.Tips() {
			assert.LessOrEqual(t, tip.Depth, cfg.MaxDepth)
			parentDepth, ok := before[tip.Start]
			require.True(t, ok, "tip must start at a previous tip's end")
			assert.Less(t, parentDepth, cfg.MaxDepth, "tips at max depth never sprout")
			assert.Equal(t, parentDepth+1, tip.Depth)
		}
	}
}

func TestGrowthTerminatesAtMaxDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 3
	s := newStockState()
	rng := NewRand(5)

	s.GrowOneIteration(cfg, rng)
	s.GrowOneIteration(cfg, rng)
	for _, tip := range s.Tips() {
		require.Equal(t, cfg.MaxDepth, tip.Depth)
	}
	frozen := len(s.Segments())

	stats := s.GrowOneIteration(cfg, rng)
	assert.Empty(t, s.Tips())
	assert.Equal(t, frozen, len(s.Segments()))
	assert.Equal(t, 9, stats.Dropped)
	assert.Equal(t, 0, stats.MaxDepth)

	s.GrowOneIteration(cfg, rng)
	assert.Empty(t, s.Tips())
	assert.Equal(t, frozen, len(s.Segments()))
}

func TestTipsAreSegments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 5
	s := newStockState()
	rng := NewRand(9)

	for i := 0; i < 4; i++ {
		s.GrowOneIteration(cfg, rng)
		known := map[Segment]bool{}
		for _, seg := range s.Segments() {
			known[seg] = true
		}
		for _, tip := range s.Tips() {
			assert.True(t, known[tip.Segment])
		}
	}
}

func TestChildLengthShrinks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 6
	cfg.LengthFactor = 0.8
	s := newStockState()
	rng := NewRand(21)

	for i := 0; i < 5; i++ {
		parents := map[math32.Vector3]float32{}
		for _, tip := range s.Tips() {
			parents[tip.End] = tip.Length()
		}
		s.GrowOneIteration(cfg, rng)
		for _, tip := range s.Tips() {
			tolassert.EqualTol(t, parents[tip.Start]*cfg.LengthFactor, tip.Length(), tol)
		}
	}
}

func TestHueStaysInUnitRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 7
	cfg.ChildCount = 2
	cfg.HueStep = 0.7
	cfg.HueJitter = 0.9
	s := NewState()
	s.Initialize(math32.Vec3(0, 0, 0), 10, 0.95)
	rng := NewRand(17)

	for i := 0; i < 7; i++ {
		s.GrowOneIteration(cfg, rng)
	}
	for _, seg := range s.Segments() {
		assert.GreaterOrEqual(t, seg.Hue, float32(0))
		assert.Less(t, seg.Hue, float32(1))
	}
}

func TestWrapHue(t *testing.T) {
	tolassert.EqualTol(t, 0.25, wrapHue(1.25), tol)
	tolassert.EqualTol(t, 0.75, wrapHue(-0.25), tol)
	assert.Equal(t, float32(0), wrapHue(1))
	assert.Equal(t, float32(0), wrapHue(0))
}

func TestShouldContinueGrowing(t *testing.T) {
	cfg := DefaultConfig()
	s := newStockState()

	assert.True(t, ShouldContinueGrowing(s, 10, cfg))
	assert.False(t, ShouldContinueGrowing(s, cfg.MaxRadius, cfg), "radius bound")

	cfg.MaxDepth = 1
	s.GrowOneIteration(cfg, NewRand(1))
	assert.False(t, ShouldContinueGrowing(s, 10, cfg), "no tips left")
}

func TestEstimatedSegments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChildCount = 3
	cfg.MaxDepth = 3
	assert.Equal(t, 1+3+9, cfg.EstimatedSegments())

	cfg.ChildCount = 1
	cfg.MaxDepth = 10
	assert.Equal(t, 10, cfg.EstimatedSegments())

	cfg.ChildCount = 8
	cfg.MaxDepth = 100
	assert.Greater(t, cfg.EstimatedSegments(), 1<<40)
}

func TestNewRandIsSeeded(t *testing.T) {
	draw := func(seed int64) []float32 {
		rng := NewRand(seed)
		out := make([]float32, 16)
		for i := range out {
			out[i] = rng.Float32()
			require.GreaterOrEqual(t, out[i], float32(0))
			require.Less(t, out[i], float32(1))
		}
		return out
	}

	assert.Equal(t, draw(12), draw(12))
	assert.NotEqual(t, draw(12), draw(13))
}

func TestStatsDescribesCurrentState(t *testing.T) {
	s := newStockState()
	assert.Equal(t, IterationStats{Segments: 1, Tips: 1, MaxDepth: 1}, s.Stats())

	cfg := DefaultConfig()
	grown := s.GrowOneIteration(cfg, NewRand(2))
	now := s.Stats()
	assert.Equal(t, grown.Iteration, now.Iteration)
	assert.Equal(t, grown.Segments, now.Segments)
	assert.Equal(t, grown.Tips, now.Tips)
	assert.Equal(t, grown.MaxDepth, now.MaxDepth)
	assert.Zero(t, now.Added)
}
