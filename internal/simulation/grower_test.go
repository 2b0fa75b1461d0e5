package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/glowtree/internal/clock"
	"chosenoffset.com/glowtree/internal/core/growth"
)

type recordingObserver struct {
	iterations []growth.IterationStats
	radii      []float32
	resets     []int64
	planted    []growth.IterationStats
	plantedR   []float32
}

func (r *recordingObserver) ObserveIteration(stats growth.IterationStats, radius float32, _ time.Duration) {
	r.iterations = append(r.iterations, stats)
	r.radii = append(r.radii, radius)
}

func (r *recordingObserver) ObserveReset(seed int64, planted growth.IterationStats, radius float32) {
	r.resets = append(r.resets, seed)
	r.planted = append(r.planted, planted)
	r.plantedR = append(r.plantedR, radius)
}

func TestNewGrowerPlantsStem(t *testing.T) {
	obs := &recordingObserver{}
	g := NewGrower(growth.DefaultConfig(), 3, WithObserver(obs))

	assert.Len(t, g.State().Segments(), 1)
	assert.Len(t, g.State().Tips(), 1)
	require.NotNil(t, g.Buffer())
	assert.Len(t, g.Buffer().Vertices, 2)
	assert.Equal(t, []int64{3}, obs.resets)
	assert.Equal(t, int64(3), g.Seed())
	assert.False(t, g.Done())
}

func TestStepRebuildsBuffer(t *testing.T) {
	obs := &recordingObserver{}
	g := NewGrower(growth.DefaultConfig(), 1, WithObserver(obs))
	first := g.Buffer()

	stats, grew := g.Step()
	require.True(t, grew)
	assert.Equal(t, 4, stats.Segments)
	assert.Len(t, g.Buffer().Vertices, 8)
	assert.NotSame(t, first, g.Buffer())
	assert.Nil(t, first.Vertices, "previous buffer is released")

	require.Len(t, obs.iterations, 1)
	assert.Equal(t, g.Buffer().BoundingRadius, obs.radii[0])
}

func TestStopsWhenDepthExhausted(t *testing.T) {
	cfg := growth.DefaultConfig()
	cfg.MaxDepth = 3
	cfg.MaxRadius = 1e6
	g := NewGrower(cfg, 4)

	history, err := g.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, history, 3, "two expanding generations and one that drops the last tips")
	assert.Equal(t, StopExhausted, g.StopReason())
	assert.True(t, g.Done())
	assert.Empty(t, g.State().Tips())
	assert.Equal(t, 1+3+9, len(g.State().Segments()))

	_, grew := g.Step()
	assert.False(t, grew)
	assert.Equal(t, 13, len(g.State().Segments()))
}

func TestStopsWhenRadiusReached(t *testing.T) {
	cfg := growth.DefaultConfig()
	cfg.MaxRadius = 20
	g := NewGrower(cfg, 4)

	_, err := g.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, StopRadius, g.StopReason())
	assert.GreaterOrEqual(t, g.Buffer().BoundingRadius, cfg.MaxRadius)
	assert.NotEmpty(t, g.State().Tips())
}

func TestRunAlwaysTerminates(t *testing.T) {
	cfg := growth.DefaultConfig()
	cfg.MaxDepth = 8
	g := NewGrower(cfg, 42)

	history, err := g.Run(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.True(t, g.Done())
	assert.LessOrEqual(t, len(history), cfg.MaxDepth)
	assert.LessOrEqual(t, len(g.State().Segments()), cfg.EstimatedSegments())
}

func TestRunHonoursMaxSteps(t *testing.T) {
	g := NewGrower(growth.DefaultConfig(), 2)
	history, err := g.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.False(t, g.Done())
	assert.Equal(t, 2, g.State().Iteration())
}

func TestRunStopsOnCancel(t *testing.T) {
	g := NewGrower(growth.DefaultConfig(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history, err := g.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, history)
}

func TestResetReplants(t *testing.T) {
	cfg := growth.DefaultConfig()
	cfg.MaxDepth = 5
	obs := &recordingObserver{}
	g := NewGrower(cfg, 1, WithObserver(obs))
	_, _ = g.Run(context.Background(), 0)
	require.True(t, g.Done())

	g.Reset(8)
	assert.False(t, g.Done())
	assert.Equal(t, StopNone, g.StopReason())
	assert.Len(t, g.State().Segments(), 1)
	assert.Equal(t, []int64{1, 8}, obs.resets)

	_, grew := g.Step()
	assert.True(t, grew)
}

func TestSameSeedSameTree(t *testing.T) {
	grow := func() []growth.Segment {
		g := NewGrower(growth.DefaultConfig(), 77)
		_, err := g.Run(context.Background(), 5)
		require.NoError(t, err)
		return g.State().Segments()
	}
	assert.Equal(t, grow(), grow())
}

func TestStepIsTimedWithClock(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))
	obs := &recordingObserver{}
	g := NewGrower(growth.DefaultConfig(), 1, WithObserver(obs), WithClock(c))
	_, grew := g.Step()
	assert.True(t, grew)
	assert.Len(t, obs.iterations, 1)
}

func TestResetReportsPlantedTree(t *testing.T) {
	cfg := growth.DefaultConfig()
	cfg.InitialLength = 30
	obs := &recordingObserver{}
	g := NewGrower(cfg, 1, WithObserver(obs))

	require.Len(t, obs.planted, 1)
	assert.Equal(t, growth.IterationStats{Segments: 1, Tips: 1, MaxDepth: 1}, obs.planted[0])
	assert.InDelta(t, 15, obs.plantedR[0], 1e-4, "half the stem")

	_, _ = g.Run(context.Background(), 2)
	g.Reset(2)
	require.Len(t, obs.planted, 2)
	assert.Equal(t, 1, obs.planted[1].Segments)
	assert.Zero(t, obs.planted[1].Iteration)
}
