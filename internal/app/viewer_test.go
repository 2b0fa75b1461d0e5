package app

import (
	"errors"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/glowtree/internal/clock"
	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/render/rendertest"
	"chosenoffset.com/glowtree/internal/simulation"
)

type fixture struct {
	viewer *Viewer
	r      *rendertest.Renderer
	input  *rendertest.Input
	clock  *clock.Manual
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg := simulation.DefaultConfig()
	cfg.Seed = 5
	cfg.Window.Width, cfg.Window.Height = 800, 600

	f := &fixture{
		r:     rendertest.NewRenderer(),
		input: rendertest.NewInput(),
		clock: clock.NewManual(time.Unix(0, 0)),
	}
	opts = append([]Option{WithClock(f.clock)}, opts...)
	v, err := New(cfg, f.r, f.input, opts...)
	require.NoError(t, err)
	f.viewer = v
	return f
}

func (f *fixture) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, f.viewer.Update())
	f.input.Release()
}

func TestNewPlantsSeededTree(t *testing.T) {
	f := newFixture(t)
	g := f.viewer.Grower()
	assert.Equal(t, int64(5), g.Seed())
	assert.Len(t, g.State().Segments(), 1)
}

func TestNewFailsWithoutShaders(t *testing.T) {
	r := rendertest.NewRenderer()
	r.FailWith = errors.New("no gpu")
	_, err := New(simulation.DefaultConfig(), r, rendertest.NewInput())
	assert.ErrorContains(t, err, "bloom")
}

func TestUpdateGrowsOneGenerationPerTick(t *testing.T) {
	f := newFixture(t)
	f.tick(t)
	assert.Len(t, f.viewer.Grower().State().Segments(), 4)
	f.tick(t)
	assert.Len(t, f.viewer.Grower().State().Segments(), 13)
	assert.Equal(t, 2, f.viewer.stats().Generation)
}

func TestEscapeTerminates(t *testing.T) {
	f := newFixture(t)
	f.input.JustPressed[render.KeyEscape] = true
	assert.ErrorIs(t, f.viewer.Update(), render.ErrTerminated)
}

func TestRegrowUsesNewSeed(t *testing.T) {
	f := newFixture(t, WithSeedSource(func() int64 { return 99 }))
	f.tick(t)
	f.tick(t)

	f.input.JustPressed[render.KeyR] = true
	f.tick(t)

	g := f.viewer.Grower()
	assert.Equal(t, int64(99), g.Seed())
	assert.Equal(t, 1, g.State().Iteration(), "replanted then grown once")
	assert.Len(t, g.State().Segments(), 4)
}

func TestToggles(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.viewer.hud.Visible())
	require.True(t, f.viewer.bloom.Enabled())

	f.input.JustPressed[render.KeyH] = true
	f.input.JustPressed[render.KeyB] = true
	f.tick(t)

	assert.False(t, f.viewer.hud.Visible())
	assert.False(t, f.viewer.bloom.Enabled())
	assert.False(t, f.viewer.stats().Bloom)
}

func TestIdleAnimation(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.tick(t)
	}
	assert.InDelta(t, 0.03, f.viewer.transform.RotationY, 1e-5)
	assert.InDelta(t, 0, f.viewer.transform.OffsetY, 1e-6)

	f.clock.Advance(time.Duration(math32.Pi / 2 * float32(time.Second)))
	f.tick(t)
	assert.InDelta(t, 2, f.viewer.transform.OffsetY, 1e-3)
}

func TestDragOrbitsCamera(t *testing.T) {
	f := newFixture(t)
	f.input.Buttons[render.MouseButtonLeft] = true
	f.input.CursorX, f.input.CursorY = 100, 100
	f.tick(t)
	assert.InDelta(t, 0, f.viewer.camera.Position().X, 1e-4, "pressing alone does not rotate")

	f.input.CursorX = 160
	f.tick(t)
	assert.Less(t, f.viewer.camera.Position().X, float32(0))

	f.input.Buttons[render.MouseButtonLeft] = false
	f.tick(t)
	assert.False(t, f.viewer.dragging)
}

func TestRightDragPans(t *testing.T) {
	f := newFixture(t)
	f.input.Buttons[render.MouseButtonRight] = true
	f.input.CursorX, f.input.CursorY = 100, 100
	f.tick(t)
	assert.Equal(t, math32.Vector3{}, f.viewer.camera.Target, "pressing alone does not pan")

	f.input.CursorX = 160
	f.tick(t)
	assert.Less(t, f.viewer.camera.Target.X, float32(0))
	assert.InDelta(t, 0, f.viewer.camera.Position().X-f.viewer.camera.Target.X, 1e-4, "panning does not orbit")

	f.input.Buttons[render.MouseButtonRight] = false
	f.tick(t)
	assert.False(t, f.viewer.dragging)
}

func TestWheelZooms(t *testing.T) {
	f := newFixture(t)
	f.input.WheelY = 1
	f.tick(t)
	assert.InDelta(t, 114, f.viewer.camera.Distance(), 1e-3)
}

func TestArrowKeysOrbit(t *testing.T) {
	f := newFixture(t)
	f.input.Pressed[render.KeyRight] = true
	f.tick(t)
	assert.Less(t, f.viewer.camera.Position().X, float32(0))
}

func TestDrawComposesScene(t *testing.T) {
	f := newFixture(t)
	screen := f.r.NewImage(800, 600).(*rendertest.Image)
	f.viewer.Draw(screen)

	require.NotNil(t, f.viewer.mesh)
	assert.Equal(t, 1, f.viewer.mesh.Quads(), "the stem")
	assert.Equal(t, 0, f.viewer.mesh.Culled)

	scene := f.viewer.scene.(*rendertest.Image)
	assert.Equal(t, []string{"fill", "triangles"}, scene.Kinds())

	kinds := screen.Kinds()
	require.GreaterOrEqual(t, len(kinds), 3)
	assert.Equal(t, []string{"image", "image"}, kinds[:2], "scene copy then glow")
	assert.Contains(t, kinds, "text")
}

func TestDrawReallocatesOnResize(t *testing.T) {
	f := newFixture(t)
	f.viewer.Draw(f.r.NewImage(800, 600))
	first := f.viewer.scene.(*rendertest.Image)

	w, h := f.viewer.Layout(1024, 768)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	f.viewer.Draw(f.r.NewImage(1024, 768))
	assert.True(t, first.Disposed)
	sw, sh := f.viewer.scene.Size()
	assert.Equal(t, 1024, sw)
	assert.Equal(t, 768, sh)
}

func TestDispose(t *testing.T) {
	f := newFixture(t)
	f.viewer.Draw(f.r.NewImage(64, 64))
	scene := f.viewer.scene.(*rendertest.Image)
	f.viewer.Dispose()
	assert.True(t, scene.Disposed)
	assert.True(t, f.r.Shaders[0].Disposed)
}
