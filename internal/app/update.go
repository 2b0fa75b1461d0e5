package app

import (
	"cogentcore.org/core/math32"

	"chosenoffset.com/glowtree/internal/render"
)

// Update grows at most one generation and applies input and idle motion.
func (v *Viewer) Update() error {
	if v.input.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}

	v.handleKeys()
	v.handlePointer()

	v.grower.Step()
	v.animate()
	v.camera.Update()

	v.hud.SetStats(v.stats())
	return nil
}

func (v *Viewer) handleKeys() {
	if v.input.IsKeyJustPressed(render.KeyR) {
		seed := v.newSeed()
		v.logger.Info("regrowing", "seed", seed)
		v.grower.Reset(seed)
	}
	if v.input.IsKeyJustPressed(render.KeyH) {
		v.hud.Toggle()
	}
	if v.input.IsKeyJustPressed(render.KeyB) {
		v.bloom.SetEnabled(!v.bloom.Enabled())
		v.logger.Debug("bloom toggled", "enabled", v.bloom.Enabled())
	}

	var dx, dy float32
	if v.input.IsKeyPressed(render.KeyLeft) {
		dx -= keyOrbitPixels
	}
	if v.input.IsKeyPressed(render.KeyRight) {
		dx += keyOrbitPixels
	}
	if v.input.IsKeyPressed(render.KeyUp) {
		dy -= keyOrbitPixels
	}
	if v.input.IsKeyPressed(render.KeyDown) {
		dy += keyOrbitPixels
	}
	if dx != 0 || dy != 0 {
		v.camera.Rotate(dx, dy, v.height)
	}

	if v.input.IsKeyPressed(render.KeyEqual) {
		v.camera.Zoom(1)
	}
	if v.input.IsKeyPressed(render.KeyMinus) {
		v.camera.Zoom(-1)
	}
}

// handlePointer orbits on left drag, pans on right drag and zooms on scroll.
func (v *Viewer) handlePointer() {
	x, y := v.input.GetCursorPosition()
	orbit := v.input.IsMouseButtonPressed(render.MouseButtonLeft)
	pan := v.input.IsMouseButtonPressed(render.MouseButtonRight)
	if v.dragging {
		dx, dy := float32(x-v.lastX), float32(y-v.lastY)
		switch {
		case orbit:
			v.camera.Rotate(dx, dy, v.height)
		case pan:
			v.camera.Pan(dx, dy, v.height)
		}
	}
	v.dragging = orbit || pan
	v.lastX, v.lastY = x, y

	if _, wy := v.input.Wheel(); wy != 0 {
		v.camera.Zoom(float32(wy))
	}
}

// animate spins the tree slowly and bobs it up and down.
func (v *Viewer) animate() {
	anim := v.cfg.Animation
	v.transform.RotationY = math32.Mod(v.transform.RotationY+anim.RotationSpeed, 2*math32.Pi)

	elapsed := float32(v.clock.Now().Sub(v.started).Seconds())
	v.transform.OffsetY = math32.Sin(elapsed*anim.BobFrequency) * anim.BobAmplitude
}
