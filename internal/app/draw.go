package app

import (
	"image/color"

	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/render/lines"
)

// Draw renders the tree to an offscreen scene, adds bloom while copying it
// to the screen and overlays the HUD.
func (v *Viewer) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure the scene texture exists and is the right size
	if v.scene == nil || needsResize(v.scene, w, h) {
		if v.scene != nil {
			v.scene.Dispose()
		}
		v.scene = v.renderer.NewImage(w, h)
	}

	v.scene.Fill(color.Black)
	view := v.camera.View(w, h)
	v.mesh = lines.Build(v.grower.Buffer(), view, v.transform, lines.Style{
		Width:   v.cfg.Lines.Width,
		Opacity: v.cfg.Lines.Opacity,
	})
	v.lines.Draw(v.scene, v.mesh)

	v.bloom.Apply(screen, v.scene)
	v.hud.Draw(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}
