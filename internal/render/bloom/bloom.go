// Package bloom adds a glow around the bright parts of a rendered frame.
//
// The frame is thresholded on luminance, downsampled to half size, blurred
// with a separable gaussian a configurable number of times and added back on
// top of the original.
package bloom

import (
	_ "embed"
	"fmt"

	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/simulation"
)

//go:embed shaders/bright.kage
var brightSrc []byte

//go:embed shaders/blur.kage
var blurSrc []byte

// smoothWidth is the luminance band over which the bright pass fades in.
const smoothWidth = 0.01

// Pipeline owns the shaders and intermediate targets for the bloom pass.
type Pipeline struct {
	renderer render.Renderer
	bright   render.Shader
	blur     render.Shader
	cfg      simulation.BloomConfig

	width, height int
	full          render.Image    // Bright pass at frame size
	half          [2]render.Image // Ping-pong blur targets at half size
	geoM          render.GeoM     // Reset before each scaled blit
}

// New compiles the bloom shaders.
func New(r render.Renderer, cfg simulation.BloomConfig) (*Pipeline, error) {
	bright, err := r.CompileShader(brightSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile bright-pass shader: %w", err)
	}
	blur, err := r.CompileShader(blurSrc)
	if err != nil {
		bright.Dispose()
		return nil, fmt.Errorf("failed to compile blur shader: %w", err)
	}
	return &Pipeline{renderer: r, bright: bright, blur: blur, cfg: cfg, geoM: render.NewGeoM()}, nil
}

// Enabled reports whether Apply adds glow.
func (p *Pipeline) Enabled() bool {
	return p.cfg.Enabled
}

// SetEnabled turns the glow on or off. When off, Apply only copies the scene.
func (p *Pipeline) SetEnabled(on bool) {
	p.cfg.Enabled = on
}

// Resize reallocates intermediate targets for a w x h frame. It is a no-op
// when the size has not changed.
func (p *Pipeline) Resize(w, h int) {
	if w == p.width && h == p.height && p.full != nil {
		return
	}
	p.disposeTargets()
	p.width, p.height = w, h
	p.full = p.renderer.NewImage(w, h)
	hw, hh := max(1, w/2), max(1, h/2)
	p.half[0] = p.renderer.NewImage(hw, hh)
	p.half[1] = p.renderer.NewImage(hw, hh)
}

// Apply draws scene onto dst with bloom added.
func (p *Pipeline) Apply(dst, scene render.Image) {
	dst.DrawImage(scene, nil)
	if !p.cfg.Enabled || p.cfg.Strength <= 0 {
		return
	}

	w, h := scene.Size()
	p.Resize(w, h)

	opts := &render.DrawRectShaderOptions{
		Uniforms: map[string]interface{}{
			"Threshold":   p.cfg.Threshold,
			"SmoothWidth": float32(smoothWidth),
		},
		Blend: render.BlendCopy,
	}
	opts.Images[0] = scene
	p.full.DrawRectShader(w, h, p.bright, opts)

	p.geoM.Reset()
	p.geoM.Scale(0.5, 0.5)
	p.half[0].DrawImage(p.full, &render.DrawImageOptions{
		GeoM:   p.geoM,
		Blend:  render.BlendCopy,
		Filter: render.FilterLinear,
	})

	hw, hh := p.half[0].Size()
	for i := 0; i < p.cfg.Passes; i++ {
		spread := p.spread(i)
		p.blurPass(p.half[1], p.half[0], hw, hh, []float32{1, 0}, spread)
		p.blurPass(p.half[0], p.half[1], hw, hh, []float32{0, 1}, spread)
	}

	p.geoM.Reset()
	p.geoM.Scale(float64(w)/float64(hw), float64(h)/float64(hh))
	dst.DrawImage(p.half[0], &render.DrawImageOptions{
		GeoM:       p.geoM,
		Blend:      render.BlendLighter,
		Filter:     render.FilterLinear,
		Brightness: p.cfg.Strength,
	})
}

// spread widens each successive blur pass; Radius scales how fast.
func (p *Pipeline) spread(pass int) float32 {
	return 1 + p.cfg.Radius*2*float32(pass+1)
}

func (p *Pipeline) blurPass(dst, src render.Image, w, h int, dir []float32, spread float32) {
	opts := &render.DrawRectShaderOptions{
		Uniforms: map[string]interface{}{
			"Direction": dir,
			"Spread":    spread,
		},
		Blend: render.BlendCopy,
	}
	opts.Images[0] = src
	dst.DrawRectShader(w, h, p.blur, opts)
}

func (p *Pipeline) disposeTargets() {
	if p.full != nil {
		p.full.Dispose()
		p.full = nil
	}
	for i, img := range p.half {
		if img != nil {
			img.Dispose()
			p.half[i] = nil
		}
	}
}

// Dispose releases shaders and targets.
func (p *Pipeline) Dispose() {
	p.disposeTargets()
	p.bright.Dispose()
	p.blur.Dispose()
}
