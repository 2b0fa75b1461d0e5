// Package rendertest provides in-memory render backends for tests.
package rendertest

import (
	"image"
	"image/color"

	"chosenoffset.com/glowtree/internal/render"
)

// Op is one recorded draw call.
type Op struct {
	Kind     string // "fill", "image", "triangles", "shader", "rect", "text"
	Src      *Image
	Shader   *Shader
	Vertices int
	Indices  int
	Blend    render.BlendMode
	Text     string
	Uniforms map[string]interface{}

	Brightness     float32
	ScaleX, ScaleY float64
}

// Renderer records images, shaders and text drawn through it.
type Renderer struct {
	Images   []*Image
	Shaders  []*Shader
	Texts    []string
	FailWith error // returned by CompileShader when set
}

// NewRenderer returns an empty fake renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// NewImage allocates a recording image.
func (r *Renderer) NewImage(width, height int) render.Image {
	img := &Image{W: width, H: height}
	r.Images = append(r.Images, img)
	return img
}

// FillRect records a rectangle.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	dst.(*Image).Ops = append(dst.(*Image).Ops, Op{Kind: "rect"})
}

// DrawText records the text.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.Texts = append(r.Texts, text)
	dst.(*Image).Ops = append(dst.(*Image).Ops, Op{Kind: "text", Text: text})
}

// MeasureText assumes a 6x16 cell font.
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(len(text)) * 6 * scale), int(16 * scale)
}

// CompileShader records the source.
func (r *Renderer) CompileShader(src []byte) (render.Shader, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	s := &Shader{Source: string(src)}
	r.Shaders = append(r.Shaders, s)
	return s, nil
}

// Shader is a recorded shader program.
type Shader struct {
	Source   string
	Disposed bool
}

// Dispose marks the shader disposed.
func (s *Shader) Dispose() { s.Disposed = true }

// Image records every operation performed on it.
type Image struct {
	W, H     int
	Ops      []Op
	Disposed bool
}

// Bounds returns the image rectangle.
func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.W, i.H) }

// Size returns the image size.
func (i *Image) Size() (int, int) { return i.W, i.H }

// SubImage returns the receiver; sub-regions are not tracked.
func (i *Image) SubImage(image.Rectangle) render.Image { return i }

// Fill records a fill.
func (i *Image) Fill(color.Color) { i.Ops = append(i.Ops, Op{Kind: "fill"}) }

// DrawImage records a blit.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	op := Op{Kind: "image", Src: src.(*Image)}
	if opts != nil {
		op.Blend = opts.Blend
		op.Brightness = opts.Brightness
		if g, ok := opts.GeoM.(*GeoM); ok {
			op.ScaleX, op.ScaleY = g.SX, g.SY
		}
	}
	i.Ops = append(i.Ops, op)
}

// DrawTriangles records a triangle batch.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	op := Op{Kind: "triangles", Src: img.(*Image), Vertices: len(vertices), Indices: len(indices)}
	if opts != nil {
		op.Blend = opts.Blend
	}
	i.Ops = append(i.Ops, op)
}

// DrawRectShader records a shader pass.
func (i *Image) DrawRectShader(width, height int, shader render.Shader, opts *render.DrawRectShaderOptions) {
	op := Op{Kind: "shader", Shader: shader.(*Shader)}
	if opts != nil {
		if src, ok := opts.Images[0].(*Image); ok {
			op.Src = src
		}
		op.Uniforms = opts.Uniforms
		op.Blend = opts.Blend
	}
	i.Ops = append(i.Ops, op)
}

// Dispose marks the image disposed.
func (i *Image) Dispose() { i.Disposed = true }

// Kinds lists the recorded operation kinds in order.
func (i *Image) Kinds() []string {
	kinds := make([]string, len(i.Ops))
	for j, op := range i.Ops {
		kinds[j] = op.Kind
	}
	return kinds
}

// Input is a scripted InputManager. Tests set fields between ticks.
type Input struct {
	Pressed     map[render.Key]bool
	JustPressed map[render.Key]bool
	Buttons     map[render.MouseButton]bool
	CursorX     int
	CursorY     int
	WheelX      float64
	WheelY      float64
}

// NewInput returns an input with nothing pressed.
func NewInput() *Input {
	return &Input{
		Pressed:     map[render.Key]bool{},
		JustPressed: map[render.Key]bool{},
		Buttons:     map[render.MouseButton]bool{},
	}
}

// IsKeyPressed reports a held key.
func (in *Input) IsKeyPressed(key render.Key) bool { return in.Pressed[key] }

// IsKeyJustPressed reports a key pressed this tick.
func (in *Input) IsKeyJustPressed(key render.Key) bool { return in.JustPressed[key] }

// GetCursorPosition returns the scripted cursor.
func (in *Input) GetCursorPosition() (int, int) { return in.CursorX, in.CursorY }

// IsMouseButtonPressed reports a held button.
func (in *Input) IsMouseButtonPressed(b render.MouseButton) bool { return in.Buttons[b] }

// Wheel returns the scripted scroll offsets.
func (in *Input) Wheel() (float64, float64) { return in.WheelX, in.WheelY }

// Release clears one-tick state: just-pressed keys and wheel motion.
func (in *Input) Release() {
	in.JustPressed = map[render.Key]bool{}
	in.WheelX, in.WheelY = 0, 0
}

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM { return &GeoM{SX: 1, SY: 1} }
	}
}

// GeoM tracks translation and scale; rotation is only accumulated.
type GeoM struct {
	TX, TY float64
	SX, SY float64
	Angle  float64
}

// Translate shifts by (tx, ty).
func (g *GeoM) Translate(tx, ty float64) { g.TX += tx; g.TY += ty }

// Scale multiplies the scale and the current translation.
func (g *GeoM) Scale(sx, sy float64) {
	g.SX *= sx
	g.SY *= sy
	g.TX *= sx
	g.TY *= sy
}

// Rotate adds to the rotation angle.
func (g *GeoM) Rotate(angle float64) { g.Angle += angle }

// Reset restores the identity.
func (g *GeoM) Reset() { *g = GeoM{SX: 1, SY: 1} }
