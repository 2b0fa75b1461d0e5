// Package lines turns a segment buffer into screen-space quads that the
// render backend can draw as triangles.
package lines

import (
	"image"
	"image/color"

	"cogentcore.org/core/math32"

	"chosenoffset.com/glowtree/internal/core/geometry"
	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/render/camera"
)

const (
	verticesPerQuad = 4
	indicesPerQuad  = 6

	// quadsPerBatch keeps every batch addressable by uint16 indices.
	quadsPerBatch = render.MaxVerticesPerDraw / verticesPerQuad
)

// Batch is one DrawTriangles call worth of geometry.
type Batch struct {
	Vertices []render.Vertex
	Indices  []uint16
}

// Quads returns the number of line quads in the batch.
func (b *Batch) Quads() int {
	return len(b.Vertices) / verticesPerQuad
}

// Mesh is the projected line geometry for one frame.
type Mesh struct {
	Batches []Batch
	Culled  int // Segments entirely behind the near plane or past far
}

// Quads returns the total number of quads across all batches.
func (m *Mesh) Quads() int {
	n := 0
	for i := range m.Batches {
		n += m.Batches[i].Quads()
	}
	return n
}

// Style controls line appearance.
type Style struct {
	Width   float32 // Pixels
	Opacity float32
}

// Build projects every segment of buf through tf and view. Segments that
// cross the near plane are clipped; segments wholly outside the clip range
// are dropped.
func Build(buf *geometry.Buffer, view camera.View, tf camera.Transform, style Style) *Mesh {
	mesh := &Mesh{}
	n := buf.SegmentCount()
	if n == 0 {
		return mesh
	}

	var batch *Batch
	half := style.Width / 2
	for i := 0; i < n; i++ {
		a := view.ToCamera(tf.Apply(buf.Vertices[2*i]))
		b := view.ToCamera(tf.Apply(buf.Vertices[2*i+1]))
		ca := toFloat(buf.Colors[2*i])
		cb := toFloat(buf.Colors[2*i+1])

		var ok bool
		a, b, ca, cb, ok = clip(a, b, ca, cb, view.Near(), view.Far())
		if !ok {
			mesh.Culled++
			continue
		}

		if batch == nil || batch.Quads() == quadsPerBatch {
			size := min(n-i, quadsPerBatch)
			mesh.Batches = append(mesh.Batches, Batch{
				Vertices: make([]render.Vertex, 0, size*verticesPerQuad),
				Indices:  make([]uint16, 0, size*indicesPerQuad),
			})
			batch = &mesh.Batches[len(mesh.Batches)-1]
		}

		ax, ay := view.ToScreen(a)
		bx, by := view.ToScreen(b)
		appendQuad(batch, ax, ay, bx, by, half, ca, cb, style.Opacity)
	}
	return mesh
}

type rgb struct{ r, g, b float32 }

func toFloat(c color.RGBA) rgb {
	return rgb{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func lerpRGB(a, b rgb, t float32) rgb {
	return rgb{
		a.r + (b.r-a.r)*t,
		a.g + (b.g-a.g)*t,
		a.b + (b.b-a.b)*t,
	}
}

// clip trims the camera-space segment a-b to the [near, far] depth range,
// interpolating colours along with positions.
func clip(a, b math32.Vector3, ca, cb rgb, near, far float32) (math32.Vector3, math32.Vector3, rgb, rgb, bool) {
	if a.Z < near && b.Z < near {
		return a, b, ca, cb, false
	}
	if a.Z > far && b.Z > far {
		return a, b, ca, cb, false
	}
	if a.Z < near {
		t := (near - a.Z) / (b.Z - a.Z)
		a = a.Add(b.Sub(a).MulScalar(t))
		ca = lerpRGB(ca, cb, t)
	} else if b.Z < near {
		t := (near - b.Z) / (a.Z - b.Z)
		b = b.Add(a.Sub(b).MulScalar(t))
		cb = lerpRGB(cb, ca, t)
	}
	if a.Z > far {
		t := (a.Z - far) / (a.Z - b.Z)
		a = a.Add(b.Sub(a).MulScalar(t))
		ca = lerpRGB(ca, cb, t)
	} else if b.Z > far {
		t := (b.Z - far) / (b.Z - a.Z)
		b = b.Add(a.Sub(b).MulScalar(t))
		cb = lerpRGB(cb, ca, t)
	}
	return a, b, ca, cb, true
}

func appendQuad(batch *Batch, ax, ay, bx, by, half float32, ca, cb rgb, alpha float32) {
	dx, dy := bx-ax, by-ay
	length := math32.Sqrt(dx*dx + dy*dy)
	var nx, ny float32
	if length > 0 {
		nx, ny = -dy/length*half, dx/length*half
	} else {
		// Degenerate on screen; draw a square dot.
		nx, ny = half, 0
	}

	base := uint16(len(batch.Vertices))
	batch.Vertices = append(batch.Vertices,
		vertex(ax+nx, ay+ny, ca, alpha),
		vertex(ax-nx, ay-ny, ca, alpha),
		vertex(bx+nx, by+ny, cb, alpha),
		vertex(bx-nx, by-ny, cb, alpha),
	)
	batch.Indices = append(batch.Indices,
		base, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func vertex(x, y float32, c rgb, alpha float32) render.Vertex {
	// Colours are premultiplied by alpha.
	return render.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: c.r * alpha,
		ColorG: c.g * alpha,
		ColorB: c.b * alpha,
		ColorA: alpha,
	}
}

// Drawer draws meshes with a small white source texture.
type Drawer struct {
	white render.Image
	src   render.Image
	blend render.BlendMode
}

// NewDrawer allocates the source texture. Lines are blended additively when
// additive is set, which reads better against a black background.
func NewDrawer(r render.Renderer, additive bool) *Drawer {
	white := r.NewImage(3, 3)
	white.Fill(color.White)
	d := &Drawer{
		white: white,
		src:   white.SubImage(image.Rect(1, 1, 2, 2)),
	}
	if additive {
		d.blend = render.BlendLighter
	}
	return d
}

// Draw renders every batch of mesh onto dst.
func (d *Drawer) Draw(dst render.Image, mesh *Mesh) {
	opts := &render.DrawTrianglesOptions{AntiAlias: true, Blend: d.blend}
	for i := range mesh.Batches {
		b := &mesh.Batches[i]
		dst.DrawTriangles(b.Vertices, b.Indices, d.src, opts)
	}
}

// Dispose releases the source texture.
func (d *Drawer) Dispose() {
	d.white.Dispose()
}
