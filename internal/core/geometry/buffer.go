// Package geometry flattens grown segments into a vertex/color line buffer
// and tracks which buffer is current.
package geometry

import (
	"image/color"

	"cogentcore.org/core/colors/cam/hsl"
	"cogentcore.org/core/math32"

	"chosenoffset.com/glowtree/internal/core/growth"
)

// Lightness of the base and tip end of every segment's gradient.
const (
	baseLightness = 0.5
	tipLightness  = 0.7
	tipHueShift   = 0.1
)

// Buffer is a line list: vertices 2i and 2i+1 form segment i.
type Buffer struct {
	Vertices []math32.Vector3
	Colors   []color.RGBA

	// Bounding sphere of all vertices.
	Center         math32.Vector3
	BoundingRadius float32
}

// BuildBuffer converts segments, in order, into a new line buffer. Each
// segment runs from HSL(hue, 1, 0.5) at its start to a lighter
// HSL(hue+0.1, 1, 0.7) at its end.
func BuildBuffer(segments []growth.Segment) *Buffer {
	b := &Buffer{
		Vertices: make([]math32.Vector3, 0, 2*len(segments)),
		Colors:   make([]color.RGBA, 0, 2*len(segments)),
	}
	for _, seg := range segments {
		b.Vertices = append(b.Vertices, seg.Start, seg.End)
		b.Colors = append(b.Colors,
			HueColor(seg.Hue, baseLightness),
			HueColor(seg.Hue+tipHueShift, tipLightness),
		)
	}
	b.Center, b.BoundingRadius = boundingSphere(b.Vertices)
	return b
}

// HueColor returns a fully saturated color for a hue in turns; hues outside
// [0, 1) wrap around.
func HueColor(hue, lightness float32) color.RGBA {
	hue = math32.Mod(hue, 1)
	if hue < 0 {
		hue++
	}
	c := hsl.New(hue*360, 1, lightness)
	return c.AsRGBA()
}

// SegmentCount returns the number of line segments in the buffer.
func (b *Buffer) SegmentCount() int {
	if b == nil {
		return 0
	}
	return len(b.Vertices) / 2
}

// Segment returns the endpoints and colors of segment i.
func (b *Buffer) Segment(i int) (start, end math32.Vector3, startColor, endColor color.RGBA) {
	return b.Vertices[2*i], b.Vertices[2*i+1], b.Colors[2*i], b.Colors[2*i+1]
}

// Release drops the buffer's backing storage. The buffer reads as empty
// afterwards.
func (b *Buffer) Release() {
	b.Vertices = nil
	b.Colors = nil
	b.BoundingRadius = 0
}

// boundingSphere centers the sphere on the axis-aligned bounding box and
// grows it to the farthest vertex.
func boundingSphere(points []math32.Vector3) (math32.Vector3, float32) {
	if len(points) == 0 {
		return math32.Vector3{}, 0
	}

	box := math32.B3Empty()
	box.ExpandByPoints(points)
	center := box.Center()

	var maxSq float32
	for _, p := range points {
		d := p.Sub(center)
		maxSq = max(maxSq, d.Dot(d))
	}
	return center, math32.Sqrt(maxSq)
}
