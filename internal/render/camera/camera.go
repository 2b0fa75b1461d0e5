// Package camera projects world-space points onto the screen through a
// perspective camera that orbits a target point.
package camera

import (
	"cogentcore.org/core/math32"

	"chosenoffset.com/glowtree/internal/simulation"
)

// polarEpsilon keeps the camera off the poles where the up vector degenerates.
const polarEpsilon = 1e-3

// Camera is a perspective camera on a sphere around Target. Orbit input is
// queued with Rotate and Zoom and applied, damped, by Update.
type Camera struct {
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32
	Target math32.Vector3

	distance float32
	azimuth  float32 // Around Y, 0 looks down -Z from +Z
	polar    float32 // From +Y

	minDistance float32
	maxDistance float32
	damping     float32
	rotateSpeed float32
	zoomSpeed   float32

	pendingAzimuth float32
	pendingPolar   float32
	pendingZoom    float32 // Multiplier on distance
}

// New returns a camera on the +Z axis looking at the origin.
func New(cfg simulation.CameraConfig) *Camera {
	return &Camera{
		FOV:         cfg.FOV,
		Aspect:      1,
		Near:        cfg.Near,
		Far:         cfg.Far,
		distance:    cfg.Distance,
		polar:       math32.Pi / 2,
		minDistance: cfg.MinDistance,
		maxDistance: cfg.MaxDistance,
		damping:     cfg.Damping,
		rotateSpeed: cfg.RotateSpeed,
		zoomSpeed:   cfg.ZoomSpeed,
		pendingZoom: 1,
	}
}

// SetViewport updates the aspect ratio for a viewport of w x h pixels.
func (c *Camera) SetViewport(w, h int) {
	if w > 0 && h > 0 {
		c.Aspect = float32(w) / float32(h)
	}
}

// Position returns the camera's world-space eye point.
func (c *Camera) Position() math32.Vector3 {
	sinPolar, cosPolar := math32.Sincos(c.polar)
	sinAz, cosAz := math32.Sincos(c.azimuth)
	offset := math32.Vec3(sinPolar*sinAz, cosPolar, sinPolar*cosAz)
	return c.Target.Add(offset.MulScalar(c.distance))
}

// Distance returns the current distance from the target.
func (c *Camera) Distance() float32 {
	return c.distance
}

// Rotate queues an orbit by a pointer drag of (dx, dy) pixels in a viewport
// viewportHeight pixels tall. A drag the full height turns a full circle.
func (c *Camera) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	scale := 2 * math32.Pi / float32(viewportHeight) * c.rotateSpeed
	c.pendingAzimuth -= dx * scale
	c.pendingPolar -= dy * scale
}

// Pan slides the target across the view plane so a pointer drag of
// (dx, dy) pixels keeps the point under the cursor fixed at target depth.
func (c *Camera) Pan(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	v := c.View(0, viewportHeight)
	perPixel := 2 * c.distance / v.focal / float32(viewportHeight)
	c.Target = c.Target.Sub(v.right.MulScalar(dx * perPixel)).Add(v.up.MulScalar(dy * perPixel))
}

// Zoom queues a dolly; positive steps move closer.
func (c *Camera) Zoom(steps float32) {
	c.pendingZoom *= math32.Pow(0.95, steps*c.zoomSpeed)
}

// Update applies a damped share of the queued orbit. Call once per tick.
func (c *Camera) Update() {
	c.azimuth += c.pendingAzimuth * c.damping
	c.polar += c.pendingPolar * c.damping
	c.polar = math32.Clamp(c.polar, polarEpsilon, math32.Pi-polarEpsilon)
	c.pendingAzimuth *= 1 - c.damping
	c.pendingPolar *= 1 - c.damping

	c.distance = math32.Clamp(c.distance*c.pendingZoom, c.minDistance, c.maxDistance)
	c.pendingZoom = 1
}

// View is a camera-space basis built once per frame.
type View struct {
	eye                   math32.Vector3
	right, up, forward    math32.Vector3
	focal                 float32 // 1 / tan(fov/2)
	aspect, near, far     float32
	halfWidth, halfHeight float32
}

// View builds the projection for a viewport of w x h pixels.
func (c *Camera) View(w, h int) View {
	eye := c.Position()
	forward := c.Target.Sub(eye).Normal()
	worldUp := math32.Vec3(0, 1, 0)
	right := forward.Cross(worldUp).Normal()
	up := right.Cross(forward)

	return View{
		eye:        eye,
		right:      right,
		up:         up,
		forward:    forward,
		focal:      1 / math32.Tan(math32.DegToRad(c.FOV)/2),
		aspect:     c.Aspect,
		near:       c.Near,
		far:        c.Far,
		halfWidth:  float32(w) / 2,
		halfHeight: float32(h) / 2,
	}
}

// ToCamera returns p in camera space: x right, y up, z distance in front.
func (v View) ToCamera(p math32.Vector3) math32.Vector3 {
	d := p.Sub(v.eye)
	return math32.Vec3(d.Dot(v.right), d.Dot(v.up), d.Dot(v.forward))
}

// ToScreen maps a camera-space point in front of the near plane to pixels.
func (v View) ToScreen(p math32.Vector3) (x, y float32) {
	ndcX := v.focal * p.X / (p.Z * v.aspect)
	ndcY := v.focal * p.Y / p.Z
	return (ndcX + 1) * v.halfWidth, (1 - ndcY) * v.halfHeight
}

// Near returns the near clip distance.
func (v View) Near() float32 { return v.near }

// Far returns the far clip distance.
func (v View) Far() float32 { return v.far }

// Project maps a world point to pixels. ok is false when the point lies
// outside the near/far range.
func (v View) Project(p math32.Vector3) (x, y float32, ok bool) {
	c := v.ToCamera(p)
	if c.Z < v.near || c.Z > v.far {
		return 0, 0, false
	}
	x, y = v.ToScreen(c)
	return x, y, true
}

// Transform places the tree in the world: a spin about Y and a vertical
// offset.
type Transform struct {
	RotationY float32
	OffsetY   float32
}

// Apply maps a model-space point to world space.
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	sin, cos := math32.Sincos(t.RotationY)
	return math32.Vec3(
		p.X*cos+p.Z*sin,
		p.Y+t.OffsetY,
		-p.X*sin+p.Z*cos,
	)
}
