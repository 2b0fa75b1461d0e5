package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrTerminated is returned from Game.Update to end the loop cleanly.
var ErrTerminated = errors.New("render: terminated")

// Shader represents a compiled shader program.
type Shader interface {
	// Dispose releases shader resources.
	Dispose()
}

// BlendMode selects how a draw combines with the destination.
type BlendMode int

const (
	// BlendSourceOver is regular alpha blending.
	BlendSourceOver BlendMode = iota
	// BlendLighter adds source to destination, used for glow.
	BlendLighter
	// BlendCopy replaces the destination.
	BlendCopy
)

// Filter selects the sampling used when scaling an image.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// DrawRectShaderOptions contains options for drawing with a shader.
type DrawRectShaderOptions struct {
	// Images are the source images for the shader (up to 4).
	Images [4]Image
	// Uniforms are the shader uniform values.
	Uniforms map[string]interface{}
	// Blend is how the result is combined with the destination.
	Blend BlendMode
}

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// the viewer.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillRect(dst Image, x, y, width, height float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)

	// Shader operations
	CompileShader(src []byte) (Shader, error)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Sub-image extraction
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Shader operations
	DrawRectShader(width, height int, shader Shader, opts *DrawRectShaderOptions)

	// Resource management
	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM   GeoM
	Blend  BlendMode
	Filter Filter
	// Brightness scales the source color; 0 leaves it unchanged.
	Brightness float32
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)

	// Rotate rotates the image by the given angle in radians.
	Rotate(angle float64)

	// Reset resets the matrix to identity.
	Reset()
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
	Blend     BlendMode
}

// MaxVerticesPerDraw is the largest vertex count one DrawTriangles call can
// address with 16-bit indices.
const MaxVerticesPerDraw = 1 << 16

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	// Wheel returns the scroll offsets since the previous tick.
	Wheel() (x, y float64)
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the viewer uses
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyB // Bloom toggle
	KeyH // HUD toggle
	KeyR // Regrow
	KeyEqual
	KeyMinus
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft  MouseButton = iota
	MouseButtonRight             // Pan
)

// Game represents the game interface that the engine will call.
// This is typically implemented by the main viewer struct.
type Game interface {
	// Update updates the logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the frame loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// ActualFPS returns the measured frames per second.
	ActualFPS() float64

	// RunGame runs the loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
