// Package hud draws the growth statistics overlay.
package hud

import (
	"fmt"
	"image/color"

	"chosenoffset.com/glowtree/internal/render"
	"chosenoffset.com/glowtree/internal/simulation"
)

const (
	padding       = 10
	lineHeight    = 16
	textInset     = 8
	minPanelWidth = 160
)

// Stats is the snapshot shown by the HUD each frame.
type Stats struct {
	Segments   int
	Tips       int
	Generation int
	DeepestTip int
	MaxDepth   int
	Radius     float32
	MaxRadius  float32
	Stop       simulation.StopReason
	Seed       int64
	FPS        float64
	Bloom      bool
}

// HUD manages the heads-up display
type HUD struct {
	config       simulation.HUDConfig
	renderer     render.Renderer
	screenWidth  int
	screenHeight int

	stats Stats
}

// New creates a new HUD with the given configuration
func New(config simulation.HUDConfig, renderer render.Renderer, screenWidth, screenHeight int) *HUD {
	return &HUD{
		config:       config,
		renderer:     renderer,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// SetStats updates the displayed numbers
func (h *HUD) SetStats(s Stats) {
	h.stats = s
}

// SetScreenSize updates the screen dimensions
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// Visible reports whether Draw renders anything
func (h *HUD) Visible() bool {
	return h.config.Visible
}

// Toggle shows or hides the HUD
func (h *HUD) Toggle() {
	h.config.Visible = !h.config.Visible
}

// Lines returns the text rows of the panel, top to bottom. An empty string
// marks a divider.
func (h *HUD) Lines() []string {
	s := h.stats
	status := "growing"
	if s.Stop != simulation.StopNone {
		status = fmt.Sprintf("done (%s)", s.Stop)
	}
	bloom := "off"
	if s.Bloom {
		bloom = "on"
	}

	return []string{
		fmt.Sprintf("Segments:   %d", s.Segments),
		fmt.Sprintf("Tips:       %d", s.Tips),
		fmt.Sprintf("Generation: %d", s.Generation),
		fmt.Sprintf("Depth:      %d/%d", s.DeepestTip, s.MaxDepth),
		fmt.Sprintf("Radius:     %.1f/%.0f", s.Radius, s.MaxRadius),
		fmt.Sprintf("Status:     %s", status),
		"",
		fmt.Sprintf("Seed: %d", s.Seed),
		fmt.Sprintf("FPS: %.1f  Bloom: %s", s.FPS, bloom),
		"",
		"R regrow  B bloom  H hide",
	}
}

// Draw renders the HUD to the screen
func (h *HUD) Draw(screen render.Image) {
	if !h.config.Visible {
		return
	}

	lines := h.Lines()
	width := h.panelWidth(lines)
	height := h.panelHeight(lines)
	x, y := h.calculatePosition(width, height)

	h.drawPanel(screen, x, y, width, height)

	currentY := y + 8
	for _, line := range lines {
		if line == "" {
			h.drawDivider(screen, x+4, currentY+3, width-8)
			currentY += 8
			continue
		}
		h.drawText(screen, line, x+textInset, currentY, color.RGBA{220, 220, 220, 255})
		currentY += lineHeight
	}
}

// calculatePosition returns the top-left corner of the HUD panel
func (h *HUD) calculatePosition(width, height int) (int, int) {
	switch h.config.Position {
	case "top-right":
		return h.screenWidth - width - padding, padding
	case "bottom-left":
		return padding, h.screenHeight - height - padding
	case "bottom-right":
		return h.screenWidth - width - padding, h.screenHeight - height - padding
	default: // "top-left"
		return padding, padding
	}
}

// panelWidth fits the widest line, never narrower than minPanelWidth.
func (h *HUD) panelWidth(lines []string) int {
	width := minPanelWidth
	for _, line := range lines {
		w, _ := h.renderer.MeasureText(line, 1.0)
		width = max(width, w+2*textInset)
	}
	return width
}

func (h *HUD) panelHeight(lines []string) int {
	height := 16 // Padding
	for _, line := range lines {
		if line == "" {
			height += 8
		} else {
			height += lineHeight
		}
	}
	return height
}

// drawPanel draws the semi-transparent background panel with a border
func (h *HUD) drawPanel(screen render.Image, x, y, width, height int) {
	alpha := uint8(h.config.Opacity * 255)
	fx, fy := float32(x), float32(y)
	w, ht := float32(width), float32(height)

	h.renderer.FillRect(screen, fx, fy, w, ht, color.RGBA{10, 10, 20, alpha})

	border := color.RGBA{60, 60, 80, alpha}
	h.renderer.FillRect(screen, fx, fy, w, 1, border)
	h.renderer.FillRect(screen, fx, fy+ht-1, w, 1, border)
	h.renderer.FillRect(screen, fx, fy, 1, ht, border)
	h.renderer.FillRect(screen, fx+w-1, fy, 1, ht, border)
}

// drawDivider draws a horizontal line
func (h *HUD) drawDivider(screen render.Image, x, y, width int) {
	h.renderer.FillRect(screen, float32(x), float32(y), float32(width), 1, color.RGBA{80, 80, 100, 200})
}

// drawText draws text with a shadow for readability
func (h *HUD) drawText(screen render.Image, text string, x, y int, clr color.RGBA) {
	h.renderer.DrawText(screen, text, x+1, y+1, color.RGBA{0, 0, 0, clr.A}, 1.0)
	h.renderer.DrawText(screen, text, x, y, clr, 1.0)
}
