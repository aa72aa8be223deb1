package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the screen with a vertical storm-sky gradient.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     rl.NewColor(baseR/3, baseG/3, baseB/3, 255),
		bottom:  rl.NewColor(baseR, baseG, baseB, 255),
	}
}

// Resize updates the gradient extent.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw renders the background. Call before BeginMode3D.
func (b *BackgroundRenderer) Draw() {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}
