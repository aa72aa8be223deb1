package game

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	rotateSensitivity = 0.005 // radians per pixel
	panSpeed          = 0.4   // world units per frame
	zoomStep          = 1.1
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsWindowResized() {
		w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		g.background.Resize(w, h)
		g.perfPanel.SetPosition(w-260, 10)
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyF) {
		g.overlays.Fields = !g.overlays.Fields
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.overlays.Probes = !g.overlays.Probes
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.overlays.Grid = !g.overlays.Grid
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.showPerf = !g.showPerf
	}

	g.handleCameraInput()
}

// handleCameraInput orbits, pans and zooms the camera.
func (g *Game) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyR) {
		g.camera.Reset()
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(float64(d.X)*rotateSensitivity, float64(d.Y)*rotateSensitivity)
	}

	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		g.camera.ZoomBy(zoomStep)
	} else if wheel < 0 {
		g.camera.ZoomBy(1 / zoomStep)
	}

	var right, forward float64
	if rl.IsKeyDown(rl.KeyW) {
		forward += panSpeed
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += panSpeed
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= panSpeed
	}
	if right != 0 || forward != 0 {
		g.camera.Pan(right, forward)
	}
}
