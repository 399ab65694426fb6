package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/camera"
	"github.com/pthm-cable/arbor/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.state.Paused = !g.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.state.AutoRotate = !g.state.AutoRotate
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Regrow()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			if id, on, ok := g.overlays.HandleKeyPress(desc.Key); ok {
				slog.Debug("overlay toggled", "overlay", id, "enabled", on)
			}
		}
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.cam.Resize(float64(w), float64(h))
	g.hud.SetPosition(int32(w)-420, 10)
	g.perfPanel.SetPosition(int32(w)-270, 110)
}

// handleCameraInput processes orbit rotation and zoom.
func (g *Game) handleCameraInput() {
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Rotate(-camera.RotateStep)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Rotate(camera.RotateStep)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Scroll(1)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Scroll(-1)
	}

	// Wheel over the control panel belongs to its widgets
	mouse := rl.GetMousePosition()
	overPanel := g.overlays.IsEnabled(ui.OverlayControls) &&
		g.controls.Contains(int32(mouse.X), int32(mouse.Y), &g.state)
	if !overPanel {
		wheel := rl.GetMouseWheelMoveV()
		if wheel.X != 0 {
			g.cam.Rotate(camera.RotateStep * float64(wheel.X))
		}
		if wheel.Y != 0 {
			g.cam.Scroll(float64(wheel.Y))
		}
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
		g.state.AutoRotate = g.cam.AutoRotate
	}
}
