package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/tree"
	"github.com/pthm-cable/arbor/ui"
)

const controlsLegend = "[P] Pause  [A] Auto-Rotate  [R] Re-Grow  [Arrows/Wheel] Orbit/Zoom  [T/L/W/G/B] View  [C/H/F] Panels"

// Draw renders the frame and applies control panel edits.
func (g *Game) Draw() {
	g.syncPalette()

	rl.BeginDrawing()
	g.background.Clear()

	g.trees.Begin(g.cam)
	g.background.DrawGround()
	if g.mesh != nil {
		g.trees.DrawMesh(g.mesh)
	}
	g.trees.DrawLeafQuads(g.leaves)
	g.trees.End()

	g.drawPanels()

	rl.EndDrawing()

	g.applyControls()
}

// syncPalette copies view state from the panel and overlays into the renderers.
func (g *Game) syncPalette() {
	g.background.Color = gray(g.state.Background)
	g.background.ShowGrid = g.overlays.IsEnabled(ui.OverlayGrid)

	g.trees.Palette.Tree = g.state.TreeColor
	g.trees.Palette.Leaf = g.state.LeafColor
	g.trees.Palette.LeafOpacity = g.state.LeafOpacity
	g.trees.DrawTree = g.overlays.IsEnabled(ui.OverlayTree)
	g.trees.DrawLeaves = g.overlays.IsEnabled(ui.OverlayLeaves)
	g.trees.DrawWire = g.overlays.IsEnabled(ui.OverlayWire)
}

func (g *Game) drawPanels() {
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controls.Draw(&g.state)
	}

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		m := tree.Measure(g.sim.Root())
		vertices := 0
		if g.mesh != nil {
			vertices = g.mesh.VertexCount()
		}
		g.hud.Draw(ui.HUDData{
			Title:     fmt.Sprintf("Arbor (x%d)", g.stepsPerUpdate),
			Tick:      g.sim.Tick(),
			Branches:  m.Branches,
			Leaves:    m.Leaves,
			MaxDepth:  m.MaxDepth,
			Height:    m.Height,
			Vertices:  vertices,
			LeafQuads: len(g.leaves),
			FPS:       rl.GetFPS(),
			Paused:    g.state.Paused,
		})
		g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
}

// applyControls pushes edits made in the control panel this frame into the
// simulation. Out of range values come back clamped.
func (g *Game) applyControls() {
	if g.state.Regrow {
		g.Regrow()
		g.state.Regrow = false
	}
	if g.state.Params != g.sim.Params() {
		g.sim.SetParams(g.state.Params)
		g.state.Params = g.sim.Params()
	}
}
