// Shape preview tool - grows a tree to a fixed age for the current slider
// values, so shape parameters can be compared without waiting on live growth.
//
// Usage: go run ./cmd/shapepreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/camera"
	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/renderer"
	"github.com/pthm-cable/arbor/sim"
	"github.com/pthm-cable/arbor/tree"
	"github.com/pthm-cable/arbor/ui"
)

const (
	windowWidth  = 1100
	windowHeight = 760
	panelWidth   = 300
)

// previewState is everything that determines the grown tree.
type previewState struct {
	params sim.Params
	ticks  int
	seed   int64
}

func grow(st previewState) (*sim.Simulation, tree.Metrics) {
	s := sim.New(st.params, rand.New(rand.NewSource(st.seed)))
	for s.Tick() < int32(st.ticks) {
		s.Step()
	}
	return s, tree.Measure(s.Root())
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Tree Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := config.Defaults()
	defaults := previewState{params: sim.ParamsFromConfig(cfg), ticks: 200, seed: 42}
	st := defaults

	controls := ui.ControlState{Params: st.params}
	sections := ui.GrowthSections()
	widgets := ui.NewRenderer()

	cam := camera.New(float64(windowWidth-panelWidth), windowHeight, cfg.Camera)
	trees := renderer.NewTreeRenderer()
	background := renderer.NewBackgroundRenderer(204, 204, 204)

	s, metrics := grow(st)
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			s, metrics = grow(st)
			needsRegen = false
		}
		cam.Update()
		mesh := s.Mesh()
		leaves := s.Leaves(true, cam.Rotation)

		rl.BeginDrawing()
		background.Clear()

		trees.Begin(cam)
		background.DrawGround()
		trees.DrawMesh(mesh)
		trees.DrawLeafQuads(leaves)
		trees.End()

		rl.DrawText(fmt.Sprintf("Tick %d | %d branches | %d leaves | depth %d | height %.2f",
			s.Tick(), metrics.Branches, metrics.Leaves, metrics.MaxDepth, metrics.Height),
			15, windowHeight-30, 16, rl.DarkGray)

		// Control panel
		panelX := int32(windowWidth - panelWidth)
		widgets.DrawPanel(panelX, 0, panelWidth, windowHeight)
		x := panelX + 10
		y := int32(10)
		inner := int32(panelWidth - 20)

		rl.DrawText("Shape Parameters", x, y, 20, rl.White)
		y += 30

		for _, sec := range sections {
			y = widgets.DrawSection(x, y, sec, &controls, inner)
		}

		rl.DrawText("Ticks", x, y, 12, rl.LightGray)
		y += 14
		ticks := gui.SliderBar(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner - 60), Height: 16},
			"", "", float32(st.ticks), 10, 1000)
		rl.DrawText(fmt.Sprintf("%d", int(ticks)), x+inner-55, y+2, 12, rl.LightGray)
		if int(ticks) != st.ticks {
			st.ticks = int(ticks)
			needsRegen = true
		}
		y += 30

		if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 135, Height: 30}, "New Seed") {
			st.seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: float32(x + 145), Y: float32(y), Width: 135, Height: 30}, "Reset All") {
			st = defaults
			controls.Params = st.params
			needsRegen = true
		}
		y += 45

		clamped := controls.Params.Clamp()
		if clamped != st.params {
			st.params = clamped
			controls.Params = clamped
			needsRegen = true
		}

		g, sh := st.params.Growth, st.params.Shape
		yamlText := fmt.Sprintf(`growth:
  rate: %.2f
  split_decay: %.3f
  pass_ratio: %.2f
  conserve_area: %t
  directedness: %.2f
  local_depth: %d
tree:
  ratio: %.2f
  spread: %.2f
  split_size: %.2f`,
			st.params.Rate, g.SplitDecay, g.PassRatio, g.ConserveArea, g.Directedness, g.LocalDepth,
			sh.Ratio, sh.Spread, sh.SplitSize)

		rl.DrawText("YAML Config:", x, y, 16, rl.LightGray)
		y += 22
		rl.DrawText(yamlText, x, y, 12, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", x, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}
}
