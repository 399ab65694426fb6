package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Tick      int32
	Branches  int
	Leaves    int
	MaxDepth  int
	Height    float64
	Vertices  int
	LeafQuads int
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the HUD position.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	x, y := h.x, h.y
	rl.DrawText(data.Title, x, y, 20, rl.DarkGray)
	y += 25

	rl.DrawText(
		fmt.Sprintf("Branches: %d | Leaves: %d | Depth: %d | Height: %.1f",
			data.Branches, data.Leaves, data.MaxDepth, data.Height),
		x, y, 16, rl.DarkGray,
	)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Vertices: %d | Leaf quads: %d",
			data.Tick, data.FPS, data.Vertices, data.LeafQuads),
		x, y, 16, rl.DarkGray,
	)
	y += 20

	statusText := "Growing"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, x, y, 16, rl.Maroon)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel from the collector's current window.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	phases := telemetry.Phases()
	r := p.renderer
	padding := r.Theme.Padding
	height := padding*2 + 20 + 16*2 + int32(len(phases))*(r.Theme.LineHeight+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s avg, %s max",
		stats.AvgTick.Round(time.Microsecond),
		stats.MaxTick.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.0f ticks/s | %.0f steps/s | %d vertices", stats.TicksPerSecond, stats.StepsPerSecond, stats.Vertices), x, y, 12, rl.LightGray)
	y += 16

	for _, ph := range phases {
		y = r.DrawBar(x, y, ph.String(), float32(stats.PhasePct[ph]/100), p.width-padding*2)
	}
}
