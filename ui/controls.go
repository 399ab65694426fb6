package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tab selects a page of the controls panel.
type Tab int

const (
	TabInfo Tab = iota
	TabGrowth
	TabLeaf
	TabTree
)

var tabNames = [...]string{"Info", "Growth", "Leaf", "Tree"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// ControlsPanel renders the tabbed tree controller.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	tab      Tab
	tabs     map[Tab][]Section
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		tab:      TabGrowth,
		tabs: map[Tab][]Section{
			TabInfo:   InfoSections(),
			TabGrowth: GrowthSections(),
			TabLeaf:   LeafSections(),
			TabTree:   TreeSections(),
		},
	}
}

// Tab returns the active tab.
func (c *ControlsPanel) Tab() Tab {
	return c.tab
}

// SetTab switches the active tab.
func (c *ControlsPanel) SetTab(t Tab) {
	if t >= TabInfo && t <= TabTree {
		c.tab = t
	}
}

// Contains reports whether a screen point lies on the panel, so camera
// input can ignore drags and scrolls that belong to a widget.
func (c *ControlsPanel) Contains(px, py int32, s *ControlState) bool {
	return px >= c.x && px < c.x+c.width && py >= c.y && py < c.y+c.height(s)
}

func (c *ControlsPanel) height(s *ControlState) int32 {
	r := c.renderer
	h := r.Theme.Padding*2 + r.Theme.LineHeight + 4 + 30
	if c.tab == TabGrowth {
		h += 34
	}
	for _, sec := range c.tabs[c.tab] {
		h += r.SectionHeight(sec, s)
	}
	return h
}

// Draw renders the panel and applies widget edits to s. Regrow is cleared
// and then set only if the Re-Grow button was pressed this frame.
func (c *ControlsPanel) Draw(s *ControlState) {
	r := c.renderer
	padding := r.Theme.Padding
	inner := c.width - padding*2

	s.Regrow = false
	r.DrawPanel(c.x, c.y, c.width, c.height(s))

	x := c.x + padding
	y := c.y + padding

	rl.DrawText("Tree Controller", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	tabW := float32(inner) / float32(len(tabNames))
	for i, name := range tabNames {
		label := name
		if Tab(i) == c.tab {
			label = "[" + name + "]"
		}
		bounds := rl.Rectangle{X: float32(x) + float32(i)*tabW, Y: float32(y), Width: tabW - 4, Height: 22}
		if gui.Button(bounds, label) {
			c.tab = Tab(i)
		}
	}
	y += 30

	if c.tab == TabGrowth {
		if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 26}, "Re-Grow [R]") {
			s.Regrow = true
		}
		y += 34
	}

	for _, sec := range c.tabs[c.tab] {
		y = r.DrawSection(x, y, sec, s, inner)
	}
}

func overlayCheck(label string, id OverlayID) CheckDescriptor {
	return CheckDescriptor{
		Label: label,
		Get: func(s *ControlState) bool {
			return s.Overlays != nil && s.Overlays.IsEnabled(id)
		},
		Set: func(s *ControlState, v bool) {
			if s.Overlays != nil {
				s.Overlays.SetEnabled(id, v)
			}
		},
	}
}

func colorSliders(label string, field func(*ControlState) *rl.Color) []SliderDescriptor {
	channel := func(name string, get func(*rl.Color) *uint8) SliderDescriptor {
		return SliderDescriptor{
			Label: label + " " + name,
			Min:   0,
			Max:   255,
			Int:   true,
			Get:   func(s *ControlState) float32 { return float32(*get(field(s))) },
			Set:   func(s *ControlState, v float32) { *get(field(s)) = uint8(v) },
		}
	}
	return []SliderDescriptor{
		channel("R", func(c *rl.Color) *uint8 { return &c.R }),
		channel("G", func(c *rl.Color) *uint8 { return &c.G }),
		channel("B", func(c *rl.Color) *uint8 { return &c.B }),
	}
}

func floatSlider(label string, lo, hi float32, format string, field func(*ControlState) *float64) SliderDescriptor {
	return SliderDescriptor{
		Label:  label,
		Min:    lo,
		Max:    hi,
		Format: format,
		Get:    func(s *ControlState) float32 { return float32(*field(s)) },
		Set:    func(s *ControlState, v float32) { *field(s) = float64(v) },
	}
}

func intSlider(label string, lo, hi float32, field func(*ControlState) *int) SliderDescriptor {
	return SliderDescriptor{
		Label: label,
		Min:   lo,
		Max:   hi,
		Int:   true,
		Get:   func(s *ControlState) float32 { return float32(*field(s)) },
		Set:   func(s *ControlState, v float32) { *field(s) = int(v) },
	}
}

// InfoSections returns the view and playback controls.
func InfoSections() []Section {
	return []Section{{
		Title: "View",
		Sliders: []SliderDescriptor{{
			Label:  "Background",
			Min:    0,
			Max:    1,
			Format: "%.2f",
			Get:    func(s *ControlState) float32 { return s.Background },
			Set:    func(s *ControlState, v float32) { s.Background = v },
		}},
		Checks: []CheckDescriptor{
			{
				Label: "Pause [P]",
				Get:   func(s *ControlState) bool { return s.Paused },
				Set:   func(s *ControlState, v bool) { s.Paused = v },
			},
			{
				Label: "Auto-Rotate [A]",
				Get:   func(s *ControlState) bool { return s.AutoRotate },
				Set:   func(s *ControlState, v bool) { s.AutoRotate = v },
			},
			overlayCheck("Ground Grid [G]", OverlayGrid),
			overlayCheck("HUD [H]", OverlayHUD),
			overlayCheck("Performance [F]", OverlayPerf),
		},
	}}
}

// GrowthSections returns the feed and split controls.
func GrowthSections() []Section {
	passRatio := floatSlider("Pass Ratio", 0, 1, "%.2f", func(s *ControlState) *float64 { return &s.Params.Growth.PassRatio })
	passRatio.Visible = func(s *ControlState) bool { return !s.Params.Growth.ConserveArea }

	return []Section{
		{
			Title: "Feed",
			Sliders: []SliderDescriptor{
				floatSlider("Growth Rate", 0, 5, "%.2f", func(s *ControlState) *float64 { return &s.Params.Rate }),
				passRatio,
			},
			Checks: []CheckDescriptor{{
				Label: "Conserve Area",
				Get:   func(s *ControlState) bool { return s.Params.Growth.ConserveArea },
				Set:   func(s *ControlState, v bool) { s.Params.Growth.ConserveArea = v },
			}},
		},
		{
			Title: "Split",
			Sliders: []SliderDescriptor{
				floatSlider("Ratio", 0, 1, "%.2f", func(s *ControlState) *float64 { return &s.Params.Shape.Ratio }),
				floatSlider("Size", 0.1, 5, "%.2f", func(s *ControlState) *float64 { return &s.Params.Shape.SplitSize }),
				floatSlider("Decay", 0, 1, "%.3f", func(s *ControlState) *float64 { return &s.Params.Growth.SplitDecay }),
				floatSlider("Spread", 0, 5, "%.2f", func(s *ControlState) *float64 { return &s.Params.Shape.Spread }),
				floatSlider("Directedness", 0, 1, "%.2f", func(s *ControlState) *float64 { return &s.Params.Growth.Directedness }),
				intSlider("Local Depth", 0, 15, func(s *ControlState) *int { return &s.Params.Growth.LocalDepth }),
			},
		},
	}
}

// LeafSections returns the leaf placement and color controls.
func LeafSections() []Section {
	return []Section{
		{
			Title: "Placement",
			Sliders: []SliderDescriptor{
				{
					Label: "Opacity",
					Min:   0,
					Max:   1,
					Get:   func(s *ControlState) float32 { return s.LeafOpacity },
					Set:   func(s *ControlState, v float32) { s.LeafOpacity = v },
				},
				intSlider("Count", 0, 30, func(s *ControlState) *int { return &s.Params.Leaves.Count }),
				intSlider("Minimum Depth", 0, 15, func(s *ControlState) *int { return &s.Params.Leaves.MinDepth }),
				floatSlider("Spread X", 0, 250, "%.0f", func(s *ControlState) *float64 { return &s.Params.Leaves.Spread.X }),
				floatSlider("Spread Y", 0, 250, "%.0f", func(s *ControlState) *float64 { return &s.Params.Leaves.Spread.Y }),
				floatSlider("Spread Z", 0, 250, "%.0f", func(s *ControlState) *float64 { return &s.Params.Leaves.Spread.Z }),
				floatSlider("Size", 0, 25, "%.1f", func(s *ControlState) *float64 { return &s.Params.Leaves.Size }),
			},
			Checks: []CheckDescriptor{
				overlayCheck("Draw [L]", OverlayLeaves),
				overlayCheck("Billboard [B]", OverlayBillboard),
			},
		},
		{
			Title:   "Color",
			Sliders: colorSliders("Leaf", func(s *ControlState) *rl.Color { return &s.LeafColor }),
		},
	}
}

// TreeSections returns the tube mesh controls.
func TreeSections() []Section {
	return []Section{
		{
			Title: "Mesh",
			Sliders: []SliderDescriptor{
				floatSlider("Length Scale", 0.1, 50, "%.1f", func(s *ControlState) *float64 { return &s.Params.Mesh.LengthScale }),
				floatSlider("Radius Scale", 0.1, 50, "%.1f", func(s *ControlState) *float64 { return &s.Params.Mesh.RadiusScale }),
				floatSlider("Taper", 0, 1, "%.2f", func(s *ControlState) *float64 { return &s.Params.Mesh.Taper }),
				intSlider("Ring Size", 3, 12, func(s *ControlState) *int { return &s.Params.Mesh.RingSize }),
			},
			Checks: []CheckDescriptor{
				overlayCheck("Draw [T]", OverlayTree),
				overlayCheck("Wire [W]", OverlayWire),
			},
		},
		{
			Title:   "Color",
			Sliders: colorSliders("Fill", func(s *ControlState) *rl.Color { return &s.TreeColor }),
		},
	}
}
