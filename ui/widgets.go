package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawSlider draws a raygui slider for sd and writes the result back into
// s. It returns the new Y position.
func (r *Renderer) DrawSlider(x, y int32, sd SliderDescriptor, s *ControlState, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(s) {
		return y
	}

	cur := sd.Get(s)
	rl.DrawText(sd.Label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.FontSize + 2

	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width - 60), Height: 16}
	next := gui.SliderBar(bounds, "", "", cur, sd.Min, sd.Max)
	if sd.Int {
		next = float32(math.Round(float64(next)))
	}
	if next != cur {
		sd.Set(s, next)
	}

	format := sd.Format
	if format == "" {
		format = "%.2f"
	}
	readout := fmt.Sprintf(format, next)
	if sd.Int {
		readout = fmt.Sprintf("%d", int(next))
	}
	rl.DrawText(readout, x+width-55, y+2, r.Theme.FontSize, r.Theme.ValueColor)

	return y + 22
}

// DrawCheck draws a raygui checkbox for cd and writes the result back into s.
func (r *Renderer) DrawCheck(x, y int32, cd CheckDescriptor, s *ControlState) int32 {
	cur := cd.Get(s)
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}
	if next := gui.CheckBox(bounds, cd.Label, cur); next != cur {
		cd.Set(s, next)
	}
	return y + 20
}

// DrawSection renders a section header followed by its sliders and checks.
func (r *Renderer) DrawSection(x, y int32, sec Section, s *ControlState, width int32) int32 {
	if sec.Title != "" {
		y = r.DrawSectionHeader(x, y, sec.Title)
	}
	for _, sd := range sec.Sliders {
		y = r.DrawSlider(x, y, sd, s, width)
	}
	for _, cd := range sec.Checks {
		y = r.DrawCheck(x, y, cd, s)
	}
	return y + 4
}

// SectionHeight returns the vertical space DrawSection will use for sec.
func (r *Renderer) SectionHeight(sec Section, s *ControlState) int32 {
	h := int32(4)
	if sec.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, sd := range sec.Sliders {
		if sd.Visible == nil || sd.Visible(s) {
			h += r.Theme.FontSize + 2 + 22
		}
	}
	return h + int32(len(sec.Checks))*20
}
