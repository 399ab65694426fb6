// Package ui draws the tree controller panel, the HUD and the view toggles.
// Controls are described by metadata so the panel layout follows the
// parameter set instead of hard-coding each widget.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arbor/sim"
)

// ControlState is everything the control panel can edit in one frame.
type ControlState struct {
	Params   sim.Params
	Overlays *OverlayRegistry

	Paused     bool
	AutoRotate bool

	Background  float32 // Gray level of the clear color in [0, 1]
	LeafColor   rl.Color
	TreeColor   rl.Color
	LeafOpacity float32

	// Regrow is set for the frame the Re-Grow button is pressed.
	Regrow bool
}

// SliderDescriptor binds one slider to a value in ControlState.
type SliderDescriptor struct {
	Label   string
	Min     float32
	Max     float32
	Format  string // Printf format for the value readout
	Int     bool   // Round to the nearest integer
	Visible func(*ControlState) bool
	Get     func(*ControlState) float32
	Set     func(*ControlState, float32)
}

// CheckDescriptor binds one checkbox to a flag.
type CheckDescriptor struct {
	Label string
	Get   func(*ControlState) bool
	Set   func(*ControlState, bool)
}

// Section is a run of sliders and checkboxes under one tab.
type Section struct {
	Title   string
	Sliders []SliderDescriptor
	Checks  []CheckDescriptor
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
