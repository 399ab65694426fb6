package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer clears the frame and draws a ground grid under the tree.
type BackgroundRenderer struct {
	Color      rl.Color
	GridColor  rl.Color
	GridSlices int32
	GridStep   float32
	ShowGrid   bool
}

// NewBackgroundRenderer creates a background with the given clear color.
func NewBackgroundRenderer(baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		Color:      rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		GridColor:  rl.Color{R: 170, G: 170, B: 170, A: 255},
		GridSlices: 20,
		GridStep:   20,
		ShowGrid:   true,
	}
}

// Clear fills the frame with the background color. Call outside 3D mode.
func (b *BackgroundRenderer) Clear() {
	rl.ClearBackground(b.Color)
}

// DrawGround draws the ground grid. Call inside 3D mode.
func (b *BackgroundRenderer) DrawGround() {
	if !b.ShowGrid {
		return
	}
	half := float32(b.GridSlices) * b.GridStep / 2
	for i := int32(0); i <= b.GridSlices; i++ {
		p := -half + float32(i)*b.GridStep
		rl.DrawLine3D(rl.NewVector3(p, 0, -half), rl.NewVector3(p, 0, half), b.GridColor)
		rl.DrawLine3D(rl.NewVector3(-half, 0, p), rl.NewVector3(half, 0, p), b.GridColor)
	}
}
