// Package camera provides the orbit camera used to view the tree.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/config"
)

// ZoomStep is the factor applied per mouse wheel notch.
const ZoomStep = 0.99

// RotateStep is the rotation in degrees applied per arrow key frame.
const RotateStep = 1.5

// Camera orbits the tree's vertical axis with an orthographic projection.
type Camera struct {
	// Rotation about +Y in degrees, kept in [0, 360). Leaf billboarding
	// uses this angle.
	Rotation float64

	// Zoom scales the visible extent: the view spans ViewportW*Zoom by
	// ViewportH*Zoom world units in each direction from the target.
	Zoom float64

	AutoRotate  bool
	RotateSpeed float64 // Degrees per Update while auto-rotating

	// Orbit geometry
	Distance float64 // Horizontal distance from the trunk axis
	Height   float64
	TargetY  float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	initial config.CameraConfig
}

// New creates a camera with the configured defaults.
func New(viewportW, viewportH float64, cfg config.CameraConfig) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.05,
		MaxZoom:   5.0,
		initial:   cfg,
	}
	c.Reset()
	return c
}

// Reset returns the camera to its configured rotation-free state.
func (c *Camera) Reset() {
	c.Rotation = 0
	c.AutoRotate = c.initial.AutoRotate
	c.RotateSpeed = c.initial.RotateSpeed
	c.Distance = c.initial.Distance
	c.Height = c.initial.Height
	c.TargetY = c.initial.TargetY
	c.SetZoom(c.initial.Zoom)
}

// Update advances auto-rotation by one frame.
func (c *Camera) Update() {
	if c.AutoRotate {
		c.Rotate(c.RotateSpeed)
	}
}

// Rotate turns the camera by deg degrees, wrapping into [0, 360).
func (c *Camera) Rotate(deg float64) {
	c.Rotation = wrapDegrees(c.Rotation + deg)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// Scroll applies mouse wheel movement. Scrolling forward shows more of the scene.
func (c *Camera) Scroll(wheel float64) {
	if wheel == 0 {
		return
	}
	c.SetZoom(c.Zoom * math.Pow(ZoomStep, -wheel))
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Target returns the point the camera looks at.
func (c *Camera) Target() r3.Vec {
	return r3.Vec{Y: c.TargetY}
}

// Position returns the eye position. At zero rotation the camera sits on the
// +X/+Z diagonal; increasing rotation turns the view the same way the
// billboard angle does.
func (c *Camera) Position() r3.Vec {
	az := (45 - c.Rotation) * math.Pi / 180
	s, co := math.Sincos(az)
	return r3.Vec{X: c.Distance * s, Y: c.Height, Z: c.Distance * co}
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	return r3.Unit(r3.Sub(c.Target(), c.Position()))
}

// Extent returns the full visible height in world units, for orthographic
// projection setup.
func (c *Camera) Extent() float64 {
	return 2 * c.ViewportH * c.Zoom
}

// wrapDegrees maps a into [0, 360).
func wrapDegrees(a float64) float64 {
	r := math.Mod(a, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
