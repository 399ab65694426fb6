package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// Light is a directional light evaluated on the CPU per triangle.
type Light struct {
	Dir       r3.Vec  // Unit vector pointing toward the light
	Color     rl.Color
	Ambient   float64 // Minimum brightness in [0, 1]
	TwoSided  bool    // Light back faces as if they faced the light
	Intensity float64
}

// DefaultLight returns a white light from above the +X/+Z diagonal.
func DefaultLight() Light {
	return Light{
		Dir:       r3.Unit(r3.Vec{X: 50, Y: 50, Z: 50}),
		Color:     rl.White,
		Ambient:   0.35,
		Intensity: 1.0,
	}
}

// brightness returns the Lambert factor for normal n.
func (l Light) brightness(n r3.Vec) float64 {
	d := r3.Dot(n, l.Dir)
	if l.TwoSided {
		d = math.Abs(d)
	}
	if d < 0 {
		d = 0
	}
	b := l.Ambient + (1-l.Ambient)*d*l.Intensity
	if b > 1 {
		b = 1
	}
	return b
}

// Shade returns base lit by l for a surface with unit normal n.
func (l Light) Shade(base rl.Color, n r3.Vec) rl.Color {
	b := l.brightness(n)
	mix := func(c, lc uint8) uint8 {
		return uint8(float64(c) * float64(lc) / 255 * b)
	}
	return rl.Color{
		R: mix(base.R, l.Color.R),
		G: mix(base.G, l.Color.G),
		B: mix(base.B, l.Color.B),
		A: base.A,
	}
}
