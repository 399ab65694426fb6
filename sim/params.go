package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/geometry"
	"github.com/pthm-cable/arbor/tree"
)

// Params is the full set of live tuning values for a simulation.
type Params struct {
	Rate   float64 // Feed supplied to the root per Step
	Growth tree.Params
	Shape  tree.Shape
	Mesh   geometry.MeshOptions
	Leaves geometry.LeafOptions
}

// DefaultParams returns the parameters of the original tree viewer.
func DefaultParams() Params {
	return Params{
		Rate:   1,
		Growth: tree.DefaultParams(),
		Shape:  tree.DefaultShape(),
		Mesh:   geometry.DefaultMeshOptions(),
		Leaves: geometry.DefaultLeafOptions(),
	}
}

// ParamsFromConfig builds simulation parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	g, t, l := cfg.Growth, cfg.Tree, cfg.Leaves
	p := Params{
		Rate: g.Rate,
		Growth: tree.Params{
			SplitDecay:   g.SplitDecay,
			PassRatio:    g.PassRatio,
			ConserveArea: g.ConserveArea,
			Directedness: g.Directedness,
			LocalDepth:   g.LocalDepth,
			InitialArea:  g.InitialArea,
		},
		Shape: tree.Shape{
			Ratio:     t.Ratio,
			Spread:    t.Spread,
			SplitSize: t.SplitSize,
		},
		Mesh: geometry.MeshOptions{
			RingSize:    t.RingSize,
			Taper:       t.Taper,
			LengthScale: t.LengthScale,
			RadiusScale: t.RadiusScale,
		},
		Leaves: geometry.LeafOptions{
			MinDepth: l.MinDepth,
			Count:    l.Count,
			Spread:   r3.Vec{X: l.Spread[0], Y: l.Spread[1], Z: l.Spread[2]},
			Size:     l.Size,
		},
	}
	return p.Clamp()
}

// Clamp returns p with every live-editable value pulled into the range the
// control panel exposes. Leaf placement always uses the mesh length scale.
func (p Params) Clamp() Params {
	p.Rate = clamp(p.Rate, 0, 5)

	g := &p.Growth
	g.SplitDecay = clamp(g.SplitDecay, 0, 1)
	g.PassRatio = clamp(g.PassRatio, 0, 1)
	g.Directedness = clamp(g.Directedness, 0, 1)
	g.LocalDepth = clampInt(g.LocalDepth, 0, 15)
	if g.InitialArea <= 0 {
		g.InitialArea = tree.DefaultInitialArea
	}

	p.Shape = clampShape(p.Shape)

	m := &p.Mesh
	m.RingSize = clampInt(m.RingSize, 3, 12)
	m.Taper = clamp(m.Taper, 0, 1)
	m.LengthScale = clamp(m.LengthScale, 0.1, 50)
	m.RadiusScale = clamp(m.RadiusScale, 0.1, 50)

	l := &p.Leaves
	l.Count = clampInt(l.Count, 0, 30)
	l.MinDepth = clampInt(l.MinDepth, 0, 15)
	l.Spread = r3.Vec{
		X: clamp(l.Spread.X, 0, 250),
		Y: clamp(l.Spread.Y, 0, 250),
		Z: clamp(l.Spread.Z, 0, 250),
	}
	l.Size = clamp(l.Size, 0, 25)
	l.LengthScale = m.LengthScale

	return p
}

func clampShape(s tree.Shape) tree.Shape {
	return tree.Shape{
		Ratio:     clamp(s.Ratio, 0, 1),
		Spread:    clamp(s.Spread, 0, 5),
		SplitSize: clamp(s.SplitSize, 0.1, 5),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
