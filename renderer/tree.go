// Package renderer draws the tree geometry with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/camera"
	"github.com/pthm-cable/arbor/geometry"
)

// Palette holds the tree colors.
type Palette struct {
	Tree        rl.Color
	Leaf        rl.Color
	Wire        rl.Color
	LeafOpacity float32
}

// DefaultPalette returns white bark with crimson leaves.
func DefaultPalette() Palette {
	return Palette{
		Tree:        rl.Color{R: 255, G: 255, B: 255, A: 255},
		Leaf:        rl.Color{R: 209, G: 33, B: 59, A: 255},
		Wire:        rl.Color{R: 0, G: 0, B: 0, A: 255},
		LeafOpacity: 0.9,
	}
}

// leafCorners is the unit quad every leaf transform is applied to. It lies in
// the XY plane facing +Z.
var leafCorners = [4]r3.Vec{
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
	{X: 0.5, Y: 0.5},
	{X: -0.5, Y: 0.5},
}

// TreeRenderer draws the tube mesh and leaf quads in 3D mode.
type TreeRenderer struct {
	Palette   Palette
	Light     Light
	LeafLight Light

	DrawTree   bool
	DrawLeaves bool
	DrawWire   bool
}

// NewTreeRenderer creates a renderer with the default palette and light.
func NewTreeRenderer() *TreeRenderer {
	leafLight := DefaultLight()
	leafLight.TwoSided = true
	return &TreeRenderer{
		Palette:    DefaultPalette(),
		Light:      DefaultLight(),
		LeafLight:  leafLight,
		DrawTree:   true,
		DrawLeaves: true,
	}
}

// Camera3D converts the orbit camera to an orthographic raylib camera.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(cam.Position()),
		Target:     vec3(cam.Target()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(cam.Extent()),
		Projection: rl.CameraOrthographic,
	}
}

// Begin enters 3D mode for cam.
func (r *TreeRenderer) Begin(cam *camera.Camera) {
	rl.BeginMode3D(Camera3D(cam))
}

// End leaves 3D mode.
func (r *TreeRenderer) End() {
	rl.EndMode3D()
}

// DrawMesh draws the tube mesh, shaded per triangle, plus optional wireframe.
func (r *TreeRenderer) DrawMesh(m *geometry.Mesh) {
	if !r.DrawTree && !r.DrawWire {
		return
	}
	idx := m.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := int(idx[i]), int(idx[i+1]), int(idx[i+2])
		pa, pb, pc := m.Position(a), m.Position(b), m.Position(c)
		va, vb, vc := vec3(pa), vec3(pb), vec3(pc)

		if r.DrawTree {
			n := normalAt(m, a)
			n = r3.Add(n, normalAt(m, b))
			n = r3.Add(n, normalAt(m, c))
			col := r.Light.Shade(r.Palette.Tree, unitOr(n, r3.Vec{Y: 1}))
			// Both windings, so the tube shows regardless of culling
			rl.DrawTriangle3D(va, vb, vc, col)
			rl.DrawTriangle3D(va, vc, vb, col)
		}
		if r.DrawWire {
			rl.DrawLine3D(va, vb, r.Palette.Wire)
			rl.DrawLine3D(vb, vc, r.Palette.Wire)
			rl.DrawLine3D(vc, va, r.Palette.Wire)
		}
	}
}

// DrawLeafQuads draws one two-sided quad per transform.
func (r *TreeRenderer) DrawLeafQuads(leaves []mgl64.Mat4) {
	if !r.DrawLeaves {
		return
	}
	base := rl.ColorAlpha(r.Palette.Leaf, r.Palette.LeafOpacity)
	for i := range leaves {
		t := leaves[i]
		var v [4]rl.Vector3
		for k, c := range leafCorners {
			v[k] = vec3(geometry.Apply(t, c))
		}
		n := unitOr(r3.Sub(geometry.Apply(t, r3.Vec{Z: 1}), geometry.Origin(t)), r3.Vec{Z: 1})
		col := r.LeafLight.Shade(base, n)

		rl.DrawTriangle3D(v[0], v[1], v[2], col)
		rl.DrawTriangle3D(v[0], v[2], v[3], col)
		rl.DrawTriangle3D(v[0], v[2], v[1], col)
		rl.DrawTriangle3D(v[0], v[3], v[2], col)
	}
}

func normalAt(m *geometry.Mesh, i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Normals[3*i]),
		Y: float64(m.Normals[3*i+1]),
		Z: float64(m.Normals[3*i+2]),
	}
}

func unitOr(v, fallback r3.Vec) r3.Vec {
	if r3.Norm(v) == 0 {
		return fallback
	}
	return r3.Unit(v)
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
