// Package geometry turns tree state into renderable data: a tube mesh with
// one ring pair per branch segment, and per-leaf instance transforms.
// Both traversals only read the tree.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/tree"
)

// MeshBuilder receives tube mesh data. Indices refer to vertices in the order
// positions were appended, starting from zero.
type MeshBuilder interface {
	AddPosition(x, y, z float32)
	AddNormal(x, y, z float32)
	AddTriangle(a, b, c uint32)
}

// MeshOptions controls tube mesh construction.
type MeshOptions struct {
	RingSize    int     // Vertices per ring, at least 3
	Taper       float64 // End ring radius relative to the start ring
	LengthScale float64 // World units per unit of branch length
	RadiusScale float64 // World units per unit of branch radius
}

// DefaultMeshOptions returns the mesh settings of the original viewer.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{RingSize: 12, Taper: 0.6, LengthScale: 15, RadiusScale: 5}
}

// Mesh is a flat vertex/index buffer implementing MeshBuilder.
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// AddPosition appends a vertex position.
func (m *Mesh) AddPosition(x, y, z float32) {
	m.Positions = append(m.Positions, x, y, z)
}

// AddNormal appends a vertex normal.
func (m *Mesh) AddNormal(x, y, z float32) {
	m.Normals = append(m.Normals, x, y, z)
}

// AddTriangle appends one triangle.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Reset empties the buffers, keeping their capacity.
func (m *Mesh) Reset() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Position returns vertex i.
func (m *Mesh) Position(i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Positions[3*i]),
		Y: float64(m.Positions[3*i+1]),
		Z: float64(m.Positions[3*i+2]),
	}
}

// BuildMesh emits the tube mesh for the tree rooted at root into mb. Every
// branch, leaf or not, contributes 2*RingSize vertices and 6*RingSize indices.
func BuildMesh(root *tree.Branch, opts MeshOptions, mb MeshBuilder) {
	if opts.RingSize < 3 {
		opts.RingSize = 3
	}
	tb := tubeBuilder{opts: opts, mb: mb}
	tb.addBranch(root, r3.Vec{})
}

type tubeBuilder struct {
	opts MeshOptions
	mb   MeshBuilder
	base uint32
}

func (tb *tubeBuilder) addBranch(b *tree.Branch, start r3.Vec) {
	ring := tb.opts.RingSize
	end := b.End(start, tb.opts.LengthScale)

	n := ringNormal(b.Dir)
	step := r3.NewRotation(math.Pi/float64(ring), b.Dir)

	// Vertices alternate start ring (even) and end ring (odd).
	span := uint32(2 * ring)
	for i := uint32(0); i < uint32(ring); i++ {
		tb.mb.AddTriangle(tb.base+2*i, tb.base+(2*i+2)%span, tb.base+2*i+1)
		tb.mb.AddTriangle(tb.base+(2*i+2)%span, tb.base+(2*i+3)%span, tb.base+2*i+1)
	}

	radius := b.Radius * tb.opts.RadiusScale
	for i := 0; i < ring; i++ {
		tb.vertex(r3.Add(start, r3.Scale(radius, n)), n)
		n = step.Rotate(n)
		tb.vertex(r3.Add(end, r3.Scale(tb.opts.Taper*radius, n)), n)
		n = step.Rotate(n)
	}
	tb.base += span

	if b.IsLeaf() {
		return
	}
	a, c := b.Children()
	tb.addBranch(a, end)
	tb.addBranch(c, end)
}

func (tb *tubeBuilder) vertex(p, n r3.Vec) {
	tb.mb.AddPosition(float32(p.X), float32(p.Y), float32(p.Z))
	tb.mb.AddNormal(float32(n.X), float32(n.Y), float32(n.Z))
}

// ringNormal returns the first ring normal for a segment pointing along dir.
func ringNormal(dir r3.Vec) r3.Vec {
	x := r3.Add(dir, r3.Vec{X: 1, Y: 1, Z: 1})
	n := r3.Cross(dir, x)
	if r3.Norm(n) < 1e-12 {
		n = r3.Cross(dir, r3.Vec{X: 1})
		if r3.Norm(n) < 1e-12 {
			n = r3.Cross(dir, r3.Vec{Z: 1})
		}
	}
	return r3.Unit(n)
}
