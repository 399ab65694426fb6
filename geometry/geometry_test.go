package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/tree"
)

func grownTree(t *testing.T, seed int64, ticks int) *tree.Branch {
	t.Helper()
	root := tree.NewRoot(tree.DefaultShape(), tree.DefaultInitialArea)
	g := tree.NewGrower(tree.DefaultParams(), rand.New(rand.NewSource(seed)))
	for i := 0; i < ticks; i++ {
		g.Grow(root, 1.0)
	}
	return root
}

func countLeaves(root *tree.Branch, minDepth int) (segments, qualifying int) {
	root.Walk(func(b *tree.Branch) bool {
		segments++
		if b.IsLeaf() && b.Depth >= minDepth {
			qualifying++
		}
		return true
	})
	return segments, qualifying
}

func TestMeshCounts(t *testing.T) {
	root := grownTree(t, 1, 250)
	segments, _ := countLeaves(root, 0)

	for _, ring := range []int{3, 5, 12} {
		opts := DefaultMeshOptions()
		opts.RingSize = ring

		var m Mesh
		BuildMesh(root, opts, &m)

		assert.Equal(t, segments*2*ring, m.VertexCount(), "ring %d", ring)
		assert.Equal(t, len(m.Positions), len(m.Normals))
		assert.Equal(t, segments*6*ring, len(m.Indices), "ring %d", ring)
		for _, idx := range m.Indices {
			require.Less(t, int(idx), m.VertexCount())
		}
	}
}

func TestMeshSingleSegment(t *testing.T) {
	root := tree.NewRoot(tree.DefaultShape(), math.Pi)
	root.Length = 2
	root.Radius = 1

	opts := MeshOptions{RingSize: 4, Taper: 0.5, LengthScale: 3, RadiusScale: 2}
	var m Mesh
	BuildMesh(root, opts, &m)

	require.Equal(t, 8, m.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		radial := math.Hypot(p.X, p.Z)
		if i%2 == 0 {
			assert.InDelta(t, 0.0, p.Y, 1e-5, "start ring vertex %d", i)
			assert.InDelta(t, 2.0, radial, 1e-5)
		} else {
			assert.InDelta(t, 6.0, p.Y, 1e-5, "end ring vertex %d", i)
			assert.InDelta(t, 1.0, radial, 1e-5)
		}
	}

	// The first quad joins start vertices 0,2 with end vertices 1,3; the
	// last one wraps back to 0,1.
	assert.Equal(t, []uint32{0, 2, 1, 2, 3, 1}, m.Indices[:6])
	assert.Equal(t, []uint32{6, 0, 7, 0, 1, 7}, m.Indices[18:24])
}

func TestMeshNormalsAreUnitAndPerpendicular(t *testing.T) {
	root := grownTree(t, 2, 150)
	var m Mesh
	BuildMesh(root, DefaultMeshOptions(), &m)

	i := 0
	ring := DefaultMeshOptions().RingSize
	root.Walk(func(b *tree.Branch) bool {
		for k := 0; k < 2*ring; k++ {
			n := r3.Vec{
				X: float64(m.Normals[3*i]),
				Y: float64(m.Normals[3*i+1]),
				Z: float64(m.Normals[3*i+2]),
			}
			assert.InDelta(t, 1.0, r3.Norm(n), 1e-5)
			assert.InDelta(t, 0.0, r3.Dot(n, b.Dir), 1e-5)
			i++
		}
		return true
	})
}

func TestMeshIsReadOnly(t *testing.T) {
	root := grownTree(t, 3, 200)
	before := tree.Measure(root)

	var first, second Mesh
	BuildMesh(root, DefaultMeshOptions(), &first)
	BuildMesh(root, DefaultMeshOptions(), &second)

	assert.Equal(t, before, tree.Measure(root))
	assert.Equal(t, first, second)

	first.Reset()
	assert.Zero(t, first.VertexCount())
	assert.Empty(t, first.Indices)
}

func TestLeafFilterAndCount(t *testing.T) {
	root := grownTree(t, 4, 400)

	for _, minDepth := range []int{0, 3, 6, 100} {
		opts := DefaultLeafOptions()
		opts.MinDepth = minDepth
		_, qualifying := countLeaves(root, minDepth)

		leaves := BuildLeaves(nil, root, opts, Facing{})
		assert.Len(t, leaves, qualifying*opts.Count, "min depth %d", minDepth)
	}
}

func TestLeavesClearDestination(t *testing.T) {
	root := grownTree(t, 5, 300)
	opts := DefaultLeafOptions()
	opts.MinDepth = 0

	dst := make([]mgl64.Mat4, 1000)
	out := BuildLeaves(dst, root, opts, Facing{})
	_, qualifying := countLeaves(root, 0)
	assert.Len(t, out, qualifying*opts.Count)

	opts.Count = 0
	assert.Empty(t, BuildLeaves(out, root, opts, Facing{}))
}

func TestLeavesDeterministic(t *testing.T) {
	root := grownTree(t, 6, 300)
	opts := DefaultLeafOptions()
	opts.MinDepth = 2
	facing := Facing{Billboard: true, Rotation: 30}

	a := BuildLeaves(nil, root, opts, facing)
	b := BuildLeaves(nil, root, opts, facing)
	assert.Equal(t, a, b)
}

func TestLeafPlacement(t *testing.T) {
	root := tree.NewRoot(tree.DefaultShape(), tree.DefaultInitialArea)
	root.Length = 2
	g := tree.NewGrower(tree.DefaultParams(), rand.New(rand.NewSource(1)))
	g.Grow(root, 1.0) // length 3 > 2.5: splits into two depth-1 leaves

	require.False(t, root.IsLeaf())
	opts := LeafOptions{MinDepth: 1, Count: 3, Spread: r3.Vec{X: 10, Y: 20, Z: 30}, Size: 2, LengthScale: 15}
	leaves := BuildLeaves(nil, root, opts, Facing{})
	require.Len(t, leaves, 6)

	anchor := r3.Vec{Y: root.Length * 15}
	a, _ := root.Children()
	for i := 0; i < 3; i++ {
		want := r3.Vec{
			X: anchor.X + (HashUnit(a.ID+i)-0.5)*10,
			Y: anchor.Y + (HashUnit(a.ID+i+3)-0.5)*20,
			Z: anchor.Z + (HashUnit(a.ID+i+6)-0.5)*30,
		}
		got := Origin(leaves[i])
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
		assert.InDelta(t, want.Z, got.Z, 1e-9)
	}

	// Uniform scale survives the fixed 45° rotation.
	x := r3.Sub(Apply(leaves[0], r3.Vec{X: 1}), Origin(leaves[0]))
	assert.InDelta(t, 2.0, r3.Norm(x), 1e-9)
	assert.InDelta(t, x.X, -x.Z, 1e-9)
}

func TestFacingAngle(t *testing.T) {
	assert.InDelta(t, math.Pi/4, Facing{}.angle(), 1e-12)
	assert.InDelta(t, math.Pi/4, Facing{Rotation: 90}.angle(), 1e-12)
	assert.InDelta(t, -math.Pi/4, Facing{Billboard: true, Rotation: 90}.angle(), 1e-12)
}

func TestHashUnit(t *testing.T) {
	seen := make(map[float64]bool)
	for key := -1000; key < 1000; key++ {
		v := HashUnit(key)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		assert.Equal(t, v, HashUnit(key))
		seen[v] = true
	}
	assert.Greater(t, len(seen), 1990)
}

func TestLeafTransform(t *testing.T) {
	m := LeafTransform(r3.Vec{X: 1, Y: 2, Z: 3}, math.Pi/2, 2)
	p := Apply(m, r3.Vec{X: 1})

	// Scale to (2,0,0), rotate +90° about Y to (0,0,-2), then translate.
	assert.InDelta(t, 1.0, p.X, 1e-12)
	assert.InDelta(t, 2.0, p.Y, 1e-12)
	assert.InDelta(t, 1.0, p.Z, 1e-12)
	assert.Equal(t, 1.0, m.At(3, 3))
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, Origin(m))

	id := LeafTransform(r3.Vec{}, 0, 1)
	assert.True(t, id.ApproxEqual(mgl64.Ident4()))
}
