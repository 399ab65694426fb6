package tree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// grownTree returns a tree after n ticks of growth with the default setup.
func grownTree(t *testing.T, seed int64, ticks int) *Branch {
	t.Helper()
	root := NewRoot(DefaultShape(), DefaultInitialArea)
	g := NewGrower(DefaultParams(), rand.New(rand.NewSource(seed)))
	for i := 0; i < ticks; i++ {
		g.Grow(root, 1.0)
	}
	return root
}

func TestNewRoot(t *testing.T) {
	root := NewRoot(DefaultShape(), DefaultInitialArea)

	assert.True(t, root.IsLeaf())
	assert.True(t, root.IsRoot())
	assert.Equal(t, 0, root.ID)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, Up, root.Dir)
	assert.Zero(t, root.Length)
	assert.Equal(t, DefaultInitialArea, root.Area)
	assert.Equal(t, DefaultShape(), root.Shape)
}

func TestIDAndDepthEncoding(t *testing.T) {
	root := grownTree(t, 1, 200)

	checked := 0
	root.Walk(func(b *Branch) bool {
		if b.IsLeaf() {
			a, c := b.Children()
			assert.Nil(t, a)
			assert.Nil(t, c)
			return true
		}
		a, c := b.Children()
		require.NotNil(t, a)
		require.NotNil(t, c)
		assert.Equal(t, 2*b.ID, a.ID)
		assert.Equal(t, 2*b.ID+1, c.ID)
		assert.Equal(t, b.Depth+1, a.Depth)
		assert.Equal(t, b.Depth+1, c.Depth)
		assert.Same(t, b, a.Parent())
		assert.Same(t, b, c.Parent())
		checked++
		return true
	})
	require.Greater(t, checked, 0, "tree never split")
}

func TestChildrenInheritShape(t *testing.T) {
	shape := Shape{Ratio: 0.3, Spread: 1.2, SplitSize: 1.0}
	root := NewRoot(shape, DefaultInitialArea)
	g := NewGrower(DefaultParams(), rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		g.Grow(root, 1.0)
	}

	root.Walk(func(b *Branch) bool {
		assert.Equal(t, shape, b.Shape)
		return true
	})
}

func TestRegrownInheritsShapeOnly(t *testing.T) {
	old := grownTree(t, 3, 100)
	require.False(t, old.IsLeaf())

	root := old.Regrown(DefaultInitialArea)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.IsLeaf())
	assert.Zero(t, root.Length)
	assert.Equal(t, old.Shape, root.Shape)
	assert.Equal(t, DefaultInitialArea, root.Area)
	assert.NotEqual(t, old.Area, root.Area)
}

func TestRelease(t *testing.T) {
	root := grownTree(t, 5, 100)
	a, _ := root.Children()
	require.NotNil(t, a)

	root.Release()

	assert.True(t, root.IsLeaf())
	assert.Nil(t, a.Parent())
}

func TestWalkSkipsChildren(t *testing.T) {
	root := grownTree(t, 9, 100)
	require.False(t, root.IsLeaf())

	visited := 0
	root.Walk(func(b *Branch) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestMeasure(t *testing.T) {
	root := grownTree(t, 11, 300)
	m := Measure(root)

	var branches, leaves, maxDepth int
	var total float64
	root.Walk(func(b *Branch) bool {
		branches++
		total += b.Length
		if b.IsLeaf() {
			leaves++
		}
		if b.Depth > maxDepth {
			maxDepth = b.Depth
		}
		return true
	})

	assert.Equal(t, branches, m.Branches)
	assert.Equal(t, leaves, m.Leaves)
	assert.Equal(t, maxDepth, m.MaxDepth)
	assert.InDelta(t, total, m.TotalLength, 1e-9)
	assert.Equal(t, branches, 2*leaves-1, "binary tree has 2L-1 nodes")
	assert.Greater(t, m.Height, 0.0)
	assert.Equal(t, root.Radius, m.TrunkRadius)
}

func TestEnd(t *testing.T) {
	b := &Branch{Dir: Up, Length: 2}
	end := b.End(r3.Vec{X: 1}, 3)
	assert.InDelta(t, 1.0, end.X, 1e-12)
	assert.InDelta(t, 6.0, end.Y, 1e-12)
	assert.InDelta(t, 0.0, end.Z, 1e-12)
}

func TestRadiusFromArea(t *testing.T) {
	b := &Branch{Area: math.Pi * 4}
	b.updateRadius()
	assert.InDelta(t, 2.0, b.Radius, 1e-12)
}

func TestGraft(t *testing.T) {
	root := NewRoot(DefaultShape(), DefaultInitialArea)
	root.ID = 3
	root.Depth = 1
	a := &Branch{ID: 99, Depth: 7, Length: 1}
	b := &Branch{ID: 98, Depth: 7, Length: 2}

	root.Graft(a, b)
	require.False(t, root.IsLeaf())
	gotA, gotB := root.Children()
	assert.Same(t, a, gotA)
	assert.Same(t, b, gotB)
	assert.Equal(t, 6, a.ID)
	assert.Equal(t, 7, b.ID)
	assert.Equal(t, 2, a.Depth)
	assert.Same(t, root, b.Parent())

	assert.Panics(t, func() { root.Graft(&Branch{}, &Branch{}) })
}

func TestGraftRenumbersSubtrees(t *testing.T) {
	// Build a two-level subtree under a stray root, then move it
	sub := NewRoot(DefaultShape(), DefaultInitialArea)
	sub.Graft(&Branch{}, &Branch{})
	left, _ := sub.Children()
	left.Graft(&Branch{}, &Branch{})

	root := NewRoot(DefaultShape(), DefaultInitialArea)
	root.ID = 1 // Nonzero so A-children get distinct IDs
	root.Graft(sub, &Branch{})

	root.Walk(func(b *Branch) bool {
		if b.IsRoot() {
			assert.Equal(t, 1, b.ID)
			assert.Equal(t, 0, b.Depth)
			return true
		}
		p := b.Parent()
		assert.Equal(t, p.Depth+1, b.Depth, "branch %d", b.ID)
		a, _ := p.Children()
		if a == b {
			assert.Equal(t, 2*p.ID, b.ID)
		} else {
			assert.Equal(t, 2*p.ID+1, b.ID)
		}
		return true
	})

	a, _ := root.Children()
	grandchild, _ := a.Children()
	great, _ := grandchild.Children()
	assert.Equal(t, 8, great.ID)
	assert.Equal(t, 3, great.Depth)
}
