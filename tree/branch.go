// Package tree implements the branching model: a binary tree of branches that
// grows in length and girth from a per-tick feed and splits into two children
// once a branch outgrows its depth-dependent threshold.
package tree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultInitialArea is the cross-sectional area a fresh branch starts with.
const DefaultInitialArea = 0.1

// Up is the growth direction of a new root.
var Up = r3.Vec{X: 0, Y: 1, Z: 0}

// Shape holds the per-branch growth parameters that children copy from their
// parent at split time.
type Shape struct {
	Ratio     float64 `yaml:"ratio"`      // Feed/direction split fraction in [0,1]
	Spread    float64 `yaml:"spread"`     // Directional divergence magnitude
	SplitSize float64 `yaml:"split_size"` // Length threshold before depth decay
}

// DefaultShape returns the shape the original tree is grown with.
func DefaultShape() Shape {
	return Shape{Ratio: 0.6, Spread: 0.45, SplitSize: 2.5}
}

// Branch is a node of the tree. A branch is a leaf until it splits; after
// that it owns exactly two children and only grows in girth.
type Branch struct {
	// ID encodes the path from the root: children get 2*ID and 2*ID+1.
	// Wraps for very deep trees, which only affects leaf hashing.
	ID    int
	Depth int
	Shape Shape

	Dir    r3.Vec  // Unit growth direction
	Length float64 // Monotonically non-decreasing
	Radius float64 // sqrt(Area/π), refreshed on each grow call
	Area   float64 // Cross-sectional area, monotonically non-decreasing

	a, b   *Branch
	parent *Branch // non-owning back reference, nil for the root
}

// NewRoot creates a root branch pointing up with the given shape.
func NewRoot(shape Shape, initialArea float64) *Branch {
	return &Branch{
		Shape: shape,
		Dir:   Up,
		Area:  initialArea,
	}
}

// Regrown returns a fresh root that inherits only the shape of b.
func (b *Branch) Regrown(initialArea float64) *Branch {
	return NewRoot(b.Shape, initialArea)
}

// newChild creates a leaf under b. The A child is index 0, B is index 1.
func (b *Branch) newChild(index int, initialArea float64) *Branch {
	return &Branch{
		ID:     2*b.ID + index,
		Depth:  b.Depth + 1,
		Shape:  b.Shape,
		Dir:    b.Dir,
		Area:   initialArea,
		parent: b,
	}
}

// Graft attaches a and c as the A and B children of the leaf b and
// renumbers both subtrees so every ID and depth matches its new position.
// It rebuilds saved trees; growth splits leaves on its own. Panics if b
// already has children.
func (b *Branch) Graft(a, c *Branch) {
	if !b.IsLeaf() {
		panic("tree: Graft on internal branch")
	}
	a.parent, c.parent = b, b
	b.a, b.b = a, c
	a.renumber(2*b.ID, b.Depth+1)
	c.renumber(2*b.ID+1, b.Depth+1)
}

func (b *Branch) renumber(id, depth int) {
	b.ID, b.Depth = id, depth
	if b.IsLeaf() {
		return
	}
	b.a.renumber(2*id, depth+1)
	b.b.renumber(2*id+1, depth+1)
}

// IsLeaf reports whether b is still growing in length.
func (b *Branch) IsLeaf() bool {
	return b.a == nil && b.b == nil
}

// IsRoot reports whether b has no parent.
func (b *Branch) IsRoot() bool {
	return b.parent == nil
}

// Children returns the A and B children, both nil for a leaf.
func (b *Branch) Children() (*Branch, *Branch) {
	return b.a, b.b
}

// Parent returns the parent branch, nil for the root.
func (b *Branch) Parent() *Branch {
	return b.parent
}

// End returns the end point of the segment given its start point and a
// length scale.
func (b *Branch) End(start r3.Vec, lengthScale float64) r3.Vec {
	return r3.Add(start, r3.Scale(b.Length*lengthScale, b.Dir))
}

// updateRadius refreshes Radius from Area.
func (b *Branch) updateRadius() {
	b.Radius = math.Sqrt(b.Area / math.Pi)
}

// Release tears down the subtree under b, dropping child and parent links so
// nothing keeps the old nodes reachable. Leaves have nothing to release.
func (b *Branch) Release() {
	if b.IsLeaf() {
		b.parent = nil
		return
	}
	b.a.Release()
	b.b.Release()
	b.a, b.b, b.parent = nil, nil, nil
}

// Walk visits b and its descendants depth first, A before B. Returning false
// from fn skips the children of the visited branch.
func (b *Branch) Walk(fn func(*Branch) bool) {
	if !fn(b) || b.IsLeaf() {
		return
	}
	b.a.Walk(fn)
	b.b.Walk(fn)
}

// Metrics summarizes the structure of a tree.
type Metrics struct {
	Branches    int
	Leaves      int
	MaxDepth    int
	TotalLength float64
	Height      float64 // Highest segment end point along +Y, unscaled
	TrunkRadius float64
}

// Measure computes structural metrics for the tree rooted at root.
func Measure(root *Branch) Metrics {
	m := Metrics{TrunkRadius: root.Radius}
	measure(root, r3.Vec{}, &m)
	return m
}

func measure(b *Branch, start r3.Vec, m *Metrics) {
	m.Branches++
	m.TotalLength += b.Length
	if b.Depth > m.MaxDepth {
		m.MaxDepth = b.Depth
	}
	end := b.End(start, 1)
	if end.Y > m.Height {
		m.Height = end.Y
	}
	if b.IsLeaf() {
		m.Leaves++
		return
	}
	measure(b.a, end, m)
	measure(b.b, end, m)
}
