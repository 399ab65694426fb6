package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/config"
	"github.com/pthm-cable/arbor/tree"
)

func newSim(seed int64) *Simulation {
	return New(DefaultParams(), rand.New(rand.NewSource(seed)))
}

func TestParamsFromConfigMatchesDefaults(t *testing.T) {
	p := ParamsFromConfig(config.Defaults())
	assert.Equal(t, DefaultParams().Clamp(), p)
}

func TestParamsClamp(t *testing.T) {
	p := DefaultParams()
	p.Rate = 10
	p.Growth.PassRatio = -1
	p.Growth.Directedness = math.NaN()
	p.Growth.LocalDepth = 40
	p.Growth.InitialArea = 0
	p.Shape = tree.Shape{Ratio: 2, Spread: -1, SplitSize: 0}
	p.Mesh.RingSize = 1
	p.Mesh.Taper = 3
	p.Leaves.Count = 100
	p.Leaves.Spread = r3.Vec{X: -5, Y: 500, Z: 20}
	p.Leaves.Size = 30

	c := p.Clamp()
	assert.Equal(t, 5.0, c.Rate)
	assert.Equal(t, 0.0, c.Growth.PassRatio)
	assert.Equal(t, 0.0, c.Growth.Directedness)
	assert.Equal(t, 15, c.Growth.LocalDepth)
	assert.Equal(t, tree.DefaultInitialArea, c.Growth.InitialArea)
	assert.Equal(t, tree.Shape{Ratio: 1, Spread: 0, SplitSize: 0.1}, c.Shape)
	assert.Equal(t, 3, c.Mesh.RingSize)
	assert.Equal(t, 1.0, c.Mesh.Taper)
	assert.Equal(t, 30, c.Leaves.Count)
	assert.Equal(t, r3.Vec{X: 0, Y: 250, Z: 20}, c.Leaves.Spread)
	assert.Equal(t, 25.0, c.Leaves.Size)
	assert.Equal(t, c.Mesh.LengthScale, c.Leaves.LengthScale)

	// Clamping is idempotent
	assert.Equal(t, c, c.Clamp())
}

func TestStepAdvancesTick(t *testing.T) {
	s := newSim(1)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	assert.Equal(t, int32(10), s.Tick())
	assert.Greater(t, s.Root().Length, 0.0)
}

func TestFirstSplitAtThirdTick(t *testing.T) {
	s := newSim(1)
	s.Step()
	s.Step()
	require.True(t, s.Root().IsLeaf())
	r := s.Step()
	assert.False(t, s.Root().IsLeaf())
	assert.Equal(t, 1, r.Splits)
	assert.Equal(t, r, s.LastReport())
}

func TestGrowNegativeFeed(t *testing.T) {
	s := newSim(1)
	r := s.Grow(-3)
	assert.Zero(t, r.Consumed)
	assert.Zero(t, s.Root().Length)
	assert.Equal(t, int32(1), s.Tick())
}

func TestRegrow(t *testing.T) {
	s := newSim(2)
	for i := 0; i < 100; i++ {
		s.Step()
	}
	old := s.Root()
	require.False(t, old.IsLeaf())

	shape := tree.Shape{Ratio: 0.4, Spread: 1.0, SplitSize: 3}
	s.SetShape(shape)
	s.Regrow()

	root := s.Root()
	assert.NotSame(t, old, root)
	assert.True(t, root.IsLeaf())
	assert.Zero(t, root.Length)
	assert.Equal(t, shape, root.Shape)
	assert.Equal(t, int32(0), s.Tick())
	assert.Equal(t, tree.Report{}, s.LastReport())

	// The old tree was torn down
	assert.True(t, old.IsLeaf())
}

func TestSetShapeAppliesToRootAndLeaves(t *testing.T) {
	s := newSim(3)
	for i := 0; i < 60; i++ {
		s.Step()
	}
	before := DefaultParams().Shape
	shape := tree.Shape{Ratio: 0.5, Spread: 0.2, SplitSize: 4}
	s.SetShape(shape)

	s.Root().Walk(func(b *tree.Branch) bool {
		switch {
		case b.IsRoot(), b.IsLeaf():
			assert.Equal(t, shape, b.Shape, "branch %d", b.ID)
		default:
			assert.Equal(t, before, b.Shape, "branch %d", b.ID)
		}
		return true
	})
	assert.Equal(t, shape, s.Params().Shape)
}

func TestSetShapeClamps(t *testing.T) {
	s := newSim(3)
	s.SetShape(tree.Shape{Ratio: -1, Spread: 9, SplitSize: 9})
	assert.Equal(t, tree.Shape{Ratio: 0, Spread: 5, SplitSize: 5}, s.Root().Shape)
}

func TestSetParams(t *testing.T) {
	s := newSim(4)
	p := s.Params()
	p.Rate = 2
	p.Growth.ConserveArea = false
	p.Growth.PassRatio = 0.5
	p.Shape.Ratio = 0.7
	s.SetParams(p)

	got := s.Params()
	assert.Equal(t, 2.0, got.Rate)
	assert.False(t, got.Growth.ConserveArea)
	assert.Equal(t, 0.7, s.Root().Shape.Ratio)

	s.Step()
	assert.InDelta(t, math.Cbrt(2), s.Root().Length, 1e-12)
}

func TestMeshAndLeavesRebuild(t *testing.T) {
	s := newSim(5)
	for i := 0; i < 200; i++ {
		s.Step()
	}
	p := s.Params()
	p.Leaves.MinDepth = 0
	s.SetParams(p)

	m := tree.Measure(s.Root())
	mesh := s.Mesh()
	ring := p.Mesh.RingSize
	assert.Equal(t, m.Branches*2*ring, mesh.VertexCount())

	// A second call rebuilds rather than appends
	assert.Equal(t, m.Branches*2*ring, s.Mesh().VertexCount())

	leaves := s.Leaves(true, 30)
	assert.Len(t, leaves, m.Leaves*p.Leaves.Count)
	assert.Len(t, s.Leaves(false, 0), m.Leaves*p.Leaves.Count)
}

func TestDeterministic(t *testing.T) {
	a, b := newSim(9), newSim(9)
	for i := 0; i < 150; i++ {
		a.Step()
		b.Step()
	}
	assert.Equal(t, tree.Measure(a.Root()), tree.Measure(b.Root()))
	assert.Equal(t, a.Mesh().Positions, b.Mesh().Positions)
}

func TestInstall(t *testing.T) {
	donor := newSim(4)
	for i := 0; i < 60; i++ {
		donor.Step()
	}
	grown := donor.Root()
	want := tree.Measure(grown)

	s := newSim(5)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	old := s.Root()
	require.False(t, old.IsLeaf())
	s.Install(grown, 60)

	assert.Same(t, grown, s.Root())
	assert.Equal(t, int32(60), s.Tick())
	assert.Equal(t, grown.Shape, s.Params().Shape)
	assert.Equal(t, want, tree.Measure(s.Root()))
	assert.True(t, old.IsLeaf(), "old tree was released")

	s.Install(nil, 3)
	assert.Same(t, grown, s.Root(), "nil root is ignored")

	s.Step()
	assert.Equal(t, int32(61), s.Tick())
}
