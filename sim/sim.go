// Package sim drives a growing tree: it owns the root, applies one growth
// step per tick and rebuilds the mesh and leaf transforms on demand.
//
// A Simulation is not safe for concurrent use. All mutation, including
// parameter edits, must happen on the goroutine that calls Step.
package sim

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/arbor/geometry"
	"github.com/pthm-cable/arbor/tree"
)

// Simulation owns a single tree and its derived geometry buffers.
type Simulation struct {
	params Params
	grower *tree.Grower
	root   *tree.Branch
	tick   int32

	last   tree.Report
	mesh   geometry.Mesh
	leaves []mgl64.Mat4
}

// New creates a simulation with a fresh root. rng drives split noise and
// must be owned by the simulation.
func New(params Params, rng tree.Rand) *Simulation {
	params = params.Clamp()
	return &Simulation{
		params: params,
		grower: tree.NewGrower(params.Growth, rng),
		root:   tree.NewRoot(params.Shape, params.Growth.InitialArea),
	}
}

// Root returns the current root. It stays valid until the next Regrow.
func (s *Simulation) Root() *tree.Branch {
	return s.root
}

// Tick returns the number of growth steps since the last regrow.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// LastReport returns the feed accounting of the most recent growth step.
func (s *Simulation) LastReport() tree.Report {
	return s.last
}

// Step grows the tree by the configured rate.
func (s *Simulation) Step() tree.Report {
	return s.Grow(s.params.Rate)
}

// Grow supplies feed to the root once. Negative feed is treated as zero.
func (s *Simulation) Grow(feed float64) tree.Report {
	s.last = s.grower.Grow(s.root, feed)
	s.tick++
	return s.last
}

// Regrow discards the tree and starts over from a new root carrying the
// current root's shape.
func (s *Simulation) Regrow() {
	old := s.root
	s.root = old.Regrown(s.params.Growth.InitialArea)
	m := tree.Measure(old)
	old.Release()

	slog.Info("regrow", "tick", s.tick, "branches", m.Branches, "leaves", m.Leaves)
	s.tick = 0
	s.last = tree.Report{}
}

// Install replaces the tree with root, as restored from a snapshot, and sets
// the tick counter. The previous tree is released. The root's shape becomes
// the current shape.
func (s *Simulation) Install(root *tree.Branch, tick int32) {
	if root == nil {
		return
	}
	old := s.root
	s.root = root
	if old != root {
		old.Release()
	}
	s.params.Shape = clampShape(root.Shape)
	s.tick = tick
	s.last = tree.Report{}
}

// Params returns the current parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// SetParams replaces the parameters after clamping them. Growth settings take
// effect on the next step; a changed shape is applied as by SetShape.
func (s *Simulation) SetParams(p Params) {
	p = p.Clamp()
	shapeChanged := p.Shape != s.params.Shape
	s.params = p
	s.grower.Params = p.Growth
	if shapeChanged {
		s.applyShape(p.Shape)
	}
}

// SetShape changes the inherited shape of the root and of every current leaf,
// so future splits and future regrows use it. Branches that have already
// split keep the shape they split with.
func (s *Simulation) SetShape(shape tree.Shape) {
	s.params.Shape = clampShape(shape)
	s.applyShape(s.params.Shape)
}

func (s *Simulation) applyShape(shape tree.Shape) {
	s.root.Walk(func(b *tree.Branch) bool {
		if b.IsRoot() || b.IsLeaf() {
			b.Shape = shape
		}
		return true
	})
}

// Mesh clears and rebuilds the tube mesh. The returned buffer is reused by
// the next call.
func (s *Simulation) Mesh() *geometry.Mesh {
	s.mesh.Reset()
	geometry.BuildMesh(s.root, s.params.Mesh, &s.mesh)
	return &s.mesh
}

// Leaves clears and rebuilds the leaf transforms. rotation is the camera
// angle about +Y in degrees, used when billboarding. The returned slice is
// reused by the next call.
func (s *Simulation) Leaves(billboard bool, rotation float64) []mgl64.Mat4 {
	s.leaves = geometry.BuildLeaves(s.leaves, s.root, s.params.Leaves, geometry.Facing{
		Billboard: billboard,
		Rotation:  rotation,
	})
	return s.leaves
}
