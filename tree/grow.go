package tree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MinFeed is the feed below which an internal branch stops passing feed on
// to its children.
const MinFeed = 1e-5

// Params holds the process-wide growth configuration. Unlike Shape, these are
// not stored per branch.
type Params struct {
	SplitDecay   float64 // Exponential decay of the split threshold with depth
	PassRatio    float64 // Fraction kept by internal branches when ConserveArea is off
	ConserveArea bool    // Keep parent area proportional to the children's combined area
	Directedness float64 // Blend between density avoidance (1) and noise (0)
	LocalDepth   int     // Ancestor steps used for the leaf density estimate
	InitialArea  float64 // Area of newly created branches
}

// DefaultParams returns the growth configuration of the original tree.
func DefaultParams() Params {
	return Params{
		SplitDecay:   1e-2,
		PassRatio:    0.3,
		ConserveArea: true,
		Directedness: 0.5,
		LocalDepth:   2,
		InitialArea:  DefaultInitialArea,
	}
}

// Rand is the random source used for split symmetry breaking and direction
// noise. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Report accounts for the feed handled by one Grow call.
type Report struct {
	Consumed  float64 // Feed turned into length or girth
	Discarded float64 // Feed dropped below MinFeed
	Splits    int
}

// Grower runs the growth step over a tree.
type Grower struct {
	Params Params
	rng    Rand
}

// NewGrower creates a grower. The random source is owned by the caller and
// must not be shared across goroutines.
func NewGrower(p Params, rng Rand) *Grower {
	return &Grower{Params: p, rng: rng}
}

// Grow distributes feed through the tree rooted at root, growing leaves,
// thickening internal branches and splitting leaves that outgrow their
// threshold. Negative feed is treated as zero.
func (g *Grower) Grow(root *Branch, feed float64) Report {
	var r Report
	if feed < 0 {
		feed = 0
	}
	g.grow(root, feed, &r)
	return r
}

func (g *Grower) grow(b *Branch, feed float64, r *Report) {
	b.updateRadius()

	if b.IsLeaf() {
		b.Length += math.Cbrt(feed)
		r.Consumed += feed

		// Metabolic cost; what is left goes into girth. A deficit never shrinks the branch.
		feed -= b.Length * b.Area
		if feed > 0 && b.Length > 0 {
			b.Area += feed / b.Length
		}

		if b.Length > b.Shape.SplitSize*math.Exp(-g.Params.SplitDecay*float64(b.Depth)) {
			g.split(b)
			r.Splits++
		}
		return
	}

	pass := g.Params.PassRatio
	if g.Params.ConserveArea {
		children := b.a.Area + b.b.Area
		pass = children / (children + b.Area)
	}

	if b.Length > 0 {
		b.Area += pass * feed / b.Length
		r.Consumed += pass * feed
		feed *= 1 - pass
	}

	if feed < MinFeed {
		r.Discarded += feed
		return
	}

	g.grow(b.a, feed*b.Shape.Ratio, r)
	g.grow(b.b, feed*(1-b.Shape.Ratio), r)
}

// split turns the leaf b into an internal branch with two diverging children.
func (g *Grower) split(b *Branch) {
	b.a = b.newChild(0, g.Params.InitialArea)
	b.b = b.newChild(1, g.Params.InitialArea)

	// Children diverge perpendicular to the direction of highest leaf density.
	d := g.LeafDensity(b, g.Params.LocalDepth)
	n := r3.Cross(b.Dir, d)
	if r3.Norm(n) == 0 {
		n = perpendicular(b.Dir)
	}
	n = r3.Unit(n)
	m := r3.Scale(-1, n)

	flip := 1.0
	if g.rng.Float64() < 0.5 {
		flip = -1.0
	}

	ratio, spread := b.Shape.Ratio, b.Shape.Spread
	b.a.Dir = normalize(mix(r3.Scale(flip*spread, n), b.Dir, ratio), b.Dir)
	b.b.Dir = normalize(mix(r3.Scale(flip*spread, m), b.Dir, 1-ratio), b.Dir)
}

// LeafDensity estimates the direction of highest local leaf density around
// b, blended with noise by Directedness. The estimate ascends at most
// searchDepth ancestors and stops at the root. The original viewer's loop
// climbed searchDepth+1 levels; this one climbs exactly searchDepth.
func (g *Grower) LeafDensity(b *Branch, searchDepth int) r3.Vec {
	r := r3.Vec{
		X: g.rng.Float64() - 0.5,
		Y: g.rng.Float64() - 0.5,
		Z: g.rng.Float64() - 0.5,
	}
	if b.Depth == 0 {
		return r
	}

	c := b
	var rel r3.Vec
	for steps := 0; c.parent != nil && steps < searchDepth; steps++ {
		rel = r3.Add(rel, r3.Scale(c.Length, c.Dir))
		c = c.parent
	}

	avg := r3.Sub(leafAverage(c, b.Shape.Ratio), rel)
	if r3.Norm(avg) == 0 {
		return r
	}
	k := g.Params.Directedness
	return r3.Add(r3.Scale(k, r3.Unit(avg)), r3.Scale(1-k, r))
}

// leafAverage is the ratio-weighted, descent-accumulated leaf position of the
// subtree at b. The weighting uses the ratio of the branch being split.
func leafAverage(b *Branch, ratio float64) r3.Vec {
	p := r3.Scale(b.Length, b.Dir)
	if b.IsLeaf() {
		return p
	}
	p = r3.Add(p, r3.Scale(ratio, leafAverage(b.a, ratio)))
	return r3.Add(p, r3.Scale(1-ratio, leafAverage(b.b, ratio)))
}

// mix linearly interpolates from x to y by t.
func mix(x, y r3.Vec, t float64) r3.Vec {
	return r3.Add(r3.Scale(1-t, x), r3.Scale(t, y))
}

// normalize returns the unit vector of v, or fallback if v has no length.
func normalize(v, fallback r3.Vec) r3.Vec {
	if r3.Norm(v) == 0 {
		return fallback
	}
	return r3.Unit(v)
}

// perpendicular returns some unit vector orthogonal to v.
func perpendicular(v r3.Vec) r3.Vec {
	axis := r3.Vec{X: 1}
	if math.Abs(v.X) > 0.9 {
		axis = r3.Vec{Z: 1}
	}
	return r3.Unit(r3.Cross(v, axis))
}
