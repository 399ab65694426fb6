package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/tree"
)

// LeafOptions controls leaf placement.
type LeafOptions struct {
	MinDepth    int     // Leaves shallower than this get no foliage
	Count       int     // Transforms emitted per qualifying leaf
	Spread      r3.Vec  // Per-axis size of the random offset box
	Size        float64 // Uniform scale
	LengthScale float64 // Must match MeshOptions.LengthScale to sit on the mesh
}

// DefaultLeafOptions returns the leaf settings of the original viewer.
func DefaultLeafOptions() LeafOptions {
	return LeafOptions{
		MinDepth:    8,
		Count:       10,
		Spread:      r3.Vec{X: 50, Y: 50, Z: 50},
		Size:        5,
		LengthScale: 15,
	}
}

// Facing selects how leaf quads are oriented.
type Facing struct {
	Billboard bool    // Rotate toward the camera
	Rotation  float64 // Camera rotation about +Y in degrees, used when billboarding
}

// angle returns the rotation about +Y applied to every leaf, in radians.
func (f Facing) angle() float64 {
	if f.Billboard {
		return (45 - f.Rotation) * math.Pi / 180
	}
	return 45 * math.Pi / 180
}

// BuildLeaves clears dst and fills it with one transform per foliage quad.
// Offsets are a pure function of branch ID and quad index, so repeated calls
// on an unchanged tree yield identical transforms.
func BuildLeaves(dst []mgl64.Mat4, root *tree.Branch, opts LeafOptions, facing Facing) []mgl64.Mat4 {
	dst = dst[:0]
	if opts.Count <= 0 {
		return dst
	}
	lb := leafBuilder{
		opts:  opts,
		angle: facing.angle(),
		out:   dst,
	}
	lb.addLeaf(root, r3.Vec{})
	return lb.out
}

type leafBuilder struct {
	opts  LeafOptions
	angle float64
	out   []mgl64.Mat4
}

func (lb *leafBuilder) addLeaf(b *tree.Branch, pos r3.Vec) {
	if !b.IsLeaf() {
		end := b.End(pos, lb.opts.LengthScale)
		a, c := b.Children()
		lb.addLeaf(a, end)
		lb.addLeaf(c, end)
		return
	}
	if b.Depth < lb.opts.MinDepth {
		return
	}

	count := lb.opts.Count
	for i := 0; i < count; i++ {
		d := r3.Vec{
			X: (HashUnit(b.ID+i) - 0.5) * lb.opts.Spread.X,
			Y: (HashUnit(b.ID+i+count) - 0.5) * lb.opts.Spread.Y,
			Z: (HashUnit(b.ID+i+2*count) - 0.5) * lb.opts.Spread.Z,
		}
		lb.out = append(lb.out, LeafTransform(r3.Add(pos, d), lb.angle, lb.opts.Size))
	}
}

// HashUnit maps an integer key to [0,1) deterministically.
func HashUnit(key int) float64 {
	// splitmix64 finalizer
	z := uint64(key) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}
