package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// LeafTransform places one foliage quad: translate to pos, turn angle radians
// about +Y, then scale uniformly by size.
func LeafTransform(pos r3.Vec, angle, size float64) mgl64.Mat4 {
	return mgl64.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(mgl64.HomogRotate3DY(angle)).
		Mul4(mgl64.Scale3D(size, size, size))
}

// Apply transforms the point p by m.
func Apply(m mgl64.Mat4, p r3.Vec) r3.Vec {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Origin returns the translation part of m.
func Origin(m mgl64.Mat4) r3.Vec {
	c := m.Col(3)
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}
