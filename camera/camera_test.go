package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arbor/config"
)

func newCamera() *Camera {
	return New(1200, 800, config.Defaults().Camera)
}

func TestNew(t *testing.T) {
	cam := newCamera()

	if cam.Rotation != 0 {
		t.Errorf("expected rotation 0, got %f", cam.Rotation)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom 0.5, got %f", cam.Zoom)
	}
	if !cam.AutoRotate {
		t.Error("expected auto-rotate on by default")
	}
}

func TestRotateWraps(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		deg   float64
		want  float64
	}{
		{"forward", 10, 1.5, 11.5},
		{"past 360", 359, 1.5, 0.5},
		{"below zero", 0.5, -1.5, 359},
		{"full turn", 90, 360, 90},
		{"large negative", 0, -725, 355},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newCamera()
			cam.Rotation = tt.start
			cam.Rotate(tt.deg)
			if math.Abs(cam.Rotation-tt.want) > 1e-9 {
				t.Errorf("Rotate(%v) from %v = %v, want %v", tt.deg, tt.start, cam.Rotation, tt.want)
			}
			if cam.Rotation < 0 || cam.Rotation >= 360 {
				t.Errorf("rotation %v out of [0, 360)", cam.Rotation)
			}
		})
	}
}

func TestUpdateAutoRotate(t *testing.T) {
	cam := newCamera()
	cam.Update()
	if math.Abs(cam.Rotation-cam.RotateSpeed) > 1e-12 {
		t.Errorf("expected rotation %v after one update, got %v", cam.RotateSpeed, cam.Rotation)
	}

	cam.AutoRotate = false
	before := cam.Rotation
	cam.Update()
	if cam.Rotation != before {
		t.Error("rotation changed with auto-rotate off")
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newCamera()

	cam.SetZoom(0.001) // Below min
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestScroll(t *testing.T) {
	cam := newCamera()
	cam.Scroll(1)
	if math.Abs(cam.Zoom-0.5/ZoomStep) > 1e-12 {
		t.Errorf("expected zoom %v after one notch, got %v", 0.5/ZoomStep, cam.Zoom)
	}
	cam.Scroll(-1)
	if math.Abs(cam.Zoom-0.5) > 1e-12 {
		t.Errorf("expected zoom back at 0.5, got %v", cam.Zoom)
	}
}

func TestPositionOrbit(t *testing.T) {
	cam := newCamera()

	p := cam.Position()
	if math.Abs(p.X-p.Z) > 1e-9 || p.X <= 0 {
		t.Errorf("expected camera on the +X/+Z diagonal, got %v", p)
	}
	if math.Hypot(p.X, p.Z)-cam.Distance > 1e-9 {
		t.Errorf("expected horizontal distance %v, got %v", cam.Distance, math.Hypot(p.X, p.Z))
	}

	// A billboard facing (45 - rotation) about +Y points at the camera
	for _, rot := range []float64{0, 30, 200} {
		cam.Rotation = rot
		a := (45 - rot) * math.Pi / 180
		facing := r3.Vec{X: math.Sin(a), Z: math.Cos(a)}
		eye := cam.Position()
		horiz := r3.Unit(r3.Vec{X: eye.X, Z: eye.Z})
		if r3.Dot(facing, horiz) < 1-1e-9 {
			t.Errorf("rotation %v: billboard %v does not face camera %v", rot, facing, horiz)
		}
	}
}

func TestForwardIsUnit(t *testing.T) {
	cam := newCamera()
	if math.Abs(r3.Norm(cam.Forward())-1) > 1e-12 {
		t.Error("forward should be a unit vector")
	}
}

func TestReset(t *testing.T) {
	cam := newCamera()
	cam.Rotation = 123
	cam.Zoom = 2.5
	cam.AutoRotate = false

	cam.Reset()

	if cam.Rotation != 0 {
		t.Errorf("expected rotation 0, got %f", cam.Rotation)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom 0.5, got %f", cam.Zoom)
	}
	if !cam.AutoRotate {
		t.Error("expected auto-rotate restored")
	}
}
