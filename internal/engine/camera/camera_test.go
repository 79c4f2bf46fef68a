package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPositionFront(t *testing.T) {
	c := NewOrbitCamera()
	c.Pitch = 0
	c.Yaw = 0
	c.Distance = 3

	p := c.Position()
	if !near(p.X(), 0) || !near(p.Y(), 0) || !near(p.Z(), 3) {
		t.Errorf("Position() = %v, want (0, 0, 3)", p)
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Target = mgl32.Vec3{1, 2, 3}

	// The target lands on the view axis.
	v := c.ViewMatrix().Mul4x1(c.Target.Vec4(1))
	if !near(v.X(), 0) || !near(v.Y(), 0) {
		t.Errorf("target in view space = %v, want on -Z axis", v)
	}
	if !near(v.Z(), -c.Distance) {
		t.Errorf("target depth = %v, want %v", v.Z(), -c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 100000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -100000)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MinPitch)
	}

	yaw := c.Yaw
	c.HandleDrag(100, 0)
	if !near(c.Yaw, yaw-100*c.DragSensitivity) {
		t.Errorf("Yaw = %v, want %v", c.Yaw, yaw-100*c.DragSensitivity)
	}
}

func TestHandleZoom(t *testing.T) {
	c := NewOrbitCamera()
	d := c.Distance

	c.HandleZoom(1)
	if c.Distance != d {
		t.Errorf("zoom disabled: Distance = %v, want %v", c.Distance, d)
	}

	c.ZoomEnabled = true
	c.HandleZoom(1)
	if c.Distance >= d {
		t.Errorf("zoom in: Distance = %v, want < %v", c.Distance, d)
	}
	c.HandleZoom(-1000)
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %v, want clamp to %v", c.Distance, c.MaxDistance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	box := scene.EmptyAABB()
	box.ExpandPoint(mgl32.Vec3{-2, 0, -1})
	box.ExpandPoint(mgl32.Vec3{2, 1.5, 1})

	if !c.FitToBounds(box) {
		t.Fatal("FitToBounds() = false")
	}
	if c.Target != box.Center() {
		t.Errorf("Target = %v, want %v", c.Target, box.Center())
	}

	// The bounding sphere fits inside the vertical field of view.
	radius := box.Size().Len() / 2
	half := math.Asin(float64(radius / c.Distance))
	if half*2 > float64(c.FOV) {
		t.Errorf("view angle %v exceeds FOV %v", half*2, c.FOV)
	}
	if c.Far <= c.Distance+radius {
		t.Errorf("Far = %v clips the model", c.Far)
	}
}

func TestFitToEmptyBounds(t *testing.T) {
	c := NewOrbitCamera()
	before := *c
	if c.FitToBounds(scene.EmptyAABB()) {
		t.Error("FitToBounds(empty) = true")
	}
	if c.Target != before.Target || c.Distance != before.Distance {
		t.Error("camera changed for empty bounds")
	}
}
