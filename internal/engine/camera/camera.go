// Package camera provides the orbit camera used to look at the model.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	FOV  float32 // Vertical field of view, radians
	Near float32
	Far  float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
	ZoomEnabled     bool
}

// NewOrbitCamera creates a camera looking slightly down at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.3,
		FOV:             mgl32.DegToRad(45),
		Near:            0.05,
		Far:             500,
		MinDistance:     0.5,
		MaxDistance:     200,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := math.Cos(float64(c.Pitch)), math.Sin(float64(c.Pitch))
	cy, sy := math.Cos(float64(c.Yaw)), math.Sin(float64(c.Yaw))
	offset := mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves toward or away from the target. It does nothing while
// zoom is disabled.
func (c *OrbitCamera) HandleZoom(delta float32) {
	if !c.ZoomEnabled {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds aims at the box center from far enough away to see all of it.
// Empty or non-finite boxes leave the camera unchanged.
func (c *OrbitCamera) FitToBounds(box scene.AABB) bool {
	if box.IsEmpty() || !box.IsFinite() {
		return false
	}
	c.Target = box.Center()

	radius := box.Size().Len() / 2
	if radius <= 0 {
		radius = 1
	}
	dist := radius / float32(math.Sin(float64(c.FOV)/2))
	c.Distance = dist * 1.1
	if c.Distance < c.MinDistance {
		c.MinDistance = c.Distance
	}
	if c.MaxDistance < c.Distance*4 {
		c.MaxDistance = c.Distance * 4
	}
	if c.Far < c.Distance+radius*4 {
		c.Far = c.Distance + radius*4
	}
	c.Near = max(c.Distance/1000, 0.001)
	return true
}
