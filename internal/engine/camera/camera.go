// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/phone-teardown/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians, 0 looks down -Z

	// Projection
	FOV         float32 // Vertical field of view, radians
	Near, Far   float32
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking at the origin from +Z.
func NewOrbitCamera(fovDegrees float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        4,
		Pitch:           0.15,
		Yaw:             0.35,
		FOV:             fovDegrees * gomath.Pi / 180,
		Near:            0.01,
		Far:             100,
		MinDistance:     0.5,
		MaxDistance:     20,
		MinPitch:        -1.0,
		MaxPitch:        1.0,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// SetPitchLimits sets the pitch range in degrees.
func (c *OrbitCamera) SetPitchLimits(minDeg, maxDeg float32) {
	c.MinPitch = minDeg * gomath.Pi / 180
	c.MaxPitch = maxDeg * gomath.Pi / 180
	c.Pitch = math.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	x := c.Distance * float32(cp*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(cp*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for aspect
// (width / height).
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on the box and backs off until its
// bounding sphere, padded by margin, fills the vertical field of view.
func (c *OrbitCamera) FitToBounds(boxMin, boxMax [3]float32, margin float32) {
	lo, hi := math.V3(boxMin), math.V3(boxMax)
	c.Center = lo.Add(hi).Scale(0.5)

	radius := hi.Sub(lo).Length() / 2
	if radius <= 0 {
		radius = 0.5
	}
	if margin <= 0 {
		margin = 1
	}

	d := radius * margin / float32(gomath.Sin(float64(c.FOV)/2))
	c.Distance = d
	c.MinDistance = d * 0.4
	c.MaxDistance = d * 3
	c.Near = max(d-radius*4, d*0.01)
	c.Far = d + radius*8
}
