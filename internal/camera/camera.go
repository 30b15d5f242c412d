// Package camera provides the streaming viewpoint that drives tile loading.
package camera

import (
	gomath "math"

	"github.com/Faultbox/terrastream/pkg/math"
)

// Ground reports the surface height under a world position.
type Ground interface {
	SampleCarvedHeight(x, z float32) float32
}

// FlyCamera glides over the terrain at a fixed clearance above the ground.
type FlyCamera struct {
	// Horizontal position
	X, Z float32

	// Orientation
	Yaw float32 // Radians, 0 faces +Z

	// Clearance above the ground
	Clearance    float32
	MinClearance float32
	MaxClearance float32

	// Sensitivity
	Speed          float32 // World units per unit of movement input
	YawSensitivity float32
	ClimbRate      float32

	// Cached height for external access
	PosY float32
}

// NewFlyCamera creates a camera at the origin facing +X.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Yaw:            gomath.Pi / 2,
		Clearance:      2,
		MinClearance:   0.5,
		MaxClearance:   500,
		Speed:          1,
		YawSensitivity: 0.005,
		ClimbRate:      0.1,
	}
}

// Position returns the camera position in world space. The height is the
// one cached by the last Follow.
func (c *FlyCamera) Position() math.Vec3 {
	return math.Vec3{X: c.X, Y: c.PosY, Z: c.Z}
}

// Follow places the camera Clearance above the ground at its current XZ.
func (c *FlyCamera) Follow(g Ground) math.Vec3 {
	c.PosY = g.SampleCarvedHeight(c.X, c.Z) + c.Clearance
	return c.Position()
}

// HandleMovement moves the camera along its heading. Positive forward moves
// along ForwardDirection and positive right along RightDirection.
func (c *FlyCamera) HandleMovement(forward, right float32) {
	fx, fz := c.ForwardDirection()
	rx, rz := c.RightDirection()
	c.X += (fx*forward + rx*right) * c.Speed
	c.Z += (fz*forward + rz*right) * c.Speed
}

// HandleYaw turns the camera by a drag delta.
func (c *FlyCamera) HandleYaw(deltaX float32) {
	c.Yaw -= deltaX * c.YawSensitivity
}

// HandleClimb changes the clearance, scaled by the current clearance so
// small heights stay controllable.
func (c *FlyCamera) HandleClimb(delta float32) {
	c.Clearance += delta * c.Clearance * c.ClimbRate
	c.Clearance = math.Clamp(c.Clearance, c.MinClearance, c.MaxClearance)
}

// ForwardDirection returns the heading on the XZ plane.
func (c *FlyCamera) ForwardDirection() (x, z float32) {
	return float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))
}

// RightDirection returns the direction to the right of the heading.
func (c *FlyCamera) RightDirection() (x, z float32) {
	return float32(gomath.Cos(float64(c.Yaw))), float32(-gomath.Sin(float64(c.Yaw)))
}
