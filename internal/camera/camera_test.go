package camera

import (
	gomath "math"
	"testing"
)

type slope struct{}

func (slope) SampleCarvedHeight(x, z float32) float32 { return x + 2*z }

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestNewFlyCameraFacesX(t *testing.T) {
	c := NewFlyCamera()
	x, z := c.ForwardDirection()
	if !near(x, 1) || !near(z, 0) {
		t.Errorf("ForwardDirection() = (%v, %v), want (1, 0)", x, z)
	}
}

func TestHandleMovement(t *testing.T) {
	tests := []struct {
		name           string
		yaw            float32
		forward, right float32
		wantX, wantZ   float32
	}{
		{"forward +Z", 0, 1, 0, 0, 1},
		{"right at +Z", 0, 0, 1, 1, 0},
		{"forward +X", gomath.Pi / 2, 2, 0, 2, 0},
		{"backward", 0, -3, 0, 0, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFlyCamera()
			c.Yaw = tt.yaw
			c.HandleMovement(tt.forward, tt.right)
			if !near(c.X, tt.wantX) || !near(c.Z, tt.wantZ) {
				t.Errorf("position = (%v, %v), want (%v, %v)", c.X, c.Z, tt.wantX, tt.wantZ)
			}
		})
	}
}

func TestFollow(t *testing.T) {
	c := NewFlyCamera()
	c.X, c.Z = 3, 4
	got := c.Follow(slope{})
	if got.X != 3 || got.Z != 4 || !near(got.Y, 11+c.Clearance) {
		t.Errorf("Follow() = %v, want (3, %v, 4)", got, 11+c.Clearance)
	}
	if c.Position() != got {
		t.Errorf("Position() = %v, want cached %v", c.Position(), got)
	}
}

func TestHandleClimbClamps(t *testing.T) {
	c := NewFlyCamera()
	for range 200 {
		c.HandleClimb(10)
	}
	if c.Clearance != c.MaxClearance {
		t.Errorf("Clearance = %v, want max %v", c.Clearance, c.MaxClearance)
	}
	for range 200 {
		c.HandleClimb(-10)
	}
	if c.Clearance != c.MinClearance {
		t.Errorf("Clearance = %v, want min %v", c.Clearance, c.MinClearance)
	}
}

func TestHandleYaw(t *testing.T) {
	c := NewFlyCamera()
	c.Yaw = 0
	c.HandleYaw(-100)
	if !near(c.Yaw, 0.5) {
		t.Errorf("Yaw = %v, want 0.5", c.Yaw)
	}
}
