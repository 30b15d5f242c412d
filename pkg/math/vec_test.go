package math

import (
	stdmath "math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got := v.LengthSq(); got != 25 {
		t.Errorf("Vec2.LengthSq() = %v, want 25", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	n := Vec2{3, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec2{}).Normalize(); z != (Vec2{}) {
		t.Errorf("zero Vec2.Normalize() = %v, want zero", z)
	}
}

func TestVec2Perp(t *testing.T) {
	if got := (Vec2{1, 0}).Perp(); got != (Vec2{0, 1}) {
		t.Errorf("Vec2.Perp() = %v, want {0 1}", got)
	}
}

func TestAngleBetween(t *testing.T) {
	got := AngleBetween(Vec2{1, 0}, Vec2{0, 1})
	if stdmath.Abs(got-stdmath.Pi/2) > 1e-6 {
		t.Errorf("AngleBetween = %v, want pi/2", got)
	}
	// Dot products drifting past 1 must not produce NaN.
	if got := AngleBetween(Vec2{1, 0}, Vec2{1.0000001, 0}); stdmath.IsNaN(got) {
		t.Error("AngleBetween returned NaN")
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name  string
		p     Vec2
		dist  float32
		param float32
	}{
		{"perpendicular", Vec2{5, 3}, 3, 0.5},
		{"before start", Vec2{-4, 3}, 5, 0},
		{"past end", Vec2{13, 4}, 5, 1},
		{"on segment", Vec2{2, 0}, 0, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, param := DistanceToSegment(tt.p, Vec2{0, 0}, Vec2{10, 0})
			if stdmath.Abs(float64(d-tt.dist)) > 1e-5 {
				t.Errorf("dist = %v, want %v", d, tt.dist)
			}
			if stdmath.Abs(float64(param-tt.param)) > 1e-5 {
				t.Errorf("t = %v, want %v", param, tt.param)
			}
		})
	}
}

func TestDistanceToDegenerateSegment(t *testing.T) {
	d, param := DistanceToSegment(Vec2{3, 4}, Vec2{0, 0}, Vec2{0.001, 0})
	if d != 5 || param != 0 {
		t.Errorf("degenerate segment = (%v, %v), want (5, 0)", d, param)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeDegenerate(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != Up {
		t.Errorf("zero Vec3.Normalize() = %v, want Up", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp out of range")
	}
}
