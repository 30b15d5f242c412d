// Package math provides the small vector types used for world-space terrain queries.
package math

import "math"

// Vec2 is a planar world position. Y carries the world Z axis.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// LengthSq returns the squared magnitude.
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Perp returns v rotated by 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Lerp interpolates between v and other by t.
func (v Vec2) Lerp(other Vec2, t float32) Vec2 {
	return v.Add(other.Sub(v).Scale(t))
}

// FromAngle returns the unit vector at the given angle in radians.
func FromAngle(rad float64) Vec2 {
	return Vec2{float32(math.Cos(rad)), float32(math.Sin(rad))}
}

// AngleBetween returns the unsigned angle in radians between two unit vectors.
func AngleBetween(a, b Vec2) float64 {
	return math.Acos(float64(Clamp(a.Dot(b), -1, 1)))
}

// DistanceToSegment returns the distance from p to the segment [a, b] and the
// clamped projection parameter t. Segments shorter than 0.01 are treated as the point a.
func DistanceToSegment(p, a, b Vec2) (dist, t float32) {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 0.0001 {
		return p.Distance(a), 0
	}
	t = Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return p.Distance(a.Add(ab.Scale(t))), t
}
