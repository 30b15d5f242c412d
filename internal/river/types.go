// Package river places deterministic river sources on a world grid, traces
// them downhill and exposes the resulting paths as segments and water ribbons.
package river

import (
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// HeightSampler returns the uncarved terrain height at a world position.
type HeightSampler interface {
	SampleHeight(x, z float32) float32
}

// HeightFunc adapts a plain function to HeightSampler.
type HeightFunc func(x, z float32) float32

// SampleHeight calls f(x, z).
func (f HeightFunc) SampleHeight(x, z float32) float32 {
	return f(x, z)
}

// Source is the origin of one river.
type Source struct {
	ID       int64
	Position tmath.Vec2
	Height   float32
}

// SourceID derives a stable identifier from source grid cell coordinates.
func SourceID(gridX, gridZ int) int64 {
	return int64(gridX)<<32 | int64(uint32(int32(gridZ)))
}

// Point is one step along a traced river.
type Point struct {
	Position tmath.Vec2
	Height   float32
	Width    float32
}

// Path is the ordered trace of one source. It always holds at least the
// source point.
type Path struct {
	SourceID        int64
	Points          []Point
	ReachesSeaLevel bool
}

// Segment joins two consecutive path points.
type Segment struct {
	Start, End             tmath.Vec2
	StartHeight, EndHeight float32
	Width                  float32
	SourceID               int64
	UphillAmount           float32 // Rise from start to end, or 0 when flowing down
}

// Segments converts consecutive points into segments.
func (p Path) Segments() []Segment {
	if len(p.Points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(p.Points)-1)
	for i := 0; i < len(p.Points)-1; i++ {
		a, b := p.Points[i], p.Points[i+1]
		segs = append(segs, Segment{
			Start:        a.Position,
			End:          b.Position,
			StartHeight:  a.Height,
			EndHeight:    b.Height,
			Width:        (a.Width + b.Width) * 0.5,
			SourceID:     p.SourceID,
			UphillAmount: max(0, b.Height-a.Height),
		})
	}
	return segs
}

// Length returns the travelled distance along the path.
func (p Path) Length() float32 {
	var total float32
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i].Position.Distance(p.Points[i-1].Position)
	}
	return total
}
