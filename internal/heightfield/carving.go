package heightfield

import (
	"math"

	"github.com/Faultbox/terrastream/internal/river"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

const (
	// maxDepthScale caps the depth of one segment relative to the base depth.
	maxDepthScale = 5
	// saturationScale sets the soft ceiling of the combined carving.
	saturationScale = 2
	minDepth        = 0.1
)

// CarvingEffect returns the non-negative height deduction at (x, z) caused by
// segs. Contributions add up and then saturate softly below twice the base
// carving depth.
func (f *Field) CarvingEffect(x, z float32, segs []river.Segment) float32 {
	if len(segs) == 0 {
		return 0
	}
	r := f.cfg.Rivers
	p := tmath.Vec2{X: x, Y: z}

	var total float32
	for _, s := range segs {
		dist, t := tmath.DistanceToSegment(p, s.Start, s.End)
		carve := f.falloff(dist, s.Width)
		if carve <= 0 {
			continue
		}
		total += carve * f.segmentDepth(s, t)
	}

	ceiling := r.CarvingDepth * saturationScale
	if total <= 0 || ceiling <= 0 {
		return 0
	}
	return ceiling * (total / (total + ceiling))
}

// segmentDepth returns the carving depth at parameter t along s. Degenerate
// segments get full uphill compensation.
func (f *Field) segmentDepth(s river.Segment, t float32) float32 {
	r := f.cfg.Rivers
	scale := f.cfg.Terrain.HeightScale
	base := r.CarvingDepth
	depth := base

	degenerate := s.End.Sub(s.Start).LengthSq() < 0.0001
	if !degenerate && s.StartHeight != s.EndHeight && scale != 0 {
		h := s.StartHeight + t*(s.EndHeight-s.StartHeight)
		depth *= 1 + 0.5*(s.StartHeight-h)/scale
		depth = max(minDepth, depth)
	}

	if s.UphillAmount > 0 && scale != 0 {
		comp := s.UphillAmount / scale * r.UphillCarvingMultiplier
		if degenerate {
			depth *= 1 + comp
		} else {
			// Concentrate compensation toward the higher end
			depth *= 1 + comp*(0.3+0.7*t*t)
		}
		depth = min(depth, base*maxDepthScale)
	}
	return depth
}

// falloff is 1 on the centre line and reaches 0 at width times the carving
// width multiplier.
func (f *Field) falloff(dist, width float32) float32 {
	r := f.cfg.Rivers
	radius := width * r.CarvingWidthMultiplier
	if radius <= 0 || dist >= radius {
		return 0
	}
	d := float64(dist / radius)
	cosine := 0.5 * (1 + math.Cos(d*math.Pi))
	smooth := math.Pow(cosine, float64(r.CarvingSmoothness))
	bank := math.Exp(-d * 2)
	return float32(smooth * (0.7 + 0.3*bank))
}
