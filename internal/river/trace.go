package river

import (
	"math"

	"go.uber.org/zap"

	tmath "github.com/Faultbox/terrastream/pkg/math"
)

const (
	minRingSamples = 16
	maxRingSamples = 32
	gridRange      = 3
)

// Trace follows a source downhill. Paths are cached per source, so repeated
// calls for the same source are cheap and return identical paths. Callers
// must not modify the returned points.
func (n *Network) Trace(src Source) Path {
	if p, ok := n.paths.get(src.ID); ok {
		return p
	}
	p := n.trace(src)
	n.paths.put(src.ID, p)
	return p
}

// tracer holds the adaptive search state of one trace.
type tracer struct {
	radius    float32
	tolerance float32
	stuck     int
	last      tmath.Vec2
}

func (n *Network) trace(src Source) Path {
	r := n.cfg.Rivers
	maxTurn := float64(r.MaxTurnAngle) * math.Pi / 180

	pos, height, width := src.Position, src.Height, r.BaseWidth
	path := Path{SourceID: src.ID}
	path.Points = append(path.Points, Point{Position: pos, Height: height, Width: width})

	t := tracer{radius: r.SearchRadius}
	abandoned := false

	for steps := 0; steps < r.MaxTracePoints && height > r.SeaLevel; {
		dir, ok := n.bestDirection(pos, height, t, maxTurn)
		if ok {
			t.stuck = 0
			t.radius = max(r.SearchRadius, t.radius*0.95)
			t.tolerance = max(0, t.tolerance*0.9)
		} else {
			t.stuck++
			if t.stuck >= r.MaxStuckAttempts {
				abandoned = true
				break
			}
			n.relax(&t)
			if dir, ok = n.bestDirection(pos, height, t, maxTurn); !ok {
				continue
			}
		}

		pos = pos.Add(dir.Scale(r.TraceStep))
		height = n.heights.SampleHeight(pos.X, pos.Y)
		width += r.WidthGrowthRate * r.TraceStep
		path.Points = append(path.Points, Point{Position: pos, Height: height, Width: width})
		t.last = dir
		steps++
	}

	path.ReachesSeaLevel = height <= r.SeaLevel
	if abandoned {
		n.log.Debug("river trace abandoned",
			zap.Int64("source", src.ID),
			zap.Int("points", len(path.Points)),
			zap.Float32("height", height))
	}
	return path
}

// relax applies the relaxation stage for the current stuck count. Counts past
// the schedule keep the last constraints.
func (n *Network) relax(t *tracer) {
	r := n.cfg.Rivers
	if t.stuck > len(r.Relaxation) {
		return
	}
	stage := r.Relaxation[t.stuck-1]
	if stage.ToleranceScale > 0 {
		t.tolerance = r.UphillTolerance * stage.ToleranceScale
	}
	if stage.RadiusScale > 0 {
		t.radius *= stage.RadiusScale
	}
}

// acceptable reports whether a height change passes the uphill tolerance.
// With zero tolerance only strict descents qualify.
func acceptable(change, tolerance float32) bool {
	return change > 0 || (tolerance > 0 && change >= -tolerance)
}

// bestDirection scores headings on a ring around pos and returns the best
// unit direction. Headings turning more than maxTurn from the previous
// direction are excluded.
func (n *Network) bestDirection(pos tmath.Vec2, height float32, t tracer, maxTurn float64) (tmath.Vec2, bool) {
	r := n.cfg.Rivers
	minDrop := r.MinHeightDrop * 0.3
	hasLast := t.last.LengthSq() > 0.001

	samples := max(minRingSamples, int(t.radius/r.SearchRadius*minRingSamples))
	samples = min(samples, maxRingSamples)

	var best tmath.Vec2
	bestScore := float32(-1000)
	found := false

	for i := range samples {
		dir := tmath.FromAngle(float64(i) * 2 * math.Pi / float64(samples))
		if hasLast && tmath.AngleBetween(dir, t.last) > maxTurn {
			continue
		}

		p := pos.Add(dir.Scale(t.radius))
		change := height - n.heights.SampleHeight(p.X, p.Y)
		if !acceptable(change, t.tolerance) {
			continue
		}

		var score float32
		if change > 0 {
			score += change * 10
		} else {
			score -= -change / t.tolerance * 5
		}
		if hasLast {
			score += dir.Dot(t.last) * 2
		}
		if change > minDrop {
			score += 5
		}

		if score > bestScore {
			bestScore = score
			best = dir
			found = true
		}
	}

	// Coarse grid fallback once the radius has been widened
	if bestScore < 0 && t.radius > r.SearchRadius {
		gridStep := t.radius / 5
		for z := -gridRange; z <= gridRange; z++ {
			for x := -gridRange; x <= gridRange; x++ {
				if x == 0 && z == 0 {
					continue
				}
				dir := tmath.Vec2{X: float32(x), Y: float32(z)}.Normalize()
				if hasLast && tmath.AngleBetween(dir, t.last) > maxTurn {
					continue
				}

				p := pos.Add(tmath.Vec2{X: float32(x) * gridStep, Y: float32(z) * gridStep})
				change := height - n.heights.SampleHeight(p.X, p.Y)
				if !acceptable(change, t.tolerance) {
					continue
				}

				score := change
				if hasLast {
					score += dir.Dot(t.last)
				}
				if score > bestScore {
					bestScore = score
					best = dir
					found = true
				}
			}
		}
	}

	return best, found
}
