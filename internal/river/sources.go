package river

import (
	"math"

	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// downhillProbes is the number of headings tried when validating a source.
const downhillProbes = 8

// FindSources returns the sources of every source grid cell that overlaps the
// square of tiles within radius of center. The grid is aligned to world
// coordinates, so a cell yields the same source no matter which region
// discovered it. Results are ordered by cell, row by row.
func (n *Network) FindSources(center world.TileCoord, radius int) []Source {
	if !n.Enabled() {
		return nil
	}

	r := n.cfg.Rivers
	w := n.cfg.Terrain.TileWidth
	regionSize := w * float32(2*radius+1)
	startX := float32(center.X-radius) * w
	startZ := float32(center.Z-radius) * w
	endX := startX + regionSize
	endZ := startZ + regionSize

	g := r.GridSize
	gx0 := int(math.Floor(float64(startX / g)))
	gz0 := int(math.Floor(float64(startZ / g)))
	gx1 := int(math.Ceil(float64(endX / g)))
	gz1 := int(math.Ceil(float64(endZ / g)))

	var sources []Source
	for gz := gz0; gz <= gz1; gz++ {
		for gx := gx0; gx <= gx1; gx++ {
			cellX := float32(gx) * g
			cellZ := float32(gz) * g
			if cellX+g < startX || cellX > endX || cellZ+g < startZ || cellZ > endZ {
				continue
			}
			if src, ok := n.sourceInCell(gx, gz); ok {
				sources = append(sources, src)
			}
		}
	}
	return sources
}

// sourceInCell picks the best candidate of one grid cell. It depends only on
// the cell coordinates.
func (n *Network) sourceInCell(gx, gz int) (Source, bool) {
	r := n.cfg.Rivers
	g := r.GridSize
	cellX := float32(gx) * g
	cellZ := float32(gz) * g
	step := g / float32(r.SamplesPerCell)

	var best Source
	bestScore := float32(-1)
	found := false

	for sz := range r.SamplesPerCell {
		for sx := range r.SamplesPerCell {
			pos := tmath.Vec2{
				X: cellX + (float32(sx)+0.5)*step,
				Y: cellZ + (float32(sz)+0.5)*step,
			}

			noiseValue := (n.sourceNoise.Sample(pos.X, pos.Y) + 1) * 0.5
			if noiseValue <= r.SourceThreshold {
				continue
			}
			height := n.heights.SampleHeight(pos.X, pos.Y)
			if height < r.MinSourceHeight {
				continue
			}
			if !n.hasDownhill(pos, height) {
				continue
			}

			score := noiseValue*0.7 + (height/r.HeightNormalize)*0.3
			if score > bestScore {
				bestScore = score
				best = Source{ID: SourceID(gx, gz), Position: pos, Height: height}
				found = true
			}
		}
	}
	return best, found
}

// hasDownhill reports whether any of a ring of probes at the base search
// radius is meaningfully lower than height.
func (n *Network) hasDownhill(pos tmath.Vec2, height float32) bool {
	r := n.cfg.Rivers
	minDrop := r.MinHeightDrop * 0.5
	for i := range downhillProbes {
		dir := tmath.FromAngle(float64(i) * 2 * math.Pi / downhillProbes)
		p := pos.Add(dir.Scale(r.SearchRadius))
		if height-n.heights.SampleHeight(p.X, p.Y) > minDrop {
			return true
		}
	}
	return false
}
