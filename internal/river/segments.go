package river

import (
	"math"

	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// markerLift raises debug source markers above the terrain.
const markerLift = 2

// SegmentsForChunk returns segments drawn directly on the tile. The tile
// bounds are expanded by twice the segment width.
func (n *Network) SegmentsForChunk(coord world.TileCoord) []Segment {
	return n.segmentsNear(coord, n.cfg.Rivers.ChunkSearchRadius, func(s Segment) float32 {
		return s.Width * 2
	})
}

// CarvingSearchRadius returns the source search radius in tiles used for
// carving queries.
func (n *Network) CarvingSearchRadius() int {
	r := n.cfg.Rivers
	maxDistance := r.BaseWidth * r.CarvingWidthMultiplier
	tiles := int(math.Ceil(float64(maxDistance / n.cfg.Terrain.TileWidth)))
	return max(10, tiles+5)
}

// SegmentsForCarving returns every segment whose carving falloff can reach
// the tile.
func (n *Network) SegmentsForCarving(coord world.TileCoord) []Segment {
	return n.segmentsNear(coord, n.CarvingSearchRadius(), n.carvingMargin)
}

// SegmentsForFoliage returns segments that can exclude vegetation on the tile.
func (n *Network) SegmentsForFoliage(coord world.TileCoord) []Segment {
	exclusion := n.cfg.Foliage.ExclusionRadius
	return n.segmentsNear(coord, n.cfg.Rivers.FoliageSearchRadius, func(s Segment) float32 {
		return max(n.carvingMargin(s), exclusion+s.Width*0.5)
	})
}

func (n *Network) carvingMargin(s Segment) float32 {
	return s.Width * n.cfg.Rivers.CarvingWidthMultiplier
}

func (n *Network) segmentsNear(coord world.TileCoord, radius int, margin func(Segment) float32) []Segment {
	sources := n.FindSources(coord, radius)
	if len(sources) == 0 {
		return nil
	}

	bounds := coord.Bounds(n.cfg.Terrain.TileWidth)
	var out []Segment
	for _, src := range sources {
		for _, s := range n.Trace(src).Segments() {
			if bounds.Expand(margin(s)).Intersects(world.RectAround(s.Start, s.End)) {
				out = append(out, s)
			}
		}
	}
	return out
}

// SourcesForChunk returns sources near the tile for debug overlays.
func (n *Network) SourcesForChunk(coord world.TileCoord) []Source {
	return n.FindSources(coord, n.cfg.Rivers.MarkerSearchRadius)
}

// SourceMarkers returns tile-local marker positions for sources lying within
// one tile width of the tile.
func (n *Network) SourceMarkers(coord world.TileCoord) []tmath.Vec3 {
	w := n.cfg.Terrain.TileWidth
	origin := coord.Origin(w)

	var markers []tmath.Vec3
	for _, src := range n.SourcesForChunk(coord) {
		local := src.Position.Sub(origin)
		if local.X < -w || local.X > 2*w || local.Y < -w || local.Y > 2*w {
			continue
		}
		markers = append(markers, tmath.Vec3{X: local.X, Y: src.Height + markerLift, Z: local.Y})
	}
	return markers
}
