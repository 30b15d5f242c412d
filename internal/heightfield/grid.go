package heightfield

import (
	"github.com/Faultbox/terrastream/internal/river"
	"github.com/Faultbox/terrastream/internal/world"
)

// Grid holds the height samples of one tile plus a one-sample ring around it.
// It satisfies mesh.HeightGrid.
type Grid struct {
	Coord    world.TileCoord
	Heights  []float32 // Row-major, (segments+3)² samples starting at (-1, -1)
	segments int
	step     float32
}

// Segments returns the number of quads per tile edge.
func (g *Grid) Segments() int {
	return g.segments
}

// Step returns the world distance between samples.
func (g *Grid) Step() float32 {
	return g.step
}

// Size returns the number of samples per grid row.
func (g *Grid) Size() int {
	return g.segments + 3
}

// At returns the sample at (x, z), where 0 is the tile's minimum edge and
// -1 and segments+1 address the outer ring.
func (g *Grid) At(x, z int) float32 {
	return g.Heights[(z+1)*g.Size()+x+1]
}

// PrecomputeHeights samples the grid for a tile. Carving is applied when it
// is enabled and segs is not empty. An unready field yields zeros.
func (f *Field) PrecomputeHeights(coord world.TileCoord, segs []river.Segment) *Grid {
	t := f.cfg.Terrain
	g := &Grid{
		Coord:    coord,
		segments: t.SegmentCount,
		step:     t.Step(),
	}
	size := g.Size()
	g.Heights = make([]float32, size*size)
	if !f.Ready() {
		return g
	}

	origin := coord.Origin(t.TileWidth)
	for z := -1; z <= t.SegmentCount+1; z++ {
		wz := origin.Y + float32(z)*g.step
		row := (z + 1) * size
		for x := -1; x <= t.SegmentCount+1; x++ {
			wx := origin.X + float32(x)*g.step
			g.Heights[row+x+1] = f.SampleHeightWithRivers(wx, wz, segs)
		}
	}
	return g
}
