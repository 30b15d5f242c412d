package river

import (
	"github.com/Faultbox/terrastream/internal/mesh"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

const (
	// uvLength is the travelled distance covered by one texture repeat.
	uvLength = 100
	// bankSample is the fraction of the half width probed for bank heights.
	bankSample = 0.8
)

// Ribbon is a continuous water surface for one river run near a tile.
type Ribbon struct {
	SourceID int64
	Mesh     *mesh.Mesh
}

// Ribbons builds water surfaces for every river passing within one tile width
// of the tile. Points are kept when they lie inside the tile expanded by two
// tile widths, or when the segment leading to them crosses that envelope, so
// a river crossing a tile edge stays one piece. heightAt should return the
// carved terrain height so water sits inside the channel. Vertices are local
// to the tile origin.
func (n *Network) Ribbons(coord world.TileCoord, heightAt func(x, z float32) float32) []Ribbon {
	if !n.cfg.RiverMesh.Enabled {
		return nil
	}
	w := n.cfg.Terrain.TileWidth
	bounds := coord.Bounds(w)
	influence := bounds.Expand(w)
	envelope := bounds.Expand(2 * w)

	var ribbons []Ribbon
	for _, src := range n.FindSources(coord, n.cfg.RiverMesh.SearchRadius) {
		path := n.Trace(src)
		if len(path.Points) < 2 || !touches(path, influence) {
			continue
		}
		for _, run := range keptRuns(path, envelope) {
			if m := n.ribbonMesh(path, run, coord.Origin(w), heightAt); m != nil {
				ribbons = append(ribbons, Ribbon{SourceID: path.SourceID, Mesh: m})
			}
		}
	}
	return ribbons
}

func touches(path Path, r world.Rect) bool {
	for _, p := range path.Points {
		if r.Contains(p.Position) {
			return true
		}
	}
	return false
}

// span is a half-open range of point indices.
type span struct {
	from, to int
}

// keptRuns splits the path into contiguous runs of kept points.
func keptRuns(path Path, envelope world.Rect) []span {
	var runs []span
	start := -1
	for i, p := range path.Points {
		keep := envelope.Contains(p.Position)
		if !keep && i > 0 {
			keep = envelope.Intersects(world.RectAround(path.Points[i-1].Position, p.Position))
		}
		switch {
		case keep && start < 0:
			start = i
		case !keep && start >= 0:
			runs = append(runs, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, span{start, len(path.Points)})
	}
	return runs
}

// ribbonMesh emits a left/right vertex pair per kept point. It returns nil
// when the run is shorter than two points.
func (n *Network) ribbonMesh(path Path, run span, origin tmath.Vec2, heightAt func(x, z float32) float32) *mesh.Mesh {
	if run.to-run.from < 2 {
		return nil
	}
	rm := n.cfg.RiverMesh
	pts := path.Points

	// Travelled distance from the source to the first kept point
	var travelled float32
	for i := 1; i <= run.from; i++ {
		travelled += pts[i].Position.Distance(pts[i-1].Position)
	}

	b := mesh.NewBuilder()
	for i := run.from; i < run.to; i++ {
		p := pts[i]
		if i > run.from {
			travelled += p.Position.Distance(pts[i-1].Position)
		}

		perp := flowDirection(pts, i).Perp()
		half := p.Width * rm.WidthMultiplier * 0.5

		left := p.Position.Add(perp.Scale(half))
		right := p.Position.Sub(perp.Scale(half))
		probeL := p.Position.Add(perp.Scale(half * bankSample))
		probeR := p.Position.Sub(perp.Scale(half * bankSample))
		ground := min(
			heightAt(p.Position.X, p.Position.Y),
			heightAt(probeL.X, probeL.Y),
			heightAt(probeR.X, probeR.Y),
		)
		y := ground + rm.DepthOffset - rm.BankSafety

		u := travelled / uvLength
		l := b.Add(waterVertex(left.Sub(origin), y, u, 0))
		r := b.Add(waterVertex(right.Sub(origin), y, u, 1))
		if i > run.from {
			b.Triangle(l-2, l-1, l)
			b.Triangle(l-1, r, l)
		}
	}
	return b.Mesh()
}

// flowDirection averages the incoming and outgoing headings at point i.
func flowDirection(pts []Point, i int) tmath.Vec2 {
	switch {
	case i == 0:
		return pts[1].Position.Sub(pts[0].Position).Normalize()
	case i == len(pts)-1:
		return pts[i].Position.Sub(pts[i-1].Position).Normalize()
	default:
		in := pts[i].Position.Sub(pts[i-1].Position).Normalize()
		out := pts[i+1].Position.Sub(pts[i].Position).Normalize()
		return in.Add(out).Normalize()
	}
}

func waterVertex(p tmath.Vec2, y, u, v float32) mesh.Vertex {
	return mesh.Vertex{
		Position: [3]float32{p.X, y, p.Y},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{u, v},
		Color:    [4]float32{0.2, 0.6, 0.9, 0.8},
	}
}
