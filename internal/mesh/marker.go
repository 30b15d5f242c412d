package mesh

import tmath "github.com/Faultbox/terrastream/pkg/math"

var markerColor = [4]float32{0.2, 0.6, 1.0, 0.8}

// BuildMarker creates a small pyramid with its base centred on pos, used to
// show river sources in debug views.
func BuildMarker(pos tmath.Vec3, size float32) *Mesh {
	b := NewBuilder()
	corners := [4][2]float32{{-size, -size}, {size, -size}, {size, size}, {-size, size}}
	for _, c := range corners {
		b.Add(Vertex{
			Position: [3]float32{pos.X + c[0], pos.Y, pos.Z + c[1]},
			Normal:   [3]float32{0, -1, 0},
			Color:    markerColor,
		})
	}
	peak := b.Add(Vertex{
		Position: [3]float32{pos.X, pos.Y + size*2, pos.Z},
		Normal:   up,
		Color:    white,
	})

	for i := range uint32(4) {
		b.Triangle(i, (i+1)%4, peak)
	}
	b.Triangle(0, 2, 1)
	b.Triangle(0, 3, 2)
	return b.Mesh()
}

// BuildStrip creates a flat quad of the given width from start to end at
// height y, used for debug river segments.
func BuildStrip(start, end tmath.Vec2, y, width float32) *Mesh {
	dir := end.Sub(start).Normalize()
	perp := dir.Perp().Scale(width * 0.5)

	b := NewBuilder()
	for _, p := range []tmath.Vec2{start.Sub(perp), start.Add(perp), end.Add(perp), end.Sub(perp)} {
		b.Add(Vertex{
			Position: [3]float32{p.X, y, p.Y},
			Normal:   up,
			Color:    [4]float32{0.3, 0.7, 1.0, 0.6},
		})
	}
	b.Triangle(0, 2, 1)
	b.Triangle(0, 3, 2)
	return b.Mesh()
}
