package mesh

import tmath "github.com/Faultbox/terrastream/pkg/math"

// BuildTile creates the surface mesh of one tile from its height grid.
// Vertices lie on a (segments+1)² lattice in tile-local space; normals use
// the extra ring so tiles shade seamlessly across edges.
func BuildTile(grid HeightGrid) *Mesh {
	segments := grid.Segments()
	step := grid.Step()
	doubleStep := 2 * step
	invSegments := 1 / float32(segments)

	b := NewBuilder()
	for z := 0; z <= segments; z++ {
		for x := 0; x <= segments; x++ {
			h := grid.At(x, z)

			tangentX := tmath.Vec3{X: doubleStep, Y: grid.At(x+1, z) - grid.At(x-1, z)}
			tangentZ := tmath.Vec3{Y: grid.At(x, z+1) - grid.At(x, z-1), Z: doubleStep}
			normal := tangentZ.Cross(tangentX).Normalize()

			b.Add(Vertex{
				Position: [3]float32{float32(x) * step, h, float32(z) * step},
				Normal:   vec3(normal),
				TexCoord: [2]float32{float32(x) * invSegments, float32(z) * invSegments},
				Color:    white,
			})
		}
	}

	// Two triangles per quad
	perRow := uint32(segments + 1)
	for z := range uint32(segments) {
		row := z * perRow
		next := row + perRow
		for x := range uint32(segments) {
			i0 := row + x
			i1 := i0 + 1
			i2 := next + x
			i3 := i2 + 1
			b.Triangle(i0, i1, i2)
			b.Triangle(i1, i3, i2)
		}
	}

	return b.Mesh()
}
