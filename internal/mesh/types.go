// Package mesh builds renderable vertex and index buffers for terrain tiles,
// water ribbons and debug markers.
package mesh

import tmath "github.com/Faultbox/terrastream/pkg/math"

// Vertex represents a mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// Mesh holds vertex and index data ready for GPU upload. Positions are local
// to the owning tile.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

var (
	white = [4]float32{1, 1, 1, 1}
	up    = [3]float32{0, 1, 0}
)

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Builder accumulates vertices and keeps bounds current.
type Builder struct {
	mesh Mesh
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{mesh: Mesh{Bounds: emptyBounds()}}
}

// Add appends a vertex and returns its index.
func (b *Builder) Add(v Vertex) uint32 {
	idx := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	updateBounds(&b.mesh.Bounds, v.Position)
	return idx
}

// Triangle appends one triangle.
func (b *Builder) Triangle(i0, i1, i2 uint32) {
	b.mesh.Indices = append(b.mesh.Indices, i0, i1, i2)
}

// VertexCount returns the number of vertices added so far.
func (b *Builder) VertexCount() int {
	return len(b.mesh.Vertices)
}

// Mesh returns the built mesh.
func (b *Builder) Mesh() *Mesh {
	m := b.mesh
	return &m
}

// HeightGrid is a square height sample grid with one extra ring of samples
// around the visible tile.
type HeightGrid interface {
	// Segments returns the number of quads per tile edge.
	Segments() int
	// Step returns the world distance between samples.
	Step() float32
	// At returns the height at sample (x, z) for x, z in [-1, Segments()+1].
	At(x, z int) float32
}

func vec3(v tmath.Vec3) [3]float32 {
	return v.Array()
}
