// Package world holds tile coordinates and world-space rectangles shared by
// the generation and streaming packages.
package world

import (
	"fmt"
	"math"

	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// TileCoord identifies a square tile of the infinite terrain plane.
type TileCoord struct {
	X, Z int
}

func (c TileCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// TileAt returns the tile nearest to a world position.
func TileAt(x, z, tileWidth float32) TileCoord {
	return TileCoord{
		X: int(math.Round(float64(x / tileWidth))),
		Z: int(math.Round(float64(z / tileWidth))),
	}
}

// TileContaining returns the tile whose bounds contain a world position.
func TileContaining(x, z, tileWidth float32) TileCoord {
	return TileCoord{
		X: int(math.Floor(float64(x / tileWidth))),
		Z: int(math.Floor(float64(z / tileWidth))),
	}
}

// DistanceSq returns the squared distance in tiles.
func (c TileCoord) DistanceSq(other TileCoord) int {
	dx := c.X - other.X
	dz := c.Z - other.Z
	return dx*dx + dz*dz
}

// Origin returns the world position of the tile's minimum corner.
func (c TileCoord) Origin(tileWidth float32) tmath.Vec2 {
	return tmath.Vec2{X: float32(c.X) * tileWidth, Y: float32(c.Z) * tileWidth}
}

// Bounds returns the world rectangle the tile covers.
func (c TileCoord) Bounds(tileWidth float32) Rect {
	o := c.Origin(tileWidth)
	return Rect{Min: o, Max: tmath.Vec2{X: o.X + tileWidth, Y: o.Y + tileWidth}}
}

// Rect is an axis-aligned rectangle on the XZ plane.
type Rect struct {
	Min, Max tmath.Vec2
}

// RectAround returns the bounding box of two points.
func RectAround(a, b tmath.Vec2) Rect {
	return Rect{
		Min: tmath.Vec2{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: tmath.Vec2{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float32) Rect {
	return Rect{
		Min: tmath.Vec2{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: tmath.Vec2{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}

// Intersects reports whether two rectangles overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.Max.X >= o.Min.X && r.Min.X <= o.Max.X &&
		r.Max.Y >= o.Min.Y && r.Min.Y <= o.Max.Y
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p tmath.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
