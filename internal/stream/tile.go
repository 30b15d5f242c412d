package stream

import (
	"sync/atomic"

	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// Tile is one streamed unit of terrain. It is owned by exactly one of the
// engine's loading, loaded or unloading sets, or by the completion queue.
type Tile struct {
	Coord    world.TileCoord
	Position tmath.Vec3 // World position of the tile origin
	Content  *scene.Node

	attached  bool // Owning goroutine only
	destroyed atomic.Bool
}

func newTile(coord world.TileCoord, tileWidth float32, content *scene.Node) *Tile {
	o := coord.Origin(tileWidth)
	return &Tile{
		Coord:    coord,
		Position: tmath.Vec3{X: o.X, Z: o.Y},
		Content:  content,
	}
}

// Attached reports whether the tile is in the scene.
func (t *Tile) Attached() bool {
	return t.attached
}

// Destroyed reports whether the tile content has been released.
func (t *Tile) Destroyed() bool {
	return t.destroyed.Load()
}

// destroy releases the content once. Later calls are no-ops.
func (t *Tile) destroy() {
	if !t.destroyed.CompareAndSwap(false, true) {
		return
	}
	if t.Content != nil {
		t.Content.Release()
	}
}
