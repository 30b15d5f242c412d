// Package terrain is the top-level terrain node. It owns the active config,
// builds the generation pipeline and drives the streaming engine once per
// tick.
package terrain

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/logger"
	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/stream"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// Node streams terrain into a scene graph. Apply, Update, Start and Close
// must be called from the goroutine that owns the graph.
type Node struct {
	cfg      *config.Config
	graph    *scene.Graph
	pipeline atomic.Pointer[Pipeline]
	engine   *stream.Engine
	log      *zap.Logger
}

// New validates cfg and builds a stopped node.
func New(cfg *config.Config, graph *scene.Graph) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("building terrain pipeline: %w", err)
	}
	return newNode(cfg, graph, p), nil
}

func newNode(cfg *config.Config, graph *scene.Graph, p *Pipeline) *Node {
	n := &Node{
		cfg:    cfg,
		graph:  graph,
		engine: stream.NewEngine(p, graph, cfg.Streaming.PollInterval),
		log:    logger.Named("terrain"),
	}
	n.pipeline.Store(p)
	return n
}

// Config returns the active config. Callers must not modify it; use Clone
// and Apply instead.
func (n *Node) Config() *config.Config {
	return n.cfg
}

// Pipeline returns the active generation pipeline.
func (n *Node) Pipeline() *Pipeline {
	return n.pipeline.Load()
}

// Start launches the streaming worker.
func (n *Node) Start() {
	n.engine.Start()
}

// Apply switches to next. Structural changes restart streaming from scratch,
// tunable changes regenerate candidates around the origin and cosmetic
// changes only affect tiles generated from now on.
func (n *Node) Apply(next *config.Config) (config.Change, error) {
	if err := next.Validate(); err != nil {
		return config.ChangeNone, err
	}
	change := config.Classify(n.cfg, next)
	if change == config.ChangeNone {
		n.cfg = next
		return change, nil
	}

	p, err := NewPipeline(next)
	if err != nil {
		return config.ChangeNone, fmt.Errorf("building terrain pipeline: %w", err)
	}
	n.cfg = next
	n.pipeline.Store(p)
	n.engine.SetGenerator(p)
	n.engine.SetPollInterval(next.Streaming.PollInterval)

	switch change {
	case config.ChangeStructural:
		if n.engine.Running() {
			n.engine.RequestRestart()
		} else {
			n.engine.Clear()
		}
	case config.ChangeTunable:
		n.engine.Reload()
	}
	n.log.Info("config applied", zap.Stringer("change", change))
	return change, nil
}

// Update records the origin and runs the owning goroutine's streaming work.
func (n *Node) Update(origin tmath.Vec3) {
	n.engine.UpdateOrigin(origin)
	n.engine.ProcessChunks()
}

// ReloadChunks regenerates candidates without evicting loaded tiles.
func (n *Node) ReloadChunks() {
	n.engine.Reload()
}

// ChunkStats returns tile counts keyed by state.
func (n *Node) ChunkStats() map[string]int {
	return n.engine.Stats()
}

// Running reports whether the streaming worker is active.
func (n *Node) Running() bool {
	return n.engine.Running()
}

// LoadedTile returns the scene node of a loaded tile.
func (n *Node) LoadedTile(coord world.TileCoord) (*scene.Node, bool) {
	t, ok := n.engine.Tile(coord)
	if !ok {
		return nil, false
	}
	return t.Content, true
}

// SampleHeight returns the uncarved terrain height.
func (n *Node) SampleHeight(x, z float32) float32 {
	return n.Pipeline().field.SampleHeight(x, z)
}

// SampleCarvedHeight returns the height with nearby rivers carved in.
func (n *Node) SampleCarvedHeight(x, z float32) float32 {
	p := n.Pipeline()
	if !p.cfg.Rivers.EnableCarving {
		return p.field.SampleHeight(x, z)
	}
	coord := world.TileContaining(x, z, p.cfg.Terrain.TileWidth)
	return p.field.SampleHeightWithRivers(x, z, p.rivers.SegmentsForCarving(coord))
}

// SampleNormal returns the terrain normal.
func (n *Node) SampleNormal(x, z float32) tmath.Vec3 {
	return n.Pipeline().field.SampleNormal(x, z)
}

// Close stops the worker and destroys every tile.
func (n *Node) Close() {
	n.engine.Stop()
	n.engine.Clear()
}
