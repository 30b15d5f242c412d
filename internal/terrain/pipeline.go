package terrain

import (
	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/foliage"
	"github.com/Faultbox/terrastream/internal/heightfield"
	"github.com/Faultbox/terrastream/internal/mesh"
	"github.com/Faultbox/terrastream/internal/river"
	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

const (
	markerSize = 1
	// debugLift raises debug river strips above the averaged segment height.
	debugLift = 1
)

// Pipeline builds tile content for one immutable config snapshot. It
// implements stream.Generator and is safe for concurrent use.
type Pipeline struct {
	cfg     *config.Config
	field   *heightfield.Field
	rivers  *river.Network
	foliage *foliage.Scatter
}

// NewPipeline builds the height field, river network and foliage scatter
// for cfg.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	field, err := heightfield.New(cfg)
	if err != nil {
		return nil, err
	}
	rivers, err := river.New(cfg, field)
	if err != nil {
		return nil, err
	}
	return newPipeline(cfg, field, rivers), nil
}

func newPipeline(cfg *config.Config, field *heightfield.Field, rivers *river.Network) *Pipeline {
	return &Pipeline{cfg: cfg, field: field, rivers: rivers, foliage: foliage.New(cfg)}
}

// Config returns the snapshot the pipeline was built from.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Field returns the height field.
func (p *Pipeline) Field() *heightfield.Field {
	return p.field
}

// Rivers returns the river network.
func (p *Pipeline) Rivers() *river.Network {
	return p.rivers
}

// TileWidth implements stream.Generator.
func (p *Pipeline) TileWidth() float32 {
	return p.cfg.Terrain.TileWidth
}

// ViewDistance implements stream.Generator.
func (p *Pipeline) ViewDistance() int {
	return p.cfg.Terrain.ViewDistance
}

// Generate builds the scene node of one tile: the carved surface mesh,
// foliage, debug source markers and either water ribbons or debug river
// strips. The node is positioned at the tile origin; children are local.
func (p *Pipeline) Generate(coord world.TileCoord) *scene.Node {
	cfg := p.cfg
	origin := coord.Origin(cfg.Terrain.TileWidth)

	var carve, exclude []river.Segment
	if cfg.Rivers.EnableCarving {
		carve = p.rivers.SegmentsForCarving(coord)
	}
	if p.foliage.Enabled() {
		exclude = p.rivers.SegmentsForFoliage(coord)
	}

	tile := scene.NewNode("tile "+coord.String(), scene.KindTerrain)
	tile.Position = tmath.Vec3{X: origin.X, Z: origin.Y}
	tile.Mesh = mesh.BuildTile(p.field.PrecomputeHeights(coord, carve))
	tile.Material = cfg.Materials.Terrain

	surface := carvedSurface{field: p.field, segs: carve}
	for _, inst := range p.foliage.Place(coord, surface, exclude) {
		n := scene.NewNode("foliage", scene.KindFoliage)
		n.Position = inst.Position
		n.Rotation = inst.Rotation
		n.Material = cfg.Foliage.Model
		tile.AddChild(n)
	}

	for _, m := range p.rivers.SourceMarkers(coord) {
		n := scene.NewNode("source", scene.KindMarker)
		n.Mesh = mesh.BuildMarker(m, markerSize)
		tile.AddChild(n)
	}

	if cfg.RiverMesh.Enabled {
		for _, r := range p.rivers.Ribbons(coord, surface.SampleHeight) {
			n := scene.NewNode("river", scene.KindWater)
			n.Mesh = r.Mesh
			n.Material = cfg.Materials.River
			tile.AddChild(n)
		}
	} else {
		for _, s := range p.rivers.SegmentsForChunk(coord) {
			y := (s.StartHeight+s.EndHeight)*0.5 + debugLift
			n := scene.NewNode("river debug", scene.KindWater)
			n.Mesh = mesh.BuildStrip(s.Start.Sub(origin), s.End.Sub(origin), y, s.Width)
			tile.AddChild(n)
		}
	}
	return tile
}

// carvedSurface samples carved heights with uncarved normals.
type carvedSurface struct {
	field *heightfield.Field
	segs  []river.Segment
}

func (s carvedSurface) SampleHeight(x, z float32) float32 {
	return s.field.SampleHeightWithRivers(x, z, s.segs)
}

func (s carvedSurface) SampleNormal(x, z float32) tmath.Vec3 {
	return s.field.SampleNormal(x, z)
}
