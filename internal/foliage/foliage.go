// Package foliage scatters vegetation instances over a tile, skipping steep
// or submerged ground and the banks of nearby rivers.
package foliage

import (
	"math"
	"math/rand/v2"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/river"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// maxShift is the largest jitter applied to a disc sample on each axis.
const maxShift = 5

// Surface is the terrain queried for placement.
type Surface interface {
	SampleHeight(x, z float32) float32
	SampleNormal(x, z float32) tmath.Vec3
}

// Instance is one placed model. Position X and Z are tile-local, Y is the
// terrain height. Rotation is around the Y axis in radians.
type Instance struct {
	Position tmath.Vec3
	Rotation float32
}

// Scatter places foliage for one config snapshot. It is safe for concurrent
// use.
type Scatter struct {
	cfg *config.Config
}

// New returns a scatter for cfg.
func New(cfg *config.Config) *Scatter {
	return &Scatter{cfg: cfg}
}

// Enabled reports whether a foliage model is configured.
func (s *Scatter) Enabled() bool {
	return s.cfg.Foliage.Model != ""
}

// Place returns the instances for a tile, sampling height and slope from
// surface. Positions within the exclusion radius plus half the width of any
// river segment are skipped. The result depends only on the coordinate, the
// surface, the segments and the config.
func (s *Scatter) Place(coord world.TileCoord, surface Surface, rivers []river.Segment) []Instance {
	if !s.Enabled() {
		return nil
	}
	f := s.cfg.Foliage
	w := s.cfg.Terrain.TileWidth
	origin := coord.Origin(w)

	rng := rand.New(rand.NewPCG(f.Seed, tileStream(coord)))
	seed := uint32(f.Seed)

	var out []Instance
	for _, p := range PoissonDisc(w, w, f.Spacing, f.Attempts, rng) {
		shifted := tmath.Vec2{
			X: p.X + RandomFloat(origin.Add(p.Scale(0.5)), seed)*maxShift,
			Y: p.Y + RandomFloat(origin.Add(p), seed)*maxShift,
		}
		wp := origin.Add(shifted)
		if s.nearRiver(wp, rivers) {
			continue
		}

		height := surface.SampleHeight(wp.X, wp.Y)
		normal := surface.SampleNormal(wp.X, wp.Y)
		if !s.suitable(height, normal) {
			continue
		}

		out = append(out, Instance{
			Position: tmath.Vec3{X: shifted.X, Y: height, Z: shifted.Y},
			Rotation: RandomFloat(shifted, seed) * 2 * math.Pi,
		})
	}
	return out
}

func (s *Scatter) suitable(height float32, normal tmath.Vec3) bool {
	f := s.cfg.Foliage
	return height >= f.MinHeight && normal.Y >= f.MinNormalY
}

func (s *Scatter) nearRiver(p tmath.Vec2, rivers []river.Segment) bool {
	exclusion := s.cfg.Foliage.ExclusionRadius
	for _, seg := range rivers {
		d, _ := tmath.DistanceToSegment(p, seg.Start, seg.End)
		if d <= exclusion+seg.Width*0.5 {
			return true
		}
	}
	return false
}

// tileStream derives a PCG stream selector from a tile coordinate.
func tileStream(c world.TileCoord) uint64 {
	return uint64(uint32(int32(c.X)))<<32 | uint64(uint32(int32(c.Z)))
}
