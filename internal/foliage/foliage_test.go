package foliage

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/river"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

type surface struct {
	height float32
	normal tmath.Vec3
}

func (s surface) SampleHeight(x, z float32) float32    { return s.height }
func (s surface) SampleNormal(x, z float32) tmath.Vec3 { return s.normal }

var flat = surface{height: 5, normal: tmath.Up}

func foliageConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.TileWidth = 100
	cfg.Foliage.Model = "tree"
	cfg.Foliage.Seed = 7
	return cfg
}

func TestPoissonDiscSpacing(t *testing.T) {
	pts := PoissonDisc(100, 60, 8, 30, rand.New(rand.NewPCG(1, 2)))
	require.Greater(t, len(pts), 20)

	for i, p := range pts {
		require.True(t, p.X >= 0 && p.X < 100 && p.Y >= 0 && p.Y < 60, "point %d out of bounds: %v", i, p)
		for j := i + 1; j < len(pts); j++ {
			require.GreaterOrEqual(t, p.Distance(pts[j]), float32(8), "points %d and %d too close", i, j)
		}
	}
}

func TestPoissonDiscDeterministic(t *testing.T) {
	a := PoissonDisc(50, 50, 5, 30, rand.New(rand.NewPCG(3, 4)))
	b := PoissonDisc(50, 50, 5, 30, rand.New(rand.NewPCG(3, 4)))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different points:\n%s", diff)
	}
}

func TestPoissonDiscInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	tests := []struct {
		name          string
		width, height float32
		radius        float32
		k             int
	}{
		{"zero width", 0, 10, 1, 30},
		{"zero radius", 10, 10, 0, 30},
		{"no attempts", 10, 10, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Nil(t, PoissonDisc(tt.width, tt.height, tt.radius, tt.k, rng))
		})
	}
}

func TestRandomFloat(t *testing.T) {
	p := tmath.Vec2{X: 12.5, Y: -3.25}
	v := RandomFloat(p, 0)
	require.GreaterOrEqual(t, v, float32(0))
	require.LessOrEqual(t, v, float32(1))
	require.Equal(t, v, RandomFloat(p, 0))
	require.NotEqual(t, v, RandomFloat(p, 1))

	// Positions are quantised to millimetres
	require.Equal(t, RandomFloat(tmath.Vec2{X: 1.0001, Y: 2}, 0), RandomFloat(tmath.Vec2{X: 1.0002, Y: 2}, 0))
	require.NotEqual(t, RandomFloat(tmath.Vec2{X: 1, Y: 2}, 0), RandomFloat(tmath.Vec2{X: 2, Y: 1}, 0))
}

func TestPlaceDisabled(t *testing.T) {
	cfg := foliageConfig()
	cfg.Foliage.Model = ""
	s := New(cfg)
	require.False(t, s.Enabled())
	require.Nil(t, s.Place(world.TileCoord{}, flat, nil))
}

func TestPlace(t *testing.T) {
	cfg := foliageConfig()
	s := New(cfg)
	coord := world.TileCoord{X: -2, Z: 3}

	got := s.Place(coord, flat, nil)
	require.NotEmpty(t, got)
	require.Empty(t, cmp.Diff(got, s.Place(coord, flat, nil)), "placement must be deterministic")

	w := cfg.Terrain.TileWidth
	for _, inst := range got {
		require.Equal(t, flat.height, inst.Position.Y)
		require.True(t, inst.Position.X >= 0 && inst.Position.X < w+maxShift)
		require.True(t, inst.Position.Z >= 0 && inst.Position.Z < w+maxShift)
		require.True(t, inst.Rotation >= 0 && inst.Rotation <= 2*math.Pi)
	}
}

func TestPlaceSuitability(t *testing.T) {
	cfg := foliageConfig()
	tests := []struct {
		name    string
		surface surface
		empty   bool
	}{
		{"flat", flat, false},
		{"steep", surface{height: 5, normal: tmath.Vec3{X: 0.8, Y: 0.6}}, true},
		{"underwater", surface{height: -20, normal: tmath.Up}, true},
		{"at min height", surface{height: cfg.Foliage.MinHeight, normal: tmath.Up}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(cfg).Place(world.TileCoord{}, tt.surface, nil)
			require.Equal(t, tt.empty, len(got) == 0)
		})
	}
}

func TestPlaceRiverExclusion(t *testing.T) {
	cfg := foliageConfig()
	s := New(cfg)
	coord := world.TileCoord{X: 1, Z: 1}
	origin := coord.Origin(cfg.Terrain.TileWidth)

	seg := river.Segment{
		Start: tmath.Vec2{X: origin.X, Y: origin.Y + 50},
		End:   tmath.Vec2{X: origin.X + 100, Y: origin.Y + 50},
		Width: 6,
	}
	all := s.Place(coord, flat, nil)
	kept := s.Place(coord, flat, []river.Segment{seg})
	require.Less(t, len(kept), len(all))

	limit := cfg.Foliage.ExclusionRadius + seg.Width*0.5
	for _, inst := range kept {
		p := origin.Add(tmath.Vec2{X: inst.Position.X, Y: inst.Position.Z})
		d, _ := tmath.DistanceToSegment(p, seg.Start, seg.End)
		require.Greater(t, d, limit)
	}

	wide := seg
	wide.Width = 1000
	require.Empty(t, s.Place(coord, flat, []river.Segment{wide}))
}
