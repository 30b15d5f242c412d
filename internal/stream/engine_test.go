package stream

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

type fakeGenerator struct {
	viewDistance int
	calls        atomic.Int64
	onGenerate   func(world.TileCoord)
}

func (g *fakeGenerator) TileWidth() float32 { return 10 }
func (g *fakeGenerator) ViewDistance() int  { return g.viewDistance }

func (g *fakeGenerator) Generate(coord world.TileCoord) *scene.Node {
	g.calls.Add(1)
	if g.onGenerate != nil {
		g.onGenerate(coord)
	}
	return scene.NewNode(coord.String(), scene.KindTerrain)
}

func newTestEngine(viewDistance int) (*Engine, *fakeGenerator, *scene.Graph) {
	gen := &fakeGenerator{viewDistance: viewDistance}
	g := scene.NewGraph()
	return NewEngine(gen, g, time.Millisecond), gen, g
}

// tilesWithin counts coordinates with x²+z² <= r².
func tilesWithin(r int) int {
	n := 0
	for z := -r; z <= r; z++ {
		for x := -r; x <= r; x++ {
			if x*x+z*z <= r*r {
				n++
			}
		}
	}
	return n
}

// queuedCoords returns the coordinates waiting in the completion queue.
func queuedCoords(e *Engine) []world.TileCoord {
	var out []world.TileCoord
	for _, t := range e.queue.Items() {
		out = append(out, t.Coord)
	}
	return out
}

func allWithin(e *Engine, center world.TileCoord, r int) bool {
	for _, c := range e.Loaded() {
		if c.DistanceSq(center) > r*r {
			return false
		}
	}
	return true
}

func requireDisjoint(t *testing.T, e *Engine) {
	t.Helper()
	seen := map[world.TileCoord]string{}
	for name, set := range map[string]*SafeMap[world.TileCoord, *Tile]{
		StatLoading: e.loading, StatLoaded: e.loaded, StatUnloading: e.unloading,
	} {
		for _, c := range set.Keys() {
			if prev, ok := seen[c]; ok {
				t.Fatalf("tile %v is in both %s and %s", c, prev, name)
			}
			seen[c] = name
		}
	}
}

func TestTilesWithin(t *testing.T) {
	require.Equal(t, 1, tilesWithin(0))
	require.Equal(t, 5, tilesWithin(1))
	require.Equal(t, 13, tilesWithin(2))
	require.Equal(t, 29, tilesWithin(3))
}

func TestLoadOrdering(t *testing.T) {
	e, _, _ := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{})

	for range tilesWithin(2) {
		e.cycle()
	}
	order := queuedCoords(e)
	require.Len(t, order, 13)

	center := world.TileCoord{}
	require.Equal(t, center, order[0])
	for i := 1; i <= 4; i++ {
		require.Equal(t, 1, order[i].DistanceSq(center), "position %d", i)
	}
	for i := 1; i < len(order); i++ {
		require.LessOrEqual(t, order[i-1].DistanceSq(center), order[i].DistanceSq(center))
	}
	require.Contains(t, order[5:9], world.TileCoord{X: 1, Z: 1})
}

func TestLoadPopulatesExactlyViewDistance(t *testing.T) {
	e, gen, g := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{X: 31, Z: -19}) // Tile (3,-2)

	for range 50 {
		e.cycle()
		e.ProcessChunks()
		requireDisjoint(t, e)
	}

	center := world.TileCoord{X: 3, Z: -2}
	loaded := e.Loaded()
	require.Len(t, loaded, 13)
	for _, c := range loaded {
		require.LessOrEqual(t, c.DistanceSq(center), 4)
	}
	require.Equal(t, int64(13), gen.calls.Load())
	require.Equal(t, 13, g.Len())
	require.Equal(t, map[string]int{StatLoaded: 13, StatLoading: 0, StatUnloading: 0, StatQueued: 0}, e.Stats())

	tile, ok := e.Tile(center)
	require.True(t, ok)
	require.True(t, tile.Attached())
	require.Equal(t, tmath.Vec3{X: 30, Z: -20}, tile.Position)
}

func TestUnloadEmptiesWorld(t *testing.T) {
	e, _, g := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{})
	for range 13 {
		e.loadStep(tmath.Vec3{})
	}
	e.ProcessChunks()
	require.Equal(t, 13, e.loaded.Len())
	tiles := e.loaded.Values()

	far := tmath.Vec3{X: 1000, Z: 1000}
	var prevDist = 1 << 30
	center := world.TileAt(far.X, far.Z, 10)
	for range 13 {
		before := e.unloading.Len()
		e.unloadStep(far)
		require.Equal(t, before+1, e.unloading.Len())
		requireDisjoint(t, e)

		moved := e.unload.list[e.unload.index-1]
		d := moved.DistanceSq(center)
		require.LessOrEqual(t, d, prevDist, "farthest first")
		prevDist = d
	}
	require.Zero(t, e.loaded.Len())

	e.ProcessChunks()
	require.Zero(t, e.unloading.Len())
	require.Zero(t, g.Len())
	for _, tile := range tiles {
		require.True(t, tile.Destroyed())
		require.False(t, tile.Attached())
		require.True(t, tile.Content.Released())
	}
}

func TestMovingOriginKeepsPartition(t *testing.T) {
	e, _, g := newTestEngine(3)
	for step := range 200 {
		e.UpdateOrigin(tmath.Vec3{X: float32(step) * 2.5, Z: float32(step%7) * 3})
		e.cycle()
		if step%3 == 0 {
			e.ProcessChunks()
		}
		requireDisjoint(t, e)
	}
	e.ProcessChunks()
	require.Equal(t, e.loaded.Len(), g.Len())
}

func TestOrphanedTileDestroyed(t *testing.T) {
	e, _, g := newTestEngine(1)
	coord := world.TileCoord{X: 4, Z: 4}

	stray := newTile(coord, 10, scene.NewNode("stray", scene.KindTerrain))
	e.queue.Push(stray)
	e.ProcessChunks()
	require.True(t, stray.Destroyed())
	require.Zero(t, g.Len())
	require.Zero(t, e.loaded.Len())

	// A queued tile replaced in the loading set is also orphaned
	owner := newTile(coord, 10, scene.NewNode("owner", scene.KindTerrain))
	old := newTile(coord, 10, scene.NewNode("old", scene.KindTerrain))
	e.loading.Set(coord, owner)
	e.queue.Push(old)
	e.ProcessChunks()
	require.True(t, old.Destroyed())
	require.False(t, owner.Destroyed())
	require.True(t, e.loading.Has(coord))
}

func TestNilContentDropped(t *testing.T) {
	e, _, g := newTestEngine(1)
	coord := world.TileCoord{X: 1}
	tile := newTile(coord, 10, nil)
	e.loading.Set(coord, tile)
	e.queue.Push(tile)

	e.ProcessChunks()
	require.False(t, e.loading.Has(coord))
	require.False(t, e.loaded.Has(coord))
	require.Zero(t, g.Len())
}

func TestClear(t *testing.T) {
	e, _, g := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{})
	for range 5 {
		e.cycle()
	}
	e.ProcessChunks()
	for range 3 {
		e.cycle()
	}
	// One loaded tile pending unload
	coord := e.Loaded()[0]
	unloading, _ := e.loaded.Get(coord)
	e.loaded.Delete(coord)
	e.unloading.Set(coord, unloading)

	all := append(append(e.loaded.Values(), e.loading.Values()...), unloading)
	require.Equal(t, 3, e.queue.Len())

	e.Clear()
	require.Equal(t, map[string]int{StatLoaded: 0, StatLoading: 0, StatUnloading: 0, StatQueued: 0}, e.Stats())
	require.Zero(t, g.Len())
	for _, tile := range all {
		require.True(t, tile.Destroyed())
		require.False(t, tile.Attached())
	}
}

func TestStopBeforeEnqueue(t *testing.T) {
	e, gen, _ := newTestEngine(1)
	gen.onGenerate = func(world.TileCoord) { e.stop.Store(true) }
	e.UpdateOrigin(tmath.Vec3{})

	e.loadStep(tmath.Vec3{})
	require.Equal(t, 1, e.loading.Len())
	require.Zero(t, e.queue.Len())

	tile, _ := e.loading.Get(world.TileCoord{})
	e.Clear()
	require.True(t, tile.Destroyed())
}

func TestStopMidGenerationThenStart(t *testing.T) {
	e, gen, _ := newTestEngine(1)
	center := world.TileCoord{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var blocked atomic.Bool
	gen.onGenerate = func(c world.TileCoord) {
		if c == center && blocked.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	}

	e.UpdateOrigin(tmath.Vec3{})
	e.Start()
	<-entered

	stopped := make(chan struct{})
	go func() {
		e.Stop()
		close(stopped)
	}()
	require.Eventually(t, e.stop.Load, time.Second, time.Millisecond)
	close(release)
	<-stopped

	require.Equal(t, 1, e.loading.Len())
	require.Zero(t, e.queue.Len())
	stranded, _ := e.loading.Get(center)

	e.Start()
	defer e.Stop()
	require.True(t, stranded.Destroyed())
	require.Eventually(t, func() bool {
		e.ProcessChunks()
		return e.loaded.Len() == tilesWithin(1)
	}, 5*time.Second, time.Millisecond)

	tile, ok := e.Tile(center)
	require.True(t, ok)
	require.NotSame(t, stranded, tile)
}

func TestStartKeepsQueuedTiles(t *testing.T) {
	e, _, graph := newTestEngine(1)
	e.UpdateOrigin(tmath.Vec3{})
	e.loadStep(tmath.Vec3{})
	require.Equal(t, 1, e.queue.Len())

	e.dropStranded()
	require.Equal(t, 1, e.loading.Len())
	e.ProcessChunks()
	require.Equal(t, 1, e.loaded.Len())
	require.Equal(t, 1, graph.Len())
}

func TestStatsNeverCountsTileTwice(t *testing.T) {
	e, _, _ := newTestEngine(3)
	total := tilesWithin(3)
	e.UpdateOrigin(tmath.Vec3{})
	for range total {
		e.loadStep(tmath.Vec3{})
	}
	require.Equal(t, total, e.queue.Len())

	done := make(chan struct{})
	over := make(chan map[string]int, 1)
	go func() {
		for {
			select {
			case <-done:
				close(over)
				return
			default:
			}
			s := e.Stats()
			if s[StatLoaded]+s[StatLoading] > total {
				over <- s
				close(over)
				return
			}
		}
	}()
	for range total {
		e.adopt()
	}
	close(done)
	if s, ok := <-over; ok {
		t.Fatalf("stats counted a tile twice: %v", s)
	}
	require.Equal(t, total, e.loaded.Len())
}

func TestReloadResetsCandidates(t *testing.T) {
	tests := []struct {
		name    string
		reload  bool
		loading int
	}{
		{"stale list keeps going", false, 2},
		{"reload recomputes", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(2)
			e.UpdateOrigin(tmath.Vec3{})
			e.cycle()
			require.Equal(t, 1, e.loading.Len())

			e.SetGenerator(&fakeGenerator{viewDistance: 0})
			if tt.reload {
				e.Reload()
			}
			e.cycle()
			require.Equal(t, tt.loading, e.loading.Len())
		})
	}
}

func TestWorkerIdleWithoutOrigin(t *testing.T) {
	e, gen, _ := newTestEngine(1)
	e.Start()
	defer e.Stop()

	require.Never(t, func() bool { return gen.calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	e.UpdateOrigin(tmath.Vec3{})
	require.Eventually(t, func() bool { return gen.calls.Load() > 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestWorkerStreams(t *testing.T) {
	e, _, g := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{})
	e.Start()
	require.True(t, e.Running())

	require.Eventually(t, func() bool {
		e.ProcessChunks()
		return e.loaded.Len() == 13
	}, 5*time.Second, 5*time.Millisecond)

	// Moving far away replaces every tile
	first, _ := e.Tile(world.TileCoord{})
	e.UpdateOrigin(tmath.Vec3{X: 500})
	require.Eventually(t, func() bool {
		e.ProcessChunks()
		return e.loaded.Len() == 13 && e.unloading.Len() == 0 && allWithin(e, world.TileCoord{X: 50}, 2)
	}, 5*time.Second, 5*time.Millisecond)
	require.True(t, first.Destroyed())

	e.Stop()
	require.False(t, e.Running())
	e.Clear()
	require.Zero(t, g.Len())
}

func TestRequestRestart(t *testing.T) {
	e, _, g := newTestEngine(2)
	e.UpdateOrigin(tmath.Vec3{})
	e.Start()
	defer e.Stop()

	require.Eventually(t, func() bool {
		e.ProcessChunks()
		return e.loaded.Len() == 13
	}, 5*time.Second, 5*time.Millisecond)
	before, _ := e.Tile(world.TileCoord{})

	e.SetGenerator(&fakeGenerator{viewDistance: 1})
	e.RequestRestart()
	require.Eventually(t, func() bool {
		e.ProcessChunks()
		return e.Running() && !e.restart.Load() && e.loaded.Len() == 5
	}, 5*time.Second, 5*time.Millisecond)

	require.True(t, before.Destroyed())
	after, ok := e.Tile(world.TileCoord{})
	require.True(t, ok)
	require.NotSame(t, before, after)
	require.Equal(t, 5, g.Len())
}
