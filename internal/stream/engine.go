// Package stream keeps the tiles around a moving origin materialised. A single
// background worker picks one tile to load and one to unload per cycle; the
// owning goroutine adopts finished tiles into the scene and retires evicted
// ones.
package stream

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/logger"
	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/world"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// Stats keys.
const (
	StatLoaded    = "loaded"
	StatLoading   = "loading"
	StatUnloading = "unloading"
	StatQueued    = "queued"
)

// Generator builds tile content. Generate runs on the worker goroutine and
// must not touch the scene.
type Generator interface {
	TileWidth() float32
	ViewDistance() int
	Generate(coord world.TileCoord) *scene.Node
}

// Scene receives adopted tiles. It is only called from the owning goroutine.
type Scene interface {
	Attach(n *scene.Node) bool
	Detach(n *scene.Node) bool
}

type generatorRef struct {
	Generator
}

// candidates is a distance sorted work list for one selection pass.
type candidates struct {
	list   []world.TileCoord
	index  int
	origin world.TileCoord
	valid  bool
}

func (c *candidates) stale(origin world.TileCoord) bool {
	return !c.valid || len(c.list) == 0 || c.origin != origin || c.index >= len(c.list)
}

func (c *candidates) reset() {
	*c = candidates{}
}

// Engine streams tiles. Start, Stop, ProcessChunks, Clear and RequestRestart
// belong to the owning goroutine. UpdateOrigin, Reload, SetGenerator,
// SetPollInterval and Stats may be called from anywhere.
type Engine struct {
	scene Scene
	gen   atomic.Pointer[generatorRef]
	poll  atomic.Int64 // time.Duration

	loading   *SafeMap[world.TileCoord, *Tile]
	loaded    *SafeMap[world.TileCoord, *Tile]
	unloading *SafeMap[world.TileCoord, *Tile]
	queue     *Queue[*Tile]
	// moves guards tiles moving between sets so readers never count one twice
	moves sync.RWMutex

	origin  atomic.Pointer[tmath.Vec3]
	reload  atomic.Bool
	stop    atomic.Bool
	restart atomic.Bool
	running atomic.Bool
	wg      sync.WaitGroup

	// Worker goroutine only
	load   candidates
	unload candidates

	log *zap.Logger
}

// NewEngine creates a stopped engine.
func NewEngine(gen Generator, sc Scene, poll time.Duration) *Engine {
	e := &Engine{
		scene:     sc,
		loading:   NewSafeMap[world.TileCoord, *Tile](),
		loaded:    NewSafeMap[world.TileCoord, *Tile](),
		unloading: NewSafeMap[world.TileCoord, *Tile](),
		queue:     NewQueue[*Tile](),
		log:       logger.Named("stream"),
	}
	e.gen.Store(&generatorRef{gen})
	e.poll.Store(int64(poll))
	return e
}

// SetPollInterval changes the sleep between worker cycles.
func (e *Engine) SetPollInterval(d time.Duration) {
	e.poll.Store(int64(d))
}

// SetGenerator swaps the generator used for tiles built from now on.
func (e *Engine) SetGenerator(gen Generator) {
	e.gen.Store(&generatorRef{gen})
}

func (e *Engine) generator() Generator {
	return e.gen.Load().Generator
}

// UpdateOrigin records the position tiles are streamed around. The worker
// does nothing until the first origin arrives.
func (e *Engine) UpdateOrigin(pos tmath.Vec3) {
	e.origin.Store(&pos)
}

// Start launches the worker if it is not running.
func (e *Engine) Start() {
	if e.running.Load() {
		return
	}
	e.dropStranded()
	e.stop.Store(false)
	e.load.reset()
	e.unload.reset()
	e.running.Store(true)
	e.wg.Add(1)
	go e.run()
}

// dropStranded destroys loading tiles that a stopped worker built but never
// queued, so the next worker regenerates them.
func (e *Engine) dropStranded() {
	queued := make(map[*Tile]bool)
	for _, t := range e.queue.Items() {
		queued[t] = true
	}
	for _, coord := range e.loading.Keys() {
		t, ok := e.loading.Get(coord)
		if !ok || queued[t] {
			continue
		}
		e.loading.Delete(coord)
		if t != nil {
			t.destroy()
		}
		e.log.Debug("dropped stranded tile", zap.Stringer("coord", coord))
	}
}

// Stop asks the worker to exit and waits for it.
func (e *Engine) Stop() {
	e.stop.Store(true)
	e.wg.Wait()
}

// Running reports whether the worker is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// RequestRestart asks the worker to stop without waiting. Once it has
// stopped, the next ProcessChunks clears every tile and starts a fresh worker.
func (e *Engine) RequestRestart() {
	e.restart.Store(true)
	e.stop.Store(true)
}

// Reload invalidates both candidate lists. Loaded tiles are kept.
func (e *Engine) Reload() {
	e.reload.Store(true)
}

func (e *Engine) run() {
	defer e.wg.Done()
	e.log.Info("streaming worker started", zap.Duration("poll", time.Duration(e.poll.Load())))

	for !e.stop.Load() {
		e.cycle()
		time.Sleep(time.Duration(e.poll.Load()))
	}

	e.log.Info("streaming worker stopped")
	e.running.Store(false)
}

// cycle is one worker iteration: at most one load and one unload.
func (e *Engine) cycle() {
	if e.reload.CompareAndSwap(true, false) {
		e.load.reset()
		e.unload.reset()
	}
	if origin := e.origin.Load(); origin != nil {
		e.loadStep(*origin)
		e.unloadStep(*origin)
	}
}

// present reports whether coord is in any tile set.
func (e *Engine) present(coord world.TileCoord) bool {
	e.moves.RLock()
	defer e.moves.RUnlock()
	return e.loading.Has(coord) || e.loaded.Has(coord) || e.unloading.Has(coord)
}

// loadStep builds at most one tile, nearest first.
func (e *Engine) loadStep(origin tmath.Vec3) {
	gen := e.generator()
	w := gen.TileWidth()
	center := world.TileAt(origin.X, origin.Z, w)

	if e.load.stale(center) {
		e.load = candidates{list: e.loadCandidates(center, gen.ViewDistance()), origin: center, valid: true}
	}
	if e.load.index >= len(e.load.list) {
		return
	}

	coord := e.load.list[e.load.index]
	if e.present(coord) {
		e.load.index++
		return
	}

	tile := newTile(coord, w, gen.Generate(coord))
	e.loading.Set(coord, tile)

	// Clear accounts for the tile through the loading set
	if e.stop.Load() {
		return
	}
	e.queue.Push(tile)
	e.load.index++
}

// loadCandidates returns the absent tiles within viewDistance of center,
// sorted by squared distance.
func (e *Engine) loadCandidates(center world.TileCoord, viewDistance int) []world.TileCoord {
	limit := viewDistance * viewDistance
	var list []world.TileCoord
	for z := -viewDistance; z <= viewDistance; z++ {
		for x := -viewDistance; x <= viewDistance; x++ {
			if x*x+z*z > limit {
				continue
			}
			c := world.TileCoord{X: center.X + x, Z: center.Z + z}
			if !e.present(c) {
				list = append(list, c)
			}
		}
	}
	slices.SortStableFunc(list, func(a, b world.TileCoord) int {
		return a.DistanceSq(center) - b.DistanceSq(center)
	})
	return list
}

// unloadStep moves at most one loaded tile outside the view distance to the
// unloading set, farthest first.
func (e *Engine) unloadStep(origin tmath.Vec3) {
	gen := e.generator()
	center := world.TileAt(origin.X, origin.Z, gen.TileWidth())

	if e.unload.stale(center) {
		e.unload = candidates{list: e.unloadCandidates(center, gen.ViewDistance()), origin: center, valid: true}
	}
	if e.unload.index >= len(e.unload.list) {
		return
	}

	coord := e.unload.list[e.unload.index]
	if tile, ok := e.loaded.Get(coord); ok {
		e.moves.Lock()
		e.loaded.Delete(coord)
		e.unloading.Set(coord, tile)
		e.moves.Unlock()
	}
	e.unload.index++
}

func (e *Engine) unloadCandidates(center world.TileCoord, viewDistance int) []world.TileCoord {
	limit := viewDistance * viewDistance
	var list []world.TileCoord
	for _, c := range e.loaded.Keys() {
		if t, ok := e.loaded.Get(c); !ok || t == nil {
			e.loaded.Delete(c)
			continue
		}
		if c.DistanceSq(center) > limit {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, func(a, b world.TileCoord) int {
		if d := b.DistanceSq(center) - a.DistanceSq(center); d != 0 {
			return d
		}
		if a.Z != b.Z {
			return a.Z - b.Z
		}
		return a.X - b.X
	})
	return list
}

// ProcessChunks runs the owning goroutine's share of a tick: adopt finished
// tiles, retire evicted ones, and restart the worker if a restart was
// requested and the worker has stopped.
func (e *Engine) ProcessChunks() {
	e.adopt()
	e.retire()

	if e.restart.Load() && !e.running.Load() {
		e.restart.Store(false)
		e.Clear()
		e.Start()
		e.log.Info("streaming worker restarted")
	}
}

// adopt drains the completion queue into the scene.
func (e *Engine) adopt() {
	for {
		tile, ok := e.queue.Pop()
		if !ok {
			return
		}
		current, ok := e.loading.Get(tile.Coord)
		if !ok || current != tile {
			e.log.Debug("discarding orphaned tile", zap.Stringer("coord", tile.Coord))
			tile.destroy()
			continue
		}
		if tile.Content == nil || tile.Content.Released() {
			e.loading.Delete(tile.Coord)
			tile.destroy()
			continue
		}

		tile.attached = e.scene.Attach(tile.Content)
		e.moves.Lock()
		e.loading.Delete(tile.Coord)
		e.loaded.Set(tile.Coord, tile)
		e.moves.Unlock()
	}
}

// retire destroys every tile in the unloading set.
func (e *Engine) retire() {
	for _, coord := range e.unloading.Keys() {
		if tile, ok := e.unloading.Get(coord); ok && tile != nil {
			e.release(tile)
		}
		e.unloading.Delete(coord)
	}
}

func (e *Engine) release(t *Tile) {
	if t.attached {
		e.scene.Detach(t.Content)
		t.attached = false
	}
	t.destroy()
}

// Clear detaches and destroys every tile in every set and in the queue. Call
// it only while the worker is stopped.
func (e *Engine) Clear() {
	counts := e.Stats()
	for _, set := range []*SafeMap[world.TileCoord, *Tile]{e.loaded, e.loading, e.unloading} {
		for _, t := range set.Values() {
			if t != nil {
				e.release(t)
			}
		}
		set.Clear()
	}
	for {
		t, ok := e.queue.Pop()
		if !ok {
			break
		}
		t.destroy()
	}
	e.log.Info("cleared tiles",
		zap.Int(StatLoaded, counts[StatLoaded]),
		zap.Int(StatLoading, counts[StatLoading]),
		zap.Int(StatUnloading, counts[StatUnloading]),
		zap.Int(StatQueued, counts[StatQueued]))
}

// Stats returns the current tile counts.
func (e *Engine) Stats() map[string]int {
	e.moves.RLock()
	defer e.moves.RUnlock()
	return map[string]int{
		StatLoaded:    e.loaded.Len(),
		StatLoading:   e.loading.Len(),
		StatUnloading: e.unloading.Len(),
		StatQueued:    e.queue.Len(),
	}
}

// Loaded returns a snapshot of the loaded coordinates.
func (e *Engine) Loaded() []world.TileCoord {
	return e.loaded.Keys()
}

// Tile returns the loaded tile at coord.
func (e *Engine) Tile(coord world.TileCoord) (*Tile, bool) {
	return e.loaded.Get(coord)
}
