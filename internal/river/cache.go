package river

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// pathCache holds traced paths keyed by source id, evicting the least
// recently used entry when full. A non-positive limit disables caching.
type pathCache struct {
	paths  *lru.Cache[int64, Path]
	hits   atomic.Int64
	misses atomic.Int64
}

func newPathCache(limit int) *pathCache {
	c := &pathCache{}
	if limit > 0 {
		// lru.New only fails for a non-positive size
		c.paths, _ = lru.New[int64, Path](limit)
	}
	return c
}

func (c *pathCache) get(id int64) (Path, bool) {
	if c.paths == nil {
		c.misses.Add(1)
		return Path{}, false
	}
	p, ok := c.paths.Get(id)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return p, ok
}

func (c *pathCache) put(id int64, p Path) {
	if c.paths == nil {
		return
	}
	c.paths.ContainsOrAdd(id, p)
}

func (c *pathCache) len() int {
	if c.paths == nil {
		return 0
	}
	return c.paths.Len()
}

func (c *pathCache) stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
