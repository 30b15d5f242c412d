package river

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/logger"
	"github.com/Faultbox/terrastream/internal/noise"
)

// Network answers river queries for one immutable config snapshot.
// It is safe for concurrent use.
type Network struct {
	cfg         *config.Config
	heights     HeightSampler
	sourceNoise noise.Source
	paths       *pathCache
	log         *zap.Logger
}

// New builds a network whose source noise comes from cfg. Heights are sampled
// without carving.
func New(cfg *config.Config, heights HeightSampler) (*Network, error) {
	src, err := noise.New(cfg.Rivers.SourceNoise)
	if err != nil {
		return nil, fmt.Errorf("river source noise: %w", err)
	}
	return NewWithNoise(cfg, heights, src), nil
}

// NewWithNoise builds a network with an explicit source noise field. A nil
// field disables rivers.
func NewWithNoise(cfg *config.Config, heights HeightSampler, sourceNoise noise.Source) *Network {
	return &Network{
		cfg:         cfg,
		heights:     heights,
		sourceNoise: sourceNoise,
		paths:       newPathCache(cfg.Rivers.PathCacheSize),
		log:         logger.Named("river"),
	}
}

// Enabled reports whether the network can produce sources.
func (n *Network) Enabled() bool {
	return n.sourceNoise != nil
}

// CacheStats returns path cache hits and misses.
func (n *Network) CacheStats() (hits, misses int) {
	return n.paths.stats()
}
