// Package heightfield maps world positions to terrain heights and normals
// from three noise channels, and carves river beds into the result.
package heightfield

import (
	"fmt"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/noise"
	"github.com/Faultbox/terrastream/internal/river"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// Field is a pure height function over the world plane. It is safe for
// concurrent use.
type Field struct {
	cfg             *config.Config
	continentalness noise.Channel
	peaksAndValleys noise.Channel
	erosion         noise.Channel
}

// New builds a field from the noise channels in cfg.
func New(cfg *config.Config) (*Field, error) {
	c, err := noise.NewChannel(cfg.Noise.Continentalness)
	if err != nil {
		return nil, fmt.Errorf("continentalness: %w", err)
	}
	p, err := noise.NewChannel(cfg.Noise.PeaksAndValleys)
	if err != nil {
		return nil, fmt.Errorf("peaks and valleys: %w", err)
	}
	e, err := noise.NewChannel(cfg.Noise.Erosion)
	if err != nil {
		return nil, fmt.Errorf("erosion: %w", err)
	}
	return NewFromChannels(cfg, c, p, e), nil
}

// NewFromChannels builds a field from explicit channels.
func NewFromChannels(cfg *config.Config, continentalness, peaksAndValleys, erosion noise.Channel) *Field {
	return &Field{
		cfg:             cfg,
		continentalness: continentalness,
		peaksAndValleys: peaksAndValleys,
		erosion:         erosion,
	}
}

// Config returns the config the field was built from.
func (f *Field) Config() *config.Config {
	return f.cfg
}

// Ready reports whether all three channels have a noise source.
func (f *Field) Ready() bool {
	return f.continentalness.Ready() && f.peaksAndValleys.Ready() && f.erosion.Ready()
}

// SampleHeight returns the uncarved height, or 0 when a channel is unset.
func (f *Field) SampleHeight(x, z float32) float32 {
	if !f.Ready() {
		return 0
	}
	sum := f.continentalness.Value(x, z) + f.peaksAndValleys.Value(x, z) + f.erosion.Value(x, z)
	return sum * f.cfg.Terrain.HeightScale
}

// SampleHeightWithRivers returns the height with river carving applied.
func (f *Field) SampleHeightWithRivers(x, z float32, segs []river.Segment) float32 {
	h := f.SampleHeight(x, z)
	if !f.cfg.Rivers.EnableCarving || len(segs) == 0 {
		return h
	}
	return h - f.CarvingEffect(x, z, segs)
}

// SampleNormal estimates the surface normal from central differences one
// mesh step away in each planar direction.
func (f *Field) SampleNormal(x, z float32) tmath.Vec3 {
	step := f.cfg.Terrain.Step()
	left := f.SampleHeight(x-step, z)
	right := f.SampleHeight(x+step, z)
	near := f.SampleHeight(x, z-step)
	far := f.SampleHeight(x, z+step)

	tangentX := tmath.Vec3{X: 2 * step, Y: right - left}
	tangentZ := tmath.Vec3{Y: far - near, Z: 2 * step}
	return tangentZ.Cross(tangentX).Normalize()
}
