// Package noise provides seeded 2D fractal noise sources and response curves
// used by the height field.
package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/terrastream/internal/config"
)

// Source is a deterministic 2D noise field with values in [-1, 1].
type Source interface {
	Sample(x, z float32) float32
}

// Func adapts a plain function to Source.
type Func func(x, z float32) float32

// Sample calls f(x, z).
func (f Func) Sample(x, z float32) float32 {
	return f(x, z)
}

// New builds the source described by cfg. It returns nil for an unset config.
func New(cfg config.NoiseConfig) (Source, error) {
	if !cfg.Set() {
		return nil, nil
	}
	if cfg.Octaves < 1 {
		return nil, fmt.Errorf("noise: octaves must be at least 1, got %d", cfg.Octaves)
	}

	switch cfg.Kind {
	case config.NoiseOpenSimplex:
		return newSimplex(cfg), nil
	case config.NoisePerlin:
		if cfg.Gain == 0 {
			return nil, fmt.Errorf("noise: perlin gain must not be zero")
		}
		return newPerlin(cfg), nil
	default:
		return nil, fmt.Errorf("noise: unknown kind %q", cfg.Kind)
	}
}

// simplex sums octaves of OpenSimplex noise and normalizes by total amplitude.
type simplex struct {
	noise      opensimplex.Noise
	frequency  float64
	lacunarity float64
	gain       float64
	octaves    int
}

func newSimplex(cfg config.NoiseConfig) *simplex {
	return &simplex{
		noise:      opensimplex.New(cfg.Seed),
		frequency:  cfg.Frequency,
		lacunarity: cfg.Lacunarity,
		gain:       cfg.Gain,
		octaves:    cfg.Octaves,
	}
}

func (s *simplex) Sample(x, z float32) float32 {
	amplitude := 1.0
	frequency := s.frequency
	sum, norm := 0.0, 0.0
	for range s.octaves {
		sum += s.noise.Eval2(float64(x)*frequency, float64(z)*frequency) * amplitude
		norm += amplitude
		amplitude *= s.gain
		frequency *= s.lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp(sum / norm)
}

// perlinSource wraps go-perlin, which does its own octave summation with
// amplitude 1/alpha^i and frequency beta^i.
type perlinSource struct {
	noise     *perlin.Perlin
	frequency float64
	norm      float64
}

func newPerlin(cfg config.NoiseConfig) *perlinSource {
	norm, amplitude := 0.0, 1.0
	for range cfg.Octaves {
		norm += amplitude
		amplitude *= cfg.Gain
	}
	return &perlinSource{
		noise:     perlin.NewPerlin(1/cfg.Gain, cfg.Lacunarity, int32(cfg.Octaves), cfg.Seed),
		frequency: cfg.Frequency,
		norm:      norm,
	}
}

func (p *perlinSource) Sample(x, z float32) float32 {
	v := p.noise.Noise2D(float64(x)*p.frequency, float64(z)*p.frequency)
	// Raw perlin output peaks near 0.7 per octave; scale back up to [-1, 1].
	return clamp(v / p.norm * 1.4)
}

func clamp(v float64) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
