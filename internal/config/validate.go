package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the config and returns all problems found at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	t := c.Terrain
	if t.TileWidth <= 0 {
		add("terrain.tile_width must be positive, got %v", t.TileWidth)
	}
	if t.SegmentCount < 1 {
		add("terrain.segment_count must be at least 1, got %d", t.SegmentCount)
	}
	if t.ViewDistance < 0 {
		add("terrain.view_distance must not be negative, got %d", t.ViewDistance)
	}

	channels := []struct {
		name string
		ch   ChannelConfig
	}{
		{"continentalness", c.Noise.Continentalness},
		{"peaks_and_valleys", c.Noise.PeaksAndValleys},
		{"erosion", c.Noise.Erosion},
	}
	for _, entry := range channels {
		errs = append(errs, validateNoise("noise."+entry.name+".noise", entry.ch.Noise)...)
		errs = append(errs, validateCurve("noise."+entry.name+".curve", entry.ch.Curve)...)
	}

	r := c.Rivers
	errs = append(errs, validateNoise("rivers.source_noise", r.SourceNoise)...)
	if r.SourceNoise.Set() {
		if r.GridSize <= 0 {
			add("rivers.grid_size must be positive, got %v", r.GridSize)
		}
		if r.SamplesPerCell < 1 {
			add("rivers.samples_per_cell must be at least 1, got %d", r.SamplesPerCell)
		}
		if r.TraceStep <= 0 {
			add("rivers.trace_step must be positive, got %v", r.TraceStep)
		}
		if r.SearchRadius <= 0 {
			add("rivers.search_radius must be positive, got %v", r.SearchRadius)
		}
		if r.MaxTracePoints < 1 {
			add("rivers.max_trace_points must be at least 1, got %d", r.MaxTracePoints)
		}
		if r.HeightNormalize == 0 {
			add("rivers.height_normalize must not be zero")
		}
	}
	if r.UphillTolerance < 0 {
		add("rivers.uphill_tolerance must not be negative, got %v", r.UphillTolerance)
	}
	if r.MaxTurnAngle <= 0 || r.MaxTurnAngle > 180 {
		add("rivers.max_turn_angle must be within (0, 180], got %v", r.MaxTurnAngle)
	}
	if r.MaxStuckAttempts < 1 {
		add("rivers.max_stuck_attempts must be at least 1, got %d", r.MaxStuckAttempts)
	}
	if r.CarvingSmoothness < 0 {
		add("rivers.carving_smoothness must not be negative, got %v", r.CarvingSmoothness)
	}
	if r.CarvingWidthMultiplier <= 0 {
		add("rivers.carving_width_multiplier must be positive, got %v", r.CarvingWidthMultiplier)
	}
	nonNegative := []struct {
		name  string
		value int
	}{
		{"chunk_search_radius", r.ChunkSearchRadius},
		{"foliage_search_radius", r.FoliageSearchRadius},
		{"marker_search_radius", r.MarkerSearchRadius},
		{"path_cache_size", r.PathCacheSize},
	}
	for _, entry := range nonNegative {
		if entry.value < 0 {
			add("rivers.%s must not be negative, got %d", entry.name, entry.value)
		}
	}
	for i, stage := range r.Relaxation {
		if stage.RadiusScale < 0 || stage.ToleranceScale < 0 {
			add("rivers.relaxation[%d] scales must not be negative", i)
		}
	}

	if c.RiverMesh.WidthMultiplier <= 0 {
		add("river_mesh.width_multiplier must be positive, got %v", c.RiverMesh.WidthMultiplier)
	}
	if c.RiverMesh.SearchRadius < 0 {
		add("river_mesh.search_radius must not be negative, got %d", c.RiverMesh.SearchRadius)
	}

	if c.Foliage.Spacing <= 0 {
		add("foliage.spacing must be positive, got %v", c.Foliage.Spacing)
	}
	if c.Foliage.Attempts < 1 {
		add("foliage.attempts must be at least 1, got %d", c.Foliage.Attempts)
	}

	if c.Streaming.PollInterval < 0 {
		add("streaming.poll_interval must not be negative, got %v", c.Streaming.PollInterval)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func validateNoise(name string, n NoiseConfig) []error {
	if !n.Set() {
		return nil
	}
	var errs []error
	if n.Kind != NoiseOpenSimplex && n.Kind != NoisePerlin {
		errs = append(errs, fmt.Errorf("%s.kind %q is not one of %q, %q", name, n.Kind, NoiseOpenSimplex, NoisePerlin))
	}
	if n.Octaves < 1 {
		errs = append(errs, fmt.Errorf("%s.octaves must be at least 1, got %d", name, n.Octaves))
	}
	if n.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("%s.frequency must be positive, got %v", name, n.Frequency))
	}
	if n.Kind == NoisePerlin && n.Gain == 0 {
		errs = append(errs, fmt.Errorf("%s.gain must not be zero for perlin noise", name))
	}
	return errs
}

func validateCurve(name string, points []CurvePoint) []error {
	if len(points) == 0 {
		return nil
	}
	var errs []error
	for i, p := range points {
		if p.X < 0 || p.X > 1 {
			errs = append(errs, fmt.Errorf("%s[%d].x must be within [0, 1], got %v", name, i, p.X))
		}
		if i == 0 {
			continue
		}
		prev := points[i-1]
		if p.X <= prev.X {
			errs = append(errs, fmt.Errorf("%s[%d].x must be greater than the previous point", name, i))
		}
		if p.Y < prev.Y {
			errs = append(errs, fmt.Errorf("%s[%d].y must not decrease", name, i))
		}
	}
	return errs
}
