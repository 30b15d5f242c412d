// Package config handles terrain configuration loading and management.
package config

import "time"

// Noise kinds understood by the noise package.
const (
	NoiseOpenSimplex = "opensimplex"
	NoisePerlin      = "perlin"
)

// Config holds every terrain setting. Components keep a read-only pointer to
// one Config for their whole lifetime; changes are applied by building a new
// Config and handing it to the terrain node.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Noise     NoiseSet        `yaml:"noise"`
	Rivers    RiverConfig     `yaml:"rivers"`
	RiverMesh RiverMeshConfig `yaml:"river_mesh"`
	Foliage   FoliageConfig   `yaml:"foliage"`
	Materials MaterialConfig  `yaml:"materials"`
	Streaming StreamingConfig `yaml:"streaming"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig holds tile geometry and the global height multiplier.
type TerrainConfig struct {
	TileWidth    float32 `yaml:"tile_width"`    // Edge length of one tile in world units
	SegmentCount int     `yaml:"segment_count"` // Mesh quads per tile edge
	HeightScale  float32 `yaml:"height_scale"`
	ViewDistance int     `yaml:"view_distance"` // Radius in tiles
}

// NoiseSet holds the three height channels.
type NoiseSet struct {
	Continentalness ChannelConfig `yaml:"continentalness"`
	PeaksAndValleys ChannelConfig `yaml:"peaks_and_valleys"`
	Erosion         ChannelConfig `yaml:"erosion"`
}

// ChannelConfig is one noise channel and its optional response curve.
type ChannelConfig struct {
	Noise NoiseConfig  `yaml:"noise"`
	Curve []CurvePoint `yaml:"curve,omitempty"`
}

// NoiseConfig describes a fractal noise source. An empty Kind means unset.
type NoiseConfig struct {
	Kind       string  `yaml:"kind"`
	Seed       int64   `yaml:"seed"`
	Frequency  float64 `yaml:"frequency"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// Set reports whether the noise source is configured.
func (n NoiseConfig) Set() bool {
	return n.Kind != ""
}

// CurvePoint is a control point of a response curve over [0,1].
type CurvePoint struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// RiverConfig holds river placement, tracing and carving tunables.
type RiverConfig struct {
	SourceNoise NoiseConfig `yaml:"source_noise"`

	// Carving
	EnableCarving           bool    `yaml:"enable_carving"`
	CarvingDepth            float32 `yaml:"carving_depth"`
	CarvingWidthMultiplier  float32 `yaml:"carving_width_multiplier"`
	CarvingSmoothness       float32 `yaml:"carving_smoothness"`
	UphillCarvingMultiplier float32 `yaml:"uphill_carving_multiplier"`

	// Source placement
	GridSize        float32 `yaml:"grid_size"`
	SamplesPerCell  int     `yaml:"samples_per_cell"`
	SourceThreshold float32 `yaml:"source_threshold"`
	MinSourceHeight float32 `yaml:"min_source_height"`
	HeightNormalize float32 `yaml:"height_normalize"` // Divisor applied to height when scoring candidates

	// Tracing
	SeaLevel         float32      `yaml:"sea_level"`
	TraceStep        float32      `yaml:"trace_step"`
	SearchRadius     float32      `yaml:"search_radius"`
	MaxTracePoints   int          `yaml:"max_trace_points"`
	MinHeightDrop    float32      `yaml:"min_height_drop"`
	BaseWidth        float32      `yaml:"base_width"`
	WidthGrowthRate  float32      `yaml:"width_growth_rate"`
	UphillTolerance  float32      `yaml:"uphill_tolerance"`
	MaxTurnAngle     float32      `yaml:"max_turn_angle"` // Degrees
	MaxStuckAttempts int          `yaml:"max_stuck_attempts"`
	Relaxation       []RelaxStage `yaml:"relaxation"`

	// Search radii in tiles
	ChunkSearchRadius   int `yaml:"chunk_search_radius"`
	FoliageSearchRadius int `yaml:"foliage_search_radius"`
	MarkerSearchRadius  int `yaml:"marker_search_radius"`

	PathCacheSize int `yaml:"path_cache_size"`
}

// RelaxStage is applied when a trace gets stuck for the n-th consecutive time.
// RadiusScale multiplies the current search radius; ToleranceScale sets the
// uphill tolerance to UphillTolerance*ToleranceScale. Zero leaves a value alone.
type RelaxStage struct {
	RadiusScale    float32 `yaml:"radius_scale,omitempty"`
	ToleranceScale float32 `yaml:"tolerance_scale,omitempty"`
}

// RiverMeshConfig holds water ribbon parameters.
type RiverMeshConfig struct {
	Enabled         bool    `yaml:"enabled"`
	WidthMultiplier float32 `yaml:"width_multiplier"`
	DepthOffset     float32 `yaml:"depth_offset"`
	BankSafety      float32 `yaml:"bank_safety"`
	SearchRadius    int     `yaml:"search_radius"` // Tiles
}

// FoliageConfig holds vegetation scatter settings.
type FoliageConfig struct {
	Model           string  `yaml:"model"` // Empty disables foliage
	ExclusionRadius float32 `yaml:"exclusion_radius"`
	MinHeight       float32 `yaml:"min_height"`
	MinNormalY      float32 `yaml:"min_normal_y"`
	Spacing         float32 `yaml:"spacing"`
	Attempts        int     `yaml:"attempts"`
	Seed            uint64  `yaml:"seed"`
}

// MaterialConfig holds render material handles.
type MaterialConfig struct {
	Terrain string `yaml:"terrain"`
	River   string `yaml:"river"`
}

// StreamingConfig holds worker timing.
type StreamingConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Step returns the distance between two height samples of a tile mesh.
func (t TerrainConfig) Step() float32 {
	return t.TileWidth / float32(t.SegmentCount)
}

// DefaultRelaxation returns the staged constraint relaxation used when a
// river trace gets stuck.
func DefaultRelaxation() []RelaxStage {
	return []RelaxStage{
		{RadiusScale: 2},
		{ToleranceScale: 0.3},
		{ToleranceScale: 0.7},
		{ToleranceScale: 1, RadiusScale: 1.5},
		{ToleranceScale: 1.5},
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			TileWidth:    10,
			SegmentCount: 10,
			HeightScale:  20,
			ViewDistance: 5,
		},
		Noise: NoiseSet{
			Continentalness: ChannelConfig{
				Noise: NoiseConfig{Kind: NoiseOpenSimplex, Seed: 1, Frequency: 0.002, Octaves: 4, Lacunarity: 2, Gain: 0.5},
				Curve: []CurvePoint{{0, -1.5}, {0.35, -0.6}, {0.5, 0.1}, {0.7, 0.6}, {1, 1.2}},
			},
			PeaksAndValleys: ChannelConfig{
				Noise: NoiseConfig{Kind: NoiseOpenSimplex, Seed: 2, Frequency: 0.01, Octaves: 5, Lacunarity: 2, Gain: 0.5},
				Curve: []CurvePoint{{0, -0.4}, {0.5, 0.1}, {1, 1}},
			},
			Erosion: ChannelConfig{
				Noise: NoiseConfig{Kind: NoisePerlin, Seed: 3, Frequency: 0.005, Octaves: 3, Lacunarity: 2, Gain: 0.5},
				Curve: []CurvePoint{{0, -0.3}, {1, 0.3}},
			},
		},
		Rivers: RiverConfig{
			SourceNoise:             NoiseConfig{Kind: NoiseOpenSimplex, Seed: 4, Frequency: 0.02, Octaves: 1, Lacunarity: 2, Gain: 0.5},
			EnableCarving:           true,
			CarvingDepth:            2,
			CarvingWidthMultiplier:  3,
			CarvingSmoothness:       1.5,
			UphillCarvingMultiplier: 2,
			GridSize:                250,
			SamplesPerCell:          6,
			SourceThreshold:         0.7,
			MinSourceHeight:         10,
			HeightNormalize:         100,
			SeaLevel:                -15,
			TraceStep:               3,
			SearchRadius:            30,
			MaxTracePoints:          2000,
			MinHeightDrop:           0.001,
			BaseWidth:               2,
			WidthGrowthRate:         0.01,
			UphillTolerance:         2,
			MaxTurnAngle:            60,
			MaxStuckAttempts:        8,
			Relaxation:              DefaultRelaxation(),
			ChunkSearchRadius:       5,
			FoliageSearchRadius:     8,
			MarkerSearchRadius:      3,
			PathCacheSize:           256,
		},
		RiverMesh: RiverMeshConfig{
			Enabled:         true,
			WidthMultiplier: 1,
			DepthOffset:     -0.3,
			BankSafety:      0.2,
			SearchRadius:    8,
		},
		Foliage: FoliageConfig{
			Model:           "",
			ExclusionRadius: 3,
			MinHeight:       -12,
			MinNormalY:      0.7,
			Spacing:         10,
			Attempts:        30,
			Seed:            0,
		},
		Materials: MaterialConfig{
			Terrain: "",
			River:   "",
		},
		Streaming: StreamingConfig{
			PollInterval: time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Clone returns a deep copy so callers can derive a modified config without
// touching the one components are reading.
func (c *Config) Clone() *Config {
	out := *c
	out.Noise.Continentalness.Curve = append([]CurvePoint(nil), c.Noise.Continentalness.Curve...)
	out.Noise.PeaksAndValleys.Curve = append([]CurvePoint(nil), c.Noise.PeaksAndValleys.Curve...)
	out.Noise.Erosion.Curve = append([]CurvePoint(nil), c.Noise.Erosion.Curve...)
	out.Rivers.Relaxation = append([]RelaxStage(nil), c.Rivers.Relaxation...)
	return &out
}
