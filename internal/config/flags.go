package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagViewDistance = flag.Int("view-distance", 0, "Streaming radius in tiles")
	flagSeed         = flag.Int64("seed", 0, "Base seed for every noise source")
	flagLogFile      = flag.String("log-file", "", "Write logs to this file")
	flagNoCarving    = flag.Bool("no-carving", false, "Disable river carving")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagViewDistance > 0 {
		cfg.Terrain.ViewDistance = *flagViewDistance
	}
	if *flagSeed != 0 {
		cfg.Reseed(*flagSeed)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNoCarving {
		cfg.Rivers.EnableCarving = false
	}
}

// Reseed derives every noise seed from base so one number selects a world.
func (c *Config) Reseed(base int64) {
	c.Noise.Continentalness.Noise.Seed = base
	c.Noise.PeaksAndValleys.Noise.Seed = base + 1
	c.Noise.Erosion.Noise.Seed = base + 2
	c.Rivers.SourceNoise.Seed = base + 3
	c.Foliage.Seed = uint64(base)
}
