package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/terrain"
	"github.com/Faultbox/terrastream/internal/world"
)

type sampleCmd struct {
	x, z float64
	tile bool
}

func (c *sampleCmd) Name() string     { return "sample" }
func (c *sampleCmd) Synopsis() string { return "print terrain height and normal at a world position" }
func (c *sampleCmd) Usage() string {
	return "terrainctl [global flags] sample -x <world x> -z <world z> [-tile]\n"
}
func (c *sampleCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.x, "x", 0, "World X")
	f.Float64Var(&c.z, "z", 0, "World Z")
	f.BoolVar(&c.tile, "tile", false, "Also print the containing tile and whether it carries river segments")
}

func (c *sampleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	node, err := terrain.New(cfg, scene.NewGraph())
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	defer node.Close()

	x, z := float32(c.x), float32(c.z)
	n := node.SampleNormal(x, z)
	fmt.Printf("position  (%.2f, %.2f)\n", x, z)
	fmt.Printf("height    %.4f\n", node.SampleHeight(x, z))
	fmt.Printf("carved    %.4f\n", node.SampleCarvedHeight(x, z))
	fmt.Printf("normal    (%.4f, %.4f, %.4f)\n", n.X, n.Y, n.Z)
	if c.tile {
		coord := world.TileContaining(x, z, cfg.Terrain.TileWidth)
		rivers := node.Pipeline().Rivers()
		fmt.Printf("tile      %s\n", coord)
		fmt.Printf("segments  %d carving, %d nearby\n", len(rivers.SegmentsForCarving(coord)), len(rivers.SegmentsForChunk(coord)))
	}
	return subcommands.ExitSuccess
}
