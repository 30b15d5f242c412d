package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/Faultbox/terrastream/internal/river"
	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/terrain"
	"github.com/Faultbox/terrastream/internal/world"
)

type riversCmd struct {
	tileX, tileZ int
	radius       int
}

func (c *riversCmd) Name() string     { return "rivers" }
func (c *riversCmd) Synopsis() string { return "trace every river source around a tile" }
func (c *riversCmd) Usage() string {
	return "terrainctl [global flags] rivers [-tile-x <x> -tile-z <z> -radius <tiles>]\n"
}
func (c *riversCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tileX, "tile-x", 0, "Center tile X")
	f.IntVar(&c.tileZ, "tile-z", 0, "Center tile Z")
	f.IntVar(&c.radius, "radius", 5, "Search radius in tiles")
}

func (c *riversCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.radius < 0 {
		return usageError(f, "radius must not be negative")
	}
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

	network := node.Pipeline().Rivers()
	if !network.Enabled() {
		fmt.Println("rivers are disabled: rivers.source_noise is not set")
		return subcommands.ExitSuccess
	}

	sources := network.FindSources(world.TileCoord{X: c.tileX, Z: c.tileZ}, c.radius)
	paths := make([]river.Path, 0, len(sources))
	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetDescription("tracing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)
	for _, src := range sources {
		paths = append(paths, network.Trace(src))
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Source", "Height", "Points", "Length", "Sea"})
	for i, src := range sources {
		p := paths[i]
		table.Append([]string{
			strconv.FormatInt(src.ID, 10),
			fmt.Sprintf("(%.1f, %.1f)", src.Position.X, src.Position.Y),
			fmt.Sprintf("%.2f", src.Height),
			strconv.Itoa(len(p.Points)),
			fmt.Sprintf("%.1f", p.Length()),
			strconv.FormatBool(p.ReachesSeaLevel),
		})
	}
	table.Render()

	hits, misses := network.CacheStats()
	fmt.Printf("%d sources, path cache %d hits / %d misses\n", len(sources), hits, misses)
	return subcommands.ExitSuccess
}
