package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/camera"
	"github.com/Faultbox/terrastream/internal/logger"
	"github.com/Faultbox/terrastream/internal/scene"
	"github.com/Faultbox/terrastream/internal/statsserver"
	"github.com/Faultbox/terrastream/internal/stream"
	"github.com/Faultbox/terrastream/internal/terrain"
)

type streamCmd struct {
	ticks     int
	speed     float64
	turn      float64
	tick      time.Duration
	statsAddr string
	statsRate time.Duration
}

func (c *streamCmd) Name() string     { return "stream" }
func (c *streamCmd) Synopsis() string { return "fly a headless camera across the terrain" }
func (c *streamCmd) Usage() string {
	return "terrainctl [global flags] stream [-ticks <n> -speed <units per tick> -stats-addr <addr>]\n"
}
func (c *streamCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.ticks, "ticks", 600, "Number of frames to simulate")
	f.Float64Var(&c.speed, "speed", 1, "Camera movement per frame")
	f.Float64Var(&c.turn, "turn", 0, "Camera yaw change per frame in radians")
	f.DurationVar(&c.tick, "tick", 16*time.Millisecond, "Frame interval")
	f.StringVar(&c.statsAddr, "stats-addr", "", "Serve chunk stats over websocket on this address")
	f.DurationVar(&c.statsRate, "stats-interval", time.Second, "Stats push interval")
}

func (c *streamCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.ticks < 1 || c.tick <= 0 {
		return usageError(f, "ticks and tick must be positive")
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	lg := logger.Named("stream")

	graph := scene.NewGraph()
	node, err := terrain.New(cfg, graph)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	defer node.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if c.statsAddr != "" {
		srv := statsserver.New(node)
		go func() {
			if err := srv.ListenAndServe(ctx, c.statsAddr, c.statsRate); err != nil {
				lg.Error("stats server failed", zap.Error(err))
			}
		}()
	}

	node.Start()

	bar := progressbar.NewOptions(c.ticks,
		progressbar.OptionSetDescription("streaming"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	cam := camera.NewFlyCamera()
	cam.Speed = float32(c.speed)
	frames := 0
loop:
	for frames < c.ticks {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
		cam.Yaw += float32(c.turn)
		cam.HandleMovement(1, 0)
		node.Update(cam.Follow(node))
		frames++
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	stats := node.ChunkStats()
	pos := cam.Position()
	lg.Info("stream finished",
		zap.Int("frames", frames),
		zap.Float32("camera_x", pos.X),
		zap.Float32("camera_z", pos.Z),
		zap.Int("nodes", graph.Len()),
	)
	fmt.Printf("frames %d, camera (%.1f, %.1f, %.1f)\n", frames, pos.X, pos.Y, pos.Z)
	fmt.Printf("loaded %d, loading %d, unloading %d, queued %d\n",
		stats[stream.StatLoaded], stats[stream.StatLoading], stats[stream.StatUnloading], stats[stream.StatQueued])
	return subcommands.ExitSuccess
}
