// Command terrainctl inspects and streams the procedural terrain from the
// command line.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/Faultbox/terrastream/internal/config"
	"github.com/Faultbox/terrastream/internal/logger"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&sampleCmd{}, "")
	subcommands.Register(&riversCmd{}, "")
	subcommands.Register(&streamCmd{}, "")
	subcommands.Register(&configCmd{}, "")

	config.ParseFlags()
	status := subcommands.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}

// loadConfig loads the config from the global flags and starts logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func usageError(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	os.Stderr.WriteString(msg + "\n")
	f.Usage()
	return subcommands.ExitUsageError
}
