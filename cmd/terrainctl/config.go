package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
)

type configCmd struct {
	output string
}

func (c *configCmd) Name() string     { return "config" }
func (c *configCmd) Synopsis() string { return "print or save the effective configuration" }
func (c *configCmd) Usage() string {
	return "terrainctl [global flags] config [-o <path>]\n"
}
func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the config to this path instead of stdout")
}

func (c *configCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		if err := cfg.SaveTo(c.output); err != nil {
			log.Print(err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "config written to %s\n", c.output)
		return subcommands.ExitSuccess
	}

	data, err := cfg.Marshal()
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	os.Stdout.Write(data)
	return subcommands.ExitSuccess
}
