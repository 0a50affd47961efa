// Command cleanerctl runs the cleaning robot simulator locally, without the
// HTTP server: an interactive terminal view, headless exploration runs, layout
// dumps and preset validation.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-cleaner/game/config"
	"github.com/wricardo/robot-cleaner/game/engine"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "cleanerctl",
		Usage: "drive the cleaning robot simulator from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing room presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			playCommand(),
			exploreCommand(),
			layoutCommand(),
			validateCommand(),
		},
	}
}

func presetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Usage:   "preset to build the room from (default preset when empty)",
	}
}

func seedFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "random seed, time based when not set",
	}
}

// loadPreset resolves --preset against --config-dir
func loadPreset(cmd *cli.Command) (engine.WorldConfig, error) {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return engine.WorldConfig{}, err
	}

	name := cmd.String("preset")
	if name == "" {
		return *configs.GetDefault(), nil
	}
	cfg, err := configs.LoadConfig(name)
	if err != nil {
		return engine.WorldConfig{}, err
	}
	return *cfg, nil
}

func seedFrom(cmd *cli.Command) int64 {
	if cmd.IsSet("seed") {
		return cmd.Int64("seed")
	}
	return time.Now().UnixNano()
}

func generate(cfg engine.WorldConfig, seed int64) (*engine.World, error) {
	return engine.Generate(cfg, rand.New(rand.NewSource(seed)))
}
