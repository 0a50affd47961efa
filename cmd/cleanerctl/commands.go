package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/navigation"
)

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:  "explore",
		Usage: "run the depth-first explorer headless and print the result",
		Flags: []cli.Flag{
			presetFlag(),
			seedFlag(),
			&cli.IntFlag{
				Name:  "max-steps",
				Value: 100000,
				Usage: "give up after this many ticks",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "print the summary only",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd)
			if err != nil {
				return err
			}
			seed := seedFrom(cmd)
			w, err := generate(cfg, seed)
			if err != nil {
				return err
			}

			explorer := navigation.NewExplorer()
			steps, runErr := navigation.Run(explorer, w, int(cmd.Int("max-steps")))

			out := cmd.Root().Writer
			fmt.Fprintf(out, "preset=%s seed=%d grid=%dx%d\n", cfg.Name, seed, cfg.GridWidth, cfg.GridHeight)
			fmt.Fprintf(out, "ticks=%d moves=%d blocked=%d expansions=%d backtracks=%d\n",
				len(steps), w.MoveCount(), w.BlockedCount(), explorer.Expansions(), explorer.Backtracks())
			fmt.Fprintf(out, "cleaned=%d/%d coverage=%.1f%% status=%s\n",
				w.CleanedCount(), w.Todo(), w.Coverage()*100, navigation.Status(explorer, w))
			if !cmd.Bool("quiet") {
				writeGrid(out, w.Snapshot())
			}

			if runErr != nil {
				return cli.Exit(runErr.Error(), 2)
			}
			if !explorer.Done() {
				return cli.Exit(fmt.Sprintf("stopped after %d ticks without finishing", len(steps)), 3)
			}
			return nil
		},
	}
}

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "generate a room and print its grid and objects",
		Flags: []cli.Flag{presetFlag(), seedFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd)
			if err != nil {
				return err
			}
			seed := seedFrom(cmd)
			w, err := generate(cfg, seed)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			s := w.Snapshot()
			fmt.Fprintf(out, "preset=%s seed=%d world=%s todo=%d\n", cfg.Name, seed, s.ID, s.Todo)
			writeGrid(out, s)

			for i, obj := range w.Objects() {
				fmt.Fprintf(out, "object %d %s %s\n", i, obj.Rect, obj.Color)
			}
			rx, ry := w.RobotCell()
			cx, cy := w.ChargingPoint().Rect.Cell()
			fmt.Fprintf(out, "robot (%d,%d) charger (%d,%d)\n", rx, ry, cx, cy)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check every preset in a directory and try to generate rooms from it",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "trials",
				Value: 5,
				Usage: "rooms to generate per preset",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = cmd.String("config-dir")
			}

			failed, err := validatePresets(cmd.Root().Writer, dir, int(cmd.Int("trials")))
			if err != nil {
				return err
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d preset(s) failed", failed), 1)
			}
			return nil
		},
	}
}

// validatePresets loads every *.json in dir and generates trials rooms from
// each one with seeds 1..trials. It returns the number of failing presets.
func validatePresets(out io.Writer, dir string, trials int) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no presets found in %s", dir)
	}
	sort.Strings(files)

	failed := 0
	for _, file := range files {
		id := engine.ConfigIDFromFilename(file)
		cfg, err := engine.LoadWorldConfig(file)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", id, err)
			continue
		}

		todo, err := tryGenerate(*cfg, trials)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", id, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%dx%d, %s, todo %d-%d)\n",
			id, cfg.GridWidth, cfg.GridHeight, cfg.Mode, todo[0], todo[1])
	}
	return failed, nil
}

// tryGenerate returns the smallest and largest todo seen across trials
func tryGenerate(cfg engine.WorldConfig, trials int) ([2]int, error) {
	var todo [2]int
	for seed := int64(1); seed <= int64(max(trials, 1)); seed++ {
		w, err := generate(cfg, seed)
		if err != nil {
			if errors.Is(err, engine.ErrSpawnExhausted) {
				return todo, fmt.Errorf("seed %d: %w", seed, err)
			}
			return todo, err
		}
		if seed == 1 || w.Todo() < todo[0] {
			todo[0] = w.Todo()
		}
		if w.Todo() > todo[1] {
			todo[1] = w.Todo()
		}
	}
	return todo, nil
}

func writeGrid(out io.Writer, s *engine.Snapshot) {
	for _, row := range engine.RenderGrid(s) {
		fmt.Fprintln(out, row)
	}
}
