package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/navigation"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "interactive terminal view (arrows steer manual runs, space pauses exploration)",
		Flags: []cli.Flag{
			presetFlag(),
			seedFlag(),
			&cli.StringFlag{
				Name:  "mode",
				Usage: "manual or exploration, overrides the preset",
			},
			&cli.DurationFlag{
				Name:  "tick",
				Value: 60 * time.Millisecond,
				Usage: "delay between exploration steps",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPreset(cmd)
			if err != nil {
				return err
			}
			if m := cmd.String("mode"); m != "" {
				mode, err := engine.ParseMode(m)
				if err != nil {
					return err
				}
				cfg.Mode = mode
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			p, err := newPlayer(screen, cfg, seedFrom(cmd))
			if err != nil {
				return err
			}
			return p.run(ctx, cmd.Duration("tick"))
		},
	}
}

// player owns the terminal loop. All state is touched from run only.
type player struct {
	screen   tcell.Screen
	config   engine.WorldConfig
	seed     int64
	world    *engine.World
	strategy navigation.Strategy
	paused   bool
	message  string
}

func newPlayer(screen tcell.Screen, cfg engine.WorldConfig, seed int64) (*player, error) {
	p := &player{screen: screen, config: cfg}
	if err := p.regenerate(seed); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *player) regenerate(seed int64) error {
	w, err := generate(p.config, seed)
	if err != nil {
		return err
	}
	strategy, err := navigation.New(p.config.Mode)
	if err != nil {
		return err
	}
	p.world, p.strategy, p.seed = w, strategy, seed
	p.message = ""
	return nil
}

func (p *player) exploring() bool {
	return p.strategy.Mode() == engine.ModeExploration
}

func (p *player) run(ctx context.Context, tick time.Duration) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	p.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if !p.exploring() || p.paused || p.strategy.Done() {
				continue
			}
			p.step()
		}
		p.draw()
	}
}

// handle applies one terminal event and reports whether to keep running
func (p *player) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			p.command(engine.Up)
		case tcell.KeyDown:
			p.command(engine.Down)
		case tcell.KeyLeft:
			p.command(engine.Left)
		case tcell.KeyRight:
			p.command(engine.Right)
		case tcell.KeyRune:
			return p.handleRune(ev.Rune())
		}
	}
	return true
}

func (p *player) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'r':
		if err := p.regenerate(time.Now().UnixNano()); err != nil {
			p.message = err.Error()
		}
	case ' ':
		if p.exploring() {
			p.paused = !p.paused
		}
	case 'n':
		if p.exploring() {
			p.step()
		}
	case 'k', 'w':
		p.command(engine.Up)
	case 'j', 's':
		p.command(engine.Down)
	case 'h', 'a':
		p.command(engine.Left)
	case 'l', 'd':
		p.command(engine.Right)
	}
	return true
}

// command feeds a direction to a manual run and performs it at once
func (p *player) command(dir engine.Direction) {
	manual, ok := p.strategy.(*navigation.Manual)
	if !ok {
		p.message = "exploration run: space pauses, n steps"
		return
	}
	manual.Input(dir)
	p.step()
}

func (p *player) step() {
	result := p.strategy.Step(p.world)
	switch {
	case result.Action == navigation.ActionFinished && p.strategy.Err() != nil:
		p.message = p.strategy.Err().Error()
	case result.Move != nil && !result.Moved():
		p.message = fmt.Sprintf("blocked moving %s", result.Move.Direction)
	default:
		p.message = ""
	}
}

var glyphStyles = map[byte]tcell.Style{
	engine.GlyphWall:     tcell.StyleDefault.Foreground(tcell.ColorGray),
	engine.GlyphObstacle: tcell.StyleDefault.Foreground(tcell.ColorDarkCyan),
	engine.GlyphFree:     tcell.StyleDefault.Foreground(tcell.ColorDimGray),
	engine.GlyphCleaned:  tcell.StyleDefault.Foreground(rgb(engine.CoverageColor)),
	engine.GlyphRobot:    tcell.StyleDefault.Foreground(rgb(engine.RobotColor)).Bold(true),
}

func rgb(c engine.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (p *player) draw() {
	p.screen.Clear()

	snapshot := p.world.Snapshot()
	status := navigation.Status(p.strategy, p.world)
	snapshot.Status = status

	rows := engine.RenderGrid(snapshot)
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			style, ok := glyphStyles[row[x]]
			if row[x] == engine.GlyphCharger {
				style, ok = tcell.StyleDefault.Foreground(rgb(snapshot.ChargingPoint.Color)), true
			}
			if !ok {
				style = tcell.StyleDefault
			}
			p.screen.SetContent(x, y, rune(row[x]), nil, style)
		}
	}

	line := len(rows) + 1
	p.print(0, line, fmt.Sprintf("%s  %s  seed %d", p.config.Name, p.strategy.Mode(), p.seed))
	p.print(0, line+1, fmt.Sprintf("cleaned %d/%d (%.0f%%)  moves %d  blocked %d  %s",
		snapshot.CleanedCount, snapshot.Todo, snapshot.Coverage*100,
		snapshot.MoveCount, snapshot.BlockedCount, status))

	help := "arrows/hjkl move  r reset  q quit"
	if p.exploring() {
		help = "space pause  n step  r reset  q quit"
		if p.paused {
			help = "[paused] " + help
		}
	}
	p.print(0, line+2, help)
	if p.message != "" {
		p.print(0, line+3, p.message)
	}

	p.screen.Show()
}

func (p *player) print(x, y int, s string) {
	for i, r := range []rune(s) {
		p.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}
