// fezctl inspects levels and replays input scripts without a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/fezlike/internal/align"
	"github.com/Faultbox/fezlike/internal/config"
	"github.com/Faultbox/fezlike/internal/facing"
	"github.com/Faultbox/fezlike/internal/game"
	"github.com/Faultbox/fezlike/internal/level"
	"github.com/Faultbox/fezlike/internal/logger"
	"github.com/Faultbox/fezlike/internal/motion"
	"github.com/Faultbox/fezlike/internal/world"
	"github.com/Faultbox/fezlike/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "rebuild":
		err = cmdRebuild(args)
	case "run":
		err = cmdRun(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fezctl - fezlike level and replay utility

Usage:
  fezctl <command> [options]

Commands:
  info <level.yaml|builtin>                         Show level contents
  rebuild [-facing f] [-depth d] <level.yaml|builtin> List invisible platforms for a view
  run [-v] [-trace] [-config f] <level.yaml|builtin> <script.yaml>
                                                    Replay an input script with the configured tuning
  config [path]                                     Write the default config

Examples:
  fezctl info builtin
  fezctl rebuild -facing right -depth 9 levels/tower.yaml
  fezctl run -trace builtin walk.yaml`)
}

func loadLevel(arg string) (*level.Level, error) {
	if arg == "builtin" {
		return level.Builtin(), nil
	}
	return game.LoadLevel(arg)
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fezctl info <level.yaml|builtin>")
	}
	lvl, err := loadLevel(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Level:     %s\n", lvl.Name)
	fmt.Printf("Grid unit: %g\n", lvl.GridUnit)
	fmt.Printf("Spawn:     %v\n", lvl.Spawn)
	fmt.Printf("Platforms: %d\n", len(lvl.Platforms))
	fmt.Printf("Buildings: %d\n", len(lvl.Buildings))
	fmt.Println()

	// Platforms per depth plane, as seen from the front.
	perDepth := make(map[float32]int)
	for _, c := range lvl.Platforms {
		perDepth[c[2]]++
	}
	depths := make([]float32, 0, len(perDepth))
	for d := range perDepth {
		depths = append(depths, d)
	}
	sort.Slice(depths, func(i, j int) bool { return depths[i] < depths[j] })

	fmt.Println("Platforms by depth (front view):")
	for _, d := range depths {
		fmt.Printf("  z=%-6g %d\n", d, perDepth[d])
	}
	return nil
}

func cmdRebuild(args []string) error {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	face := fs.String("facing", "front", "View direction: front, right, back, left")
	depth := fs.Float64("depth", 0, "Player depth on the view's depth axis")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: fezctl rebuild [-facing f] [-depth d] <level.yaml|builtin>")
	}
	dir, err := facing.ParseDirection(*face)
	if err != nil {
		return err
	}
	lvl, err := loadLevel(fs.Arg(0))
	if err != nil {
		return err
	}

	// The player floats high above the level so no depth snapping happens.
	w := world.New(lvl.GridUnit, lvl.PlatformPositions(), lvl.BuildingPositions(), lvl.SpawnPosition(), nil)
	w.SetPosition(math.Vec3{Y: 1e6}.With(facing.DepthAxis(dir), float32(*depth)))
	ctl := motion.New(motion.DefaultConfig(), w, nil)
	engine := align.New(align.Deps{
		Body:      w,
		Motion:    ctl,
		Level:     w.Level(),
		Buildings: w.Buildings(),
		Factory:   w,
	}, lvl.GridUnit, nil)
	engine.Start()
	for engine.Facing() != dir {
		engine.RotateRight()
	}

	platforms := engine.Platforms()
	fmt.Printf("Facing %v, depth axis %v = %g: %d invisible platforms\n",
		engine.Facing(), facing.DepthAxis(dir), engine.Depth(), len(platforms))
	for _, p := range platforms {
		fmt.Printf("  (%g, %g, %g)\n", p.X, p.Y, p.Z)
	}
	return nil
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Debug logging")
	trace := fs.Bool("trace", false, "Print every tick")
	cfgPath := fs.String("config", "", "Config file with the game tuning (default: standard locations)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: fezctl run [-v] [-trace] [-config file] <level.yaml|builtin> <script.yaml>")
	}

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		return err
	}

	lvlName := "warn"
	if *verbose {
		lvlName = "debug"
	}
	if err := logger.Init(lvlName, ""); err != nil {
		return err
	}

	lvl, err := loadLevel(fs.Arg(0))
	if err != nil {
		return err
	}
	sc, err := game.LoadScript(fs.Arg(1))
	if err != nil {
		return err
	}

	s := game.NewSession(lvl, cfg.Game, logger.Named("session"))

	var observe func(game.Snapshot, game.Events)
	if *trace {
		observe = func(snap game.Snapshot, ev game.Events) {
			fmt.Printf("%5d %-5v pos=(%.2f, %.2f, %.2f) depth=%g jump=%v ground=%v%s\n",
				snap.Tick, snap.Facing, snap.Player.X, snap.Player.Y, snap.Player.Z,
				snap.Depth, snap.Jumping, snap.Grounded, eventSuffix(ev))
		}
	}
	final := sc.Run(s, observe)

	fmt.Printf("Ticks:     %d\n", final.Tick)
	fmt.Printf("Facing:    %v (%g deg)\n", final.Facing, final.Angle)
	fmt.Printf("Player:    (%.3f, %.3f, %.3f)\n", final.Player.X, final.Player.Y, final.Player.Z)
	fmt.Printf("Depth:     %g\n", final.Depth)
	fmt.Printf("Grounded:  %v\n", final.Grounded)
	fmt.Printf("Invisible: %d\n", len(final.Platforms))
	return nil
}

func eventSuffix(ev game.Events) string {
	s := ""
	if ev.Jumped {
		s += " JUMP"
	}
	if ev.Rotated {
		s += " ROTATE"
	}
	if ev.Respawned {
		s += " RESPAWN"
	}
	return s
}

func cmdConfig(args []string) error {
	cfg := config.Default()
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", config.ConfigDir())
	return nil
}
