// Wayfarer is a turn-based text RPG: explore, fight, trade, and level up.
// Usage: wayfarer [--version] [--config <file>] [--seed <n>] [--plain] [--script <file>] [--trace] [world_directory]
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/cli"
	"github.com/nathoo/wayfarer/config"
	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/loader"
	"github.com/nathoo/wayfarer/observability"
	"github.com/nathoo/wayfarer/tui"
	"github.com/nathoo/wayfarer/worlds"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	script     string
	plain      bool
	trace      bool
	version    bool
}

func newFlagSet(opts *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("wayfarer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&opts.script, "script", "", "play commands from a file instead of the keyboard")
	fs.BoolVar(&opts.plain, "plain", false, "use the plain line-based interface")
	fs.BoolVar(&opts.trace, "trace", false, "print engine events after each command")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	// These land in config via viper.
	fs.String("world", "", "directory of .lua/.yaml world files (default: built-in world)")
	fs.String("save-dir", "", "directory for save files")
	fs.Int64("seed", 0, "RNG seed (0 picks one from the clock)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-file", "", "write logs to this file")
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "wayfarer %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	// A bare directory argument names the world, as --world does.
	if fs.NArg() > 0 && !fs.Changed("world") {
		if err := fs.Set("world", fs.Arg(0)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	cfg, err := config.LoadWithFlags(opts.configPath, fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, err := observability.NewGameLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	defs, err := loadWorld(cfg.Game.World, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading world: %v\n", err)
		return 1
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting game",
		zap.String("title", defs.Game.Title),
		zap.String("world", cfg.Game.World),
		zap.Int64("seed", seed),
	)

	eng := engine.New(defs,
		engine.WithRules(cfg.Rules()),
		engine.WithLogger(logger),
		engine.WithSeed(seed),
	)

	// Script mode: read the file, force plain, echo commands.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			fmt.Fprintf(stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		c := newCLI(eng, defs, cfg, stdout, opts.trace)
		c.In = f
		c.EchoInput = true
		c.Run()
		return 0
	}

	// Use plain CLI if --plain or stdout is not a terminal.
	if opts.plain || !isTerminal(stdout) {
		c := newCLI(eng, defs, cfg, stdout, opts.trace)
		c.In = stdin
		c.Run()
		return 0
	}

	if err := tui.Run(eng, defs, cfg.Game.SaveDir); err != nil {
		logger.Error("tui exited", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadWorld reads the world directory, or the built-in world when dir is empty.
func loadWorld(dir string, logger *zap.Logger) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadFS(worlds.Default(), logger)
	}
	return loader.Load(dir, logger)
}

func newCLI(eng *engine.Engine, defs *state.Defs, cfg config.Config, out io.Writer, trace bool) *cli.CLI {
	c := cli.New(eng, defs, cfg.Game.SaveDir)
	c.Out = out
	c.Trace = trace
	return c
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
