// Battlecore is a turn-based battle engine: pick a class and fight.
// Usage: battlecore [--version] [--plain] [--config <file>] [--seed <n>]
// [--class <name>] [--report <file>] [--show-report <file>] [--simulate <n>]
// [--script <file>] [--trace]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/battlecore/cli"
	"github.com/nathoo/battlecore/config"
	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/engine/parser"
	"github.com/nathoo/battlecore/engine/report"
	"github.com/nathoo/battlecore/engine/sim"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/loader"
	"github.com/nathoo/battlecore/logging"
	"github.com/nathoo/battlecore/tui"
	"github.com/nathoo/battlecore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: battlecore [--version] [--plain] [--config <file>] [--seed <n>] " +
	"[--class <name>] [--report <file>] [--show-report <file>] [--simulate <n>] " +
	"[--script <file>] [--trace]\n"

type options struct {
	plain      bool
	trace      bool
	configFile string
	seed       int64
	className  string
	reportFile string
	showReport string
	scriptFile string
	simulate   int
}

func main() {
	opts, ok := parseArgs(os.Args[1:])
	if !ok {
		return
	}

	if opts.showReport != "" {
		r, err := report.Read(opts.showReport)
		if err != nil {
			fatalf("Error: %v\n", err)
		}
		for _, line := range r.Lines() {
			fmt.Println(line)
		}
		return
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fatalf("Error loading config: %v\n", err)
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.plain {
		cfg.Plain = true
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fatalf("Error opening log: %v\n", err)
	}
	defer func() { _ = logger.Sync() }()

	defs := state.DefaultDefs()
	if cfg.RosterDir != "" {
		var warnings []string
		defs, warnings, err = loader.Load(cfg.RosterDir)
		for _, w := range warnings {
			logger.Warn("roster", zap.String("dir", cfg.RosterDir), zap.String("warning", w))
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if err != nil {
			fatalf("Error loading roster: %v\n", err)
		}
	}
	if cfg.RecentLog > 0 {
		defs.Rules.RecentLog = cfg.RecentLog
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.Int64("seed", seed),
		zap.String("roster", cfg.RosterDir),
	)

	var class *types.ClassTag
	if opts.className != "" {
		tag, err := parser.ParseClass(opts.className)
		if err != nil {
			fatalf("Error: %v\n", err)
		}
		class = &tag
	}

	if opts.simulate > 0 {
		runSimulation(defs, class, opts.simulate, seed)
		return
	}

	rng := engine.NewRNG(seed)
	observers := []events.Handler{logging.TurnObserver(logger)}
	onFinish := func(s *engine.Session) {
		logger.Info("battle finished",
			zap.Stringer("outcome", s.State),
			zap.Int("turns", s.TurnNumber),
		)
		if opts.reportFile == "" {
			return
		}
		if err := report.Write(opts.reportFile, s, rng); err != nil {
			logger.Error("writing report", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		}
	}

	// Script mode: open file, force plain, echo commands.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			fatalf("Error opening script: %v\n", err)
		}
		defer f.Close()
		c := newCLI(defs, rng, cfg, opts, observers, onFinish, class)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		newCLI(defs, rng, cfg, opts, observers, onFinish, class).Run()
		return
	}

	err = tui.Run(defs, rng, tui.Options{
		Class:     class,
		Trace:     opts.trace,
		RecentLog: cfg.RecentLog,
		OnFinish:  onFinish,
		Observers: observers,
	})
	if err != nil {
		fatalf("Error: %v\n", err)
	}
}

// parseArgs reads the command line. It returns false when main should exit
// without starting a battle.
func parseArgs(args []string) (options, bool) {
	var opts options

	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fatalf("%s requires a value\n", flag)
		}
		*i++
		return args[*i]
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("battlecore %s (commit %s, built %s)\n", version, commit, date)
			return opts, false
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--config":
			opts.configFile = value(&i, "--config")
		case "--class":
			opts.className = value(&i, "--class")
		case "--report":
			opts.reportFile = value(&i, "--report")
		case "--show-report":
			opts.showReport = value(&i, "--show-report")
		case "--script":
			opts.scriptFile = value(&i, "--script")
		case "--seed":
			n, err := strconv.ParseInt(value(&i, "--seed"), 10, 64)
			if err != nil {
				fatalf("--seed must be an integer\n")
			}
			opts.seed = n
		case "--simulate":
			n, err := strconv.Atoi(value(&i, "--simulate"))
			if err != nil || n <= 0 {
				fatalf("--simulate must be a positive integer\n")
			}
			opts.simulate = n
		default:
			fatalf("Unknown argument %q\n%s", args[i], usage)
		}
	}
	return opts, true
}

func newCLI(defs *state.Defs, rng *engine.RNG, cfg *config.Config, opts options,
	observers []events.Handler, onFinish func(*engine.Session), class *types.ClassTag) *cli.CLI {
	c := cli.New(defs, rng)
	c.Trace = opts.trace
	c.RecentLog = cfg.RecentLog
	c.OnFinish = onFinish
	for _, h := range observers {
		c.Observe(h)
	}
	if class != nil {
		c.Start(*class)
	}
	return c
}

// runSimulation prints a summary per class. Without --class every playable
// class is simulated.
func runSimulation(defs *state.Defs, class *types.ClassTag, n int, seed int64) {
	classes := types.PlayableClasses
	if class != nil {
		classes = []types.ClassTag{*class}
	}
	fmt.Printf("Simulating %d battles per class (seed %d)\n\n", n, seed)
	for _, tag := range classes {
		fmt.Println(sim.Run(defs, tag, n, seed))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
