// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for battlecore.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/combatant"
	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/engine/parser"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Defs      *state.Defs
	RNG       combatant.Roller
	Session   *engine.Session // nil until a class is chosen
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	RecentLog int  // lines shown by /log; 0 uses the rules default

	// OnFinish runs once when the battle ends.
	OnFinish func(*engine.Session)

	observers []events.Handler
	history   *History
}

// New creates a CLI over the given definitions and random source.
func New(defs *state.Defs, rng combatant.Roller) *CLI {
	return &CLI{
		Defs:    defs,
		RNG:     rng,
		In:      os.Stdin,
		Out:     os.Stdout,
		history: NewHistory(100),
	}
}

// Observe registers an event handler on the battle session.
func (c *CLI) Observe(h events.Handler) {
	c.observers = append(c.observers, h)
	if c.Session != nil {
		c.Session.OnEvent(h)
	}
}

// Start begins a battle with the given class.
func (c *CLI) Start(tag types.ClassTag) {
	c.Session = engine.NewBattle(c.Defs, tag, c.RNG)
	for _, h := range c.observers {
		c.Session.OnEvent(h)
	}
	c.printLine(fmt.Sprintf("You fight as a %s. %s stands before you!", c.Session.Player.Name, c.Session.Enemy.Name))
	c.printStatus()
}

// Run starts the game loop: class selection if no battle is running, then
// prompt → input → dispatch → output until the battle ends or input runs out.
func (c *CLI) Run() {
	scanner := bufio.NewScanner(c.In)

	if c.Session == nil {
		for _, line := range ClassMenu(c.Defs) {
			c.printLine(line)
		}
	} else {
		c.printStatus()
	}

	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		if c.Session == nil {
			tag, err := parser.ParseClass(input)
			if err != nil {
				c.printLine("Pick a class by name or number (1-5).")
				continue
			}
			c.Start(tag)
			continue
		}

		// "again" / "g" repeats the last battle command.
		cmd, ok := c.history.Submit(input)
		if !ok {
			c.printLine("Nothing to repeat.")
			continue
		}
		input = cmd

		if c.step(input) {
			return
		}
	}
}

// step runs one battle command. Returns true once the battle is over.
func (c *CLI) step(input string) bool {
	result, err := c.Session.Step(input)
	switch {
	case errors.Is(err, engine.ErrBattleOver):
		c.printSystem("The battle is over. Type /quit to exit.")
		return true
	case errors.Is(err, parser.ErrUnknownCommand):
		c.printLine("You can attack or use your special. Type /help for commands.")
		return false
	}

	c.printResult(result)
	if c.Trace {
		for _, line := range TraceLines(result) {
			c.printSystem(line)
		}
	}

	if c.Session.IsOver() {
		c.printLine("")
		c.printLine(Outcome(result.State))
		if c.OnFinish != nil {
			c.OnFinish(c.Session)
		}
		return true
	}
	c.printStatus()
	return false
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		for _, line := range HelpLines() {
			c.printLine(line)
		}

	case "/state":
		if c.Session == nil {
			c.printSystem("No battle in progress.")
			break
		}
		s := c.Session
		for _, line := range StateLines(s.Player.Snapshot(), s.Enemy.Snapshot(), s.TurnNumber, s.State) {
			c.printSystem(line)
		}

	case "/log":
		c.cmdLog(arg)

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdLog(arg string) {
	if c.Session == nil {
		c.printSystem("No battle in progress.")
		return
	}
	n := c.RecentLog
	if n <= 0 {
		n = c.Session.LogWindow()
	}
	switch {
	case arg == "all":
		n = len(c.Session.Log)
	case arg != "":
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			c.printSystem(fmt.Sprintf("Bad line count %q.", arg))
			return
		}
		n = v
	}
	for _, line := range c.Session.RecentLog(n) {
		c.printLine(line)
	}
}

func (c *CLI) printStatus() {
	s := c.Session
	c.printSystem(StatusLine(s.Player.Snapshot()) + "  vs  " + StatusLine(s.Enemy.Snapshot()))
}

func (c *CLI) printResult(result types.TurnResult) {
	for _, line := range result.Lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
