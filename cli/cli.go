// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Wayfarer game engine.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/save"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	Log       *zap.Logger
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
	savedTurn int    // turn count at the last save or load
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, saveDir string) *CLI {
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		Log:     eng.Log,
		SaveDir: saveDir,
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// location, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	c.savedTurn = c.Engine.State.TurnCount

	c.printLine(fmt.Sprintf("=== %s ===", strings.ToUpper(c.Defs.Game.Title)))
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
	}
	c.printLine("")

	// Describe the starting location.
	c.printResult(c.Engine.Step("look"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
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

		if isMeta(input) {
			if c.handleMeta(input, scanner) {
				return
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// metaCommands may be typed with or without a leading '/'. "exit" is not
// among them since it leaves a shop; "/exit" still quits.
var metaCommands = map[string]bool{
	"save":  true,
	"load":  true,
	"quit":  true,
	"help":  true,
	"state": true,
	"trace": true,
}

func isMeta(input string) bool {
	if strings.HasPrefix(input, "/") {
		return true
	}
	word := strings.ToLower(strings.Fields(input)[0])
	return metaCommands[word]
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string, scanner *bufio.Scanner) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "quit", "exit":
		c.cmdQuit(scanner)
		return true

	case "save":
		c.cmdSave(arg)

	case "load":
		c.cmdLoad(arg)

	case "help":
		c.cmdHelp()

	case "state":
		c.cmdState()

	case "trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: /%s. Type help for available commands.", cmd))
	}

	return false
}

// Unsaved reports whether anything happened since the last save or load.
func (c *CLI) Unsaved() bool {
	return c.Engine.State.TurnCount != c.savedTurn
}

// cmdQuit offers to save when there is progress to lose.
func (c *CLI) cmdQuit(scanner *bufio.Scanner) {
	if c.Unsaved() {
		c.print("Save before quitting? (y/n) ")
		if scanner.Scan() {
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if c.EchoInput {
				c.printLine(answer)
			}
			if answer == "y" || answer == "yes" {
				c.cmdSave("")
			}
		} else {
			c.printLine("")
		}
	}
	c.printSystem("Goodbye.")
}

func (c *CLI) cmdSave(name string) {
	path, err := save.WriteFile(c.SaveDir, name, c.Engine.State, c.Defs)
	if errors.Is(err, save.ErrInCombat) {
		c.printSystem("You can't save in the middle of a fight.")
		return
	}
	if err != nil {
		c.Log.Error("save failed", zap.String("name", name), zap.Error(err))
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.savedTurn = c.Engine.State.TurnCount
	c.Log.Info("game saved", zap.String("path", path), zap.Int("turn", c.savedTurn))
	c.printSystem(fmt.Sprintf("Game saved to %s.", path))
}

func (c *CLI) cmdLoad(name string) {
	sd, err := save.ReadFile(c.SaveDir, name, c.Defs)
	switch {
	case errors.Is(err, save.ErrNotFound):
		c.printSystem(fmt.Sprintf("No save found at %s.", save.Path(c.SaveDir, name)))
		return
	case err != nil:
		c.Log.Warn("load failed", zap.String("name", name), zap.Error(err))
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine.Restore(sd)
	c.savedTurn = c.Engine.State.TurnCount
	c.printSystem(fmt.Sprintf("Game loaded (turn %d).", sd.Turn))

	// Show current location after loading.
	c.printResult(c.Engine.Step("look"))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System (with or without a leading /):",
		"  save [name]   Save game (default: quicksave)",
		"  load [name]   Load game (default: quicksave)",
		"  quit          Exit game (offers to save)",
		"  help          Show this help",
		"  state         Debug: dump current state",
		"  trace         Toggle event trace output",
		"",
		"Exploring:",
		"  look (l)              Describe your surroundings",
		"  go <dir>              Move (or just type n/s/e/w/d, or up)",
		"  attack (a)            Pick a fight with whatever lives here",
		"  use <item> (u)        Drink a potion or equip a weapon or armor",
		"  inventory (i)         Check what you're carrying",
		"  stats                 Show your character",
		"  quests (q)            Show quest progress",
		"  shop                  Browse the shop, if there is one",
		"  again (g)             Repeat your last command",
		"",
		"In a fight:",
		"  attack (a), use <item> (u), run (r)",
		"",
		"In a shop:",
		"  buy <n> (b), sell <n> (s), leave (l)",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	p := s.Player
	c.printSystem(fmt.Sprintf("Turn: %d  Mode: %s", s.TurnCount, s.Mode))
	c.printSystem(fmt.Sprintf("Location: %s", p.Location))
	c.printSystem(fmt.Sprintf("Level %d  XP %d/%d  HP %d/%d  ATK %d  DEF %d  Gold %d",
		p.Level, p.Experience, p.NextLevel, p.Health, p.MaxHealth,
		state.AttackPower(&p), state.DefensePower(&p), p.Gold))
	names := make([]string, 0, len(p.Inventory))
	for _, it := range p.Inventory {
		names = append(names, it.ID)
	}
	c.printSystem(fmt.Sprintf("Inventory: %v", names))
	if len(p.Quests) > 0 {
		ids := make([]string, 0, len(p.Quests))
		for id := range p.Quests {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			c.printSystem(fmt.Sprintf("Quest %s: %+v", id, p.Quests[id]))
		}
	}
	if s.Combat != nil {
		c.printSystem(fmt.Sprintf("Combat: %s round %d", s.Combat.Enemy.TemplateID, s.Combat.Round))
	}
	c.printSystem(fmt.Sprintf("RNG: seed %d position %d", s.RNGSeed, s.RNGPosition))
}

func (c *CLI) prompt() string {
	switch c.Engine.State.Mode {
	case types.ModeCombat:
		return "(fight) > "
	case types.ModeShop:
		return "(shop) > "
	default:
		return "> "
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
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
